// Package migrate holds the batch jobs that move stored image references from
// local upload paths to the asset store.
package migrate

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Mapping maps a local upload path, relative to the uploads directory and
// using forward slashes, to the URL of the pushed asset.
type Mapping map[string]string

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

func IsAbsoluteURL(v string) bool {
	return absoluteURL.MatchString(v)
}

// NormalizeKey turns a stored reference such as "/uploads/team/a%20b.jpg" into
// the mapping key "team/a b.jpg".
func NormalizeKey(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}

	if decoded, err := url.PathUnescape(v); err == nil {
		v = decoded
	}

	v = strings.ReplaceAll(v, `\`, "/")
	v = strings.TrimLeft(v, "/")

	if strings.HasPrefix(strings.ToLower(v), "uploads/") {
		v = v[len("uploads/"):]
	}

	return v
}

// Rewrite returns the mapped URL for value. Absolute URLs and unknown paths
// come back unchanged with ok false.
func (m Mapping) Rewrite(value string) (string, bool) {
	if value == "" || IsAbsoluteURL(value) {
		return value, false
	}

	mapped, ok := m[NormalizeKey(value)]
	if !ok || mapped == "" || mapped == value {
		return value, false
	}

	return mapped, true
}

// RewriteAll rewrites every entry of values and reports whether any changed.
func (m Mapping) RewriteAll(values []string) ([]string, bool) {
	out := make([]string, len(values))
	changed := false

	for i, v := range values {
		var ok bool
		out[i], ok = m.Rewrite(v)
		changed = changed || ok
	}

	return out, changed
}

func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping %s: %w", path, err)
	}

	return m, nil
}

func (m Mapping) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create mapping dir: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
