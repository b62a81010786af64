// Package assets pushes image files to remote hosting and removes them again.
package assets

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseFolder is the remote namespace used when none is configured.
const DefaultBaseFolder = "tarmuz/uploads"

// Asset describes an uploaded image as reported by the remote host.
type Asset struct {
	PublicID  string
	SecureURL string
	Format    string
	Width     int
	Height    int
	Bytes     int64
}

// Store is the remote image host. Upload overwrites any asset already stored
// under publicID.
type Store interface {
	Upload(ctx context.Context, localPath, publicID string) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
	PublicIDFromURL(rawURL string) (string, bool)
}

var (
	versionSegment = regexp.MustCompile(`^v\d+/`)
	extension      = regexp.MustCompile(`\.[a-zA-Z0-9]+$`)
)

// CloudinaryPublicID recovers the public ID from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v1699999999/tarmuz/uploads/general/name.jpg
func CloudinaryPublicID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	parts := strings.Split(u.Path, "/")
	uploadIdx := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIdx = i
			break
		}
	}

	if uploadIdx == -1 {
		return "", false
	}

	after := strings.Join(parts[uploadIdx+1:], "/")
	after = versionSegment.ReplaceAllString(after, "")
	after = extension.ReplaceAllString(after, "")

	if after == "" {
		return "", false
	}

	return after, true
}
