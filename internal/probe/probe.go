// Package probe checks that a deployed instance answers its public endpoints.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Check struct {
	Name   string
	Method string
	Path   string
}

// DefaultChecks covers the endpoints the public site loads.
var DefaultChecks = []Check{
	{Name: "Health", Method: http.MethodGet, Path: "/healthz"},
	{Name: "Ready", Method: http.MethodGet, Path: "/readyz"},
	{Name: "Get Content", Method: http.MethodGet, Path: "/api/content"},
	{Name: "Get Projects", Method: http.MethodGet, Path: "/api/projects"},
	{Name: "Get Categories", Method: http.MethodGet, Path: "/api/categories"},
	{Name: "Get Team", Method: http.MethodGet, Path: "/api/team"},
	{Name: "Get Settings (Branding)", Method: http.MethodGet, Path: "/api/settings/branding/public"},
	{Name: "Get Settings (Login)", Method: http.MethodGet, Path: "/api/settings/login-options/public"},
}

type Result struct {
	Check    Check
	Status   int
	Duration time.Duration
	Err      string
}

func (r Result) OK() bool {
	return r.Err == "" && r.Status >= 200 && r.Status < 400
}

type Prober struct {
	client  *http.Client
	baseURL string
}

func New(baseURL string, timeout time.Duration) *Prober {
	return &Prober{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Run performs checks in order and returns one result per check.
func (p *Prober) Run(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		results = append(results, p.run(ctx, c))
	}
	return results
}

func (p *Prober) run(ctx context.Context, c Check) Result {
	res := Result{Check: c}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, c.Method, p.baseURL+c.Path, nil)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	req.Header.Set("User-Agent", "tarmuz-probe/1.0")

	resp, err := p.client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = fmt.Sprintf("connection failed: %v", err)
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if !res.OK() {
		res.Err = errorMessage(resp.Body)
	}

	return res
}

func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))

	var envelope struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		if envelope.Msg != "" {
			return envelope.Msg
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	s := strings.TrimSpace(string(data))
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		return "unknown error"
	}
	return s
}
