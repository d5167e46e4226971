// Package webref fetches official government reference pages and reduces
// them to plain text excerpts for answer grounding.
package webref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultTimeout  = 8 * time.Second
	DefaultMaxChars = 4000
	maxBodyBytes    = 2 << 20
)

var ErrHostNotAllowed = errors.New("host is not on the reference allow-list")

type Reference struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Fetcher struct {
	client   *http.Client
	allowed  []string
	timeout  time.Duration
	maxChars int
}

type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func WithMaxChars(n int) Option {
	return func(f *Fetcher) { f.maxChars = n }
}

func NewFetcher(allowedHosts []string, timeout time.Duration, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hosts := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	f := &Fetcher{
		client:   &http.Client{},
		allowed:  hosts,
		timeout:  timeout,
		maxChars: DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Allowed reports whether rawURL is https and its host is an allow-listed
// domain or a subdomain of one.
func (f *Fetcher) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range f.allowed {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Reference, error) {
	if !f.Allowed(rawURL) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "VisaForge/1.0 (+reference-grounding)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	title, text, err := ExtractText(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	return &Reference{
		URL:       rawURL,
		Title:     title,
		Text:      clip(text, f.maxChars),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func clip(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
