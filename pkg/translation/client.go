// Package translation forwards documents to the certified translation vendor.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	DefaultEndpoint   = "https://api.jukelingo.com/v1/translate"
	DefaultTargetLang = "en"
)

var (
	ErrMissingAPIKey   = errors.New("JUKELINGO_API_KEY missing")
	ErrInvalidResponse = errors.New("translation vendor returned a non-JSON body")
)

type Request struct {
	Filename   string
	File       io.Reader
	TargetLang string
	// Fields are forwarded as extra form values (visa_app_id, evidence_id).
	Fields map[string]string
}

// Response is the vendor's status and JSON body, passed through untouched.
type Response struct {
	Status int
	Body   json.RawMessage
}

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) Submit(ctx context.Context, req Request) (*Response, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = DefaultTargetLang
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.WriteField("targetLang", targetLang); err != nil {
		return nil, fmt.Errorf("write targetLang: %w", err)
	}
	for k, v := range req.Fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w (status %d)", ErrInvalidResponse, resp.StatusCode)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}
