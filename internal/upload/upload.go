// Package upload posts rendered images to a configured HTTP endpoint.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client uploads images as multipart form posts.
type Client struct {
	url   string
	field string
	http  *http.Client
}

// Option adjusts client construction.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a client for the endpoint. field names the multipart form field
// the server expects; it defaults to "file".
func New(url, field string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("upload url is not configured")
	}
	if field == "" {
		field = "file"
	}
	c := &Client{url: url, field: field, http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Result reports where the server put the upload.
type Result struct {
	// Location is the response body trimmed of whitespace, which the common
	// paste services use to return the public URL.
	Location string
	Status   int
}

// UploadImage PNG-encodes the image and posts it under the configured field.
func (c *Client) UploadImage(ctx context.Context, img image.Image, filename string) (Result, error) {
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return Result{}, fmt.Errorf("encode upload image: %w", err)
	}
	if filename == "" {
		filename = "snipmark.png"
	}
	return c.upload(ctx, payload.Bytes(), filename)
}

func (c *Client) upload(ctx context.Context, data []byte, filename string) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(c.field, filename)
	if err != nil {
		return Result{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Result{}, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return Result{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("upload to %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("upload to %s: status %d: %s", c.url, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return Result{Location: strings.TrimSpace(string(raw)), Status: resp.StatusCode}, nil
}
