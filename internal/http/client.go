package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every request. Some hosts reject requests
	// without a recognizable browser signature.
	UserAgent string

	// Accept is sent with every request.
	Accept string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// CloudflareBypass wraps the transport with browser-like TLS settings.
	CloudflareBypass bool

	// RequestsPerSecond paces outgoing requests. Zero means unlimited.
	RequestsPerSecond float64

	// Logger receives resty's internal warnings and errors. Optional.
	Logger resty.Logger
}

// DefaultOptions returns the options used for album pages.
func DefaultOptions() Options {
	return Options{
		UserAgent: "Mozilla/5.0",
		Accept:    "text/html",
	}
}

// Client wraps HTTP operations with album-host specific configuration.
//
// Client provides:
//   - Browser-like User-Agent and Accept headers
//   - Optional request pacing and timeout
//   - File download with progress tracking
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//
//	// Fetch HTML content
//	html, err := client.GetString(ctx, "https://ibb.co/album/Jw0Rgd")
//
//	// Download file with progress
//	n, err := client.DownloadFile(ctx, imageURL, "/path/to/pic.jpg", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	resty *resty.Client
}

// NewClient creates a new HTTP client from options.
func NewClient(opts Options) *Client {
	rc := resty.New()

	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Accept != "" {
		rc.SetHeader("Accept", opts.Accept)
	}
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.Logger != nil {
		rc.SetLogger(opts.Logger)
	}
	if opts.CloudflareBypass {
		rc.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(rc.GetClient().Transport)
	}
	if opts.RequestsPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return &Client{resty: rc}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// It is -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// The whole body is read in one buffered read. Any non-2xx status or
// transport failure is returned as a *FetchError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.resty.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, newStatusError(url, resp.StatusCode(), resp.Status())
	}

	return resp.Body(), nil
}

// GetString performs a GET request and returns the response body as a string.
//
// Example:
//
//	html, err := client.GetString(ctx, "https://ibb.co/album/Jw0Rgd")
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// Returns an error if the request fails, the status is not 2xx, or the
// server doesn't return a Content-Length header.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.resty.R().SetContext(ctx).Head(url)
	if err != nil {
		return 0, &FetchError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		return 0, newStatusError(url, resp.StatusCode(), resp.Status())
	}

	if resp.RawResponse == nil || resp.RawResponse.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.RawResponse.ContentLength, nil
}

// DownloadFile streams a file to destPath with an optional progress callback
// and returns the number of bytes written.
//
// The file is created (or truncated if it exists). A failed copy removes
// the partial file.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return 0, &FetchError{URL: url, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return 0, newStatusError(url, resp.StatusCode(), resp.Status())
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	var total int64 = -1
	if resp.RawResponse != nil {
		total = resp.RawResponse.ContentLength
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return 0, err
	}

	return n, nil
}

func newStatusError(url string, code int, status string) *FetchError {
	if status == "" {
		status = fmt.Sprintf("%d %s", code, http.StatusText(code))
	}
	return &FetchError{URL: url, StatusCode: code, Status: status}
}
