// Package http provides an HTTP client configured for image album hosts.
//
// The Client in this package handles:
//   - Browser-like User-Agent and Accept headers
//   - Optional Cloudflare-friendly transport and request pacing
//   - File downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://ibb.co/album/Jw0Rgd")
//
// # Errors
//
// Failed requests return a *FetchError carrying the HTTP status, or the
// network-level cause when no response arrived:
//
//	var fe *http.FetchError
//	if errors.As(err, &fe) && fe.StatusCode == 404 {
//	    // album does not exist
//	}
package http
