package album

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoLinksFound is returned when an album page loaded but contained no
// direct image links.
//
// This typically occurs when:
//   - The host changed its markup
//   - The page needs JavaScript to render its links
//   - The album is empty or private
var ErrNoLinksFound = errors.New("no direct image links found on album page")

// ErrInvalidAlbumURL is returned for album URLs that are not absolute
// http(s) URLs.
var ErrInvalidAlbumURL = errors.New("invalid album URL")

// Fetcher retrieves a page as text.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Extractor fetches album pages and extracts their direct image links.
//
// Example usage:
//
//	extractor := album.NewExtractor(http.NewClient(http.DefaultOptions()), album.DefaultHost)
//
//	links, err := extractor.Extract(ctx, "https://ibb.co/album/Jw0Rgd")
//	if errors.Is(err, album.ErrNoLinksFound) {
//	    fmt.Println("page loaded but nothing matched")
//	}
type Extractor struct {
	fetcher Fetcher
	host    string
}

// NewExtractor creates an Extractor. An empty host means DefaultHost.
func NewExtractor(fetcher Fetcher, host string) *Extractor {
	if host == "" {
		host = DefaultHost
	}
	return &Extractor{
		fetcher: fetcher,
		host:    host,
	}
}

// Host returns the direct-image host the extractor scans for.
func (e *Extractor) Host() string {
	return e.host
}

// Extract fetches albumURL once and returns its unique direct image links in
// first-occurrence order.
//
// Fetch failures are wrapped, so callers can use errors.As to reach the
// transport's error. ErrNoLinksFound is returned when the page loaded but
// nothing matched. No retries are made.
func (e *Extractor) Extract(ctx context.Context, albumURL string) ([]string, error) {
	if err := ValidateAlbumURL(albumURL); err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx).With().Str("album_url", albumURL).Logger()
	log.Debug().Msg("Fetching album page")

	html, err := e.fetcher.GetString(ctx, albumURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album page: %w", err)
	}
	log.Debug().Int("bytes", len(html)).Msg("Album page fetched")

	links, err := ExtractLinks(html, e.host)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("links", len(links)).Msg("Extracted direct image links")

	return links, nil
}

// ExtractLinks scans html for direct image links on host, cleans them, and
// removes duplicates keeping the first occurrence.
//
// Returns ErrNoLinksFound if nothing survives.
func ExtractLinks(html, host string) ([]string, error) {
	var links OrderedSet[string]
	for raw := range Matches(html, host) {
		links.Add(Clean(raw))
	}

	if links.Len() == 0 {
		return nil, ErrNoLinksFound
	}
	return links.Values(), nil
}

// ValidateAlbumURL checks that albumURL is an absolute http(s) URL.
func ValidateAlbumURL(albumURL string) error {
	u, err := url.Parse(albumURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAlbumURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAlbumURL, albumURL)
	}
	return nil
}

// AlbumID returns the last path segment of an album URL,
// e.g. "Jw0Rgd" for "https://ibb.co/album/Jw0Rgd".
//
// Returns "album" when the URL has no usable path.
func AlbumID(albumURL string) string {
	u, err := url.Parse(albumURL)
	if err != nil {
		return "album"
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "album"
	}
	return segments[len(segments)-1]
}
