package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	ioutils "github.com/handiism/ibb-album/internal/io"
)

// Format represents a supported output format.
type Format int

const (
	// FormatJSON writes a JSON array of URLs, indented by two spaces.
	// This is the format the website gallery loads.
	FormatJSON Format = iota

	// FormatTXT writes one URL per line.
	FormatTXT

	// FormatHTML writes one gallery tile per URL, ready to paste into a
	// gallery grid.
	FormatHTML
)

// String returns the format's name as used on the command line.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTXT:
		return "txt"
	case FormatHTML:
		return "html"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name. An empty name means FormatJSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatTXT, nil
	case "html":
		return FormatHTML, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want json, txt or html)", name)
	}
}

// Writer renders a link list in one format.
//
// Example:
//
//	w := NewWriter(FormatHTML)
//	err := w.WriteFile("gallery.html", links)
//
//	// Result:
//	// <div class="gallery-tile"><img src="https://i.ibb.co/abc/1.jpg" alt="Gallery image 1" loading="lazy" decoding="async"></div>
type Writer struct {
	format Format
}

// NewWriter creates a Writer for format.
func NewWriter(format Format) *Writer {
	return &Writer{format: format}
}

// Format returns the writer's format.
func (w *Writer) Format() Format {
	return w.format
}

// Render returns the serialized form of urls.
func (w *Writer) Render(urls []string) ([]byte, error) {
	switch w.format {
	case FormatTXT:
		return renderTXT(urls), nil
	case FormatHTML:
		return renderHTML(urls), nil
	default:
		return renderJSON(urls)
	}
}

// Write renders urls and writes them to out in one call, so a rendering
// error leaves out untouched.
func (w *Writer) Write(out io.Writer, urls []string) error {
	data, err := w.Render(urls)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// WriteFile renders urls to path atomically. Readers never see a partial
// file.
func (w *Writer) WriteFile(path string, urls []string) error {
	data, err := w.Render(urls)
	if err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(path, data)
}

// renderJSON writes a two-space indented array.
//
// HTML characters are kept literal since URLs routinely carry '&'. The
// encoder's trailing newline is dropped to keep the gallery.json layout.
func renderJSON(urls []string) ([]byte, error) {
	if urls == nil {
		urls = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(urls); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func renderTXT(urls []string) []byte {
	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// renderHTML writes gallery tiles. Alt text numbers images from 1.
func renderHTML(urls []string) []byte {
	var sb strings.Builder
	for i, u := range urls {
		fmt.Fprintf(&sb, "<div class=\"gallery-tile\"><img src=\"%s\" alt=\"Gallery image %d\" loading=\"lazy\" decoding=\"async\"></div>\n",
			html.EscapeString(u), i+1)
	}
	return []byte(sb.String())
}
