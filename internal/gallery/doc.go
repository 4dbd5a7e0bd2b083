// Package gallery serializes extracted image links for the website gallery.
//
// The default JSON format is the gallery.json contract: a pretty-printed
// array of absolute image URLs in display order.
//
//	w := gallery.NewWriter(gallery.FormatJSON)
//	err := w.Write(os.Stdout, links)
//
// Output:
//
//	[
//	  "https://i.ibb.co/abc123/pic.jpg",
//	  "https://i.ibb.co/def456/other.png"
//	]
//
// Supported formats:
//   - JSON (default, no trailing newline)
//   - TXT (one URL per line)
//   - HTML (gallery tiles with lazy-loaded images)
package gallery
