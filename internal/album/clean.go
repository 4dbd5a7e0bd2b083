package album

import "strings"

const (
	escapedAmpersand = `\u0026`
	escapedQuote     = `\u0022`
	htmlQuote        = `&quot;`

	// trailingJunk is left behind when a link was cut out of a JSON string
	// or an HTML attribute.
	trailingJunk = `"')\`
)

// Clean unescapes a raw link and strips trailing string artifacts.
//
// The rules run in this order:
//  1. \u0026 becomes &
//  2. &quot; becomes "
//  3. \u0022 becomes "
//  4. a trailing run of " ' ) \ is removed
//
// Unescaping comes first so that an escaped quote at the end of a link is
// recognized as strippable. Clean is idempotent.
//
// Example:
//
//	Clean(`https://i.ibb.co/abc/pic.jpg?a=1\u0026b=2&quot;`)
//	// Returns `https://i.ibb.co/abc/pic.jpg?a=1&b=2`
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, escapedAmpersand, "&")
	s = strings.ReplaceAll(s, htmlQuote, `"`)
	s = strings.ReplaceAll(s, escapedQuote, `"`)
	return strings.TrimRight(s, trailingJunk)
}
