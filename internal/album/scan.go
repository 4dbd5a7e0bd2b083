package album

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultHost is the Imgbb direct-image host.
const DefaultHost = "i.ibb.co"

// Matches returns a lazy sequence of the direct image links embedded in text.
//
// A link is "http" or "https", then "://", then host, then "/", then one or
// more characters that are neither whitespace nor one of " ' < >. Matches
// never overlap: the scan resumes right after each link, and the leftmost
// candidate always wins, so links come out in the order they appear.
//
// This is a plain text scan, not an HTML parse. Album pages embed direct
// links in attributes, inline scripts and metadata alike.
//
// An empty host means DefaultHost.
func Matches(text, host string) iter.Seq[string] {
	if host == "" {
		host = DefaultHost
	}
	prefix := "://" + host + "/"

	return func(yield func(string) bool) {
		for i := 0; i < len(text); {
			j := strings.Index(text[i:], "http")
			if j < 0 {
				return
			}
			start := i + j

			end := matchAt(text, start, prefix)
			if end < 0 {
				i = start + 1
				continue
			}
			if !yield(text[start:end]) {
				return
			}
			i = end
		}
	}
}

// matchAt returns the end offset of the link starting at start, or -1.
// text[start:] is known to begin with "http".
func matchAt(text string, start int, prefix string) int {
	p := start + len("http")
	if p < len(text) && text[p] == 's' {
		p++
	}
	if !strings.HasPrefix(text[p:], prefix) {
		return -1
	}
	p += len(prefix)

	end := p
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if isLinkBoundary(r) {
			break
		}
		end += size
	}
	if end == p {
		return -1
	}
	return end
}

func isLinkBoundary(r rune) bool {
	switch r {
	case '"', '\'', '<', '>':
		return true
	case 0xFEFF: // zero width no-break space
		return true
	case 0x85: // NEL does not end a link
		return false
	}
	return unicode.IsSpace(r)
}
