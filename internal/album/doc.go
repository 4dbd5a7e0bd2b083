// Package album extracts direct image links from image-hosting album pages.
//
// The package handles one use case: given the HTML of an album page such as
// https://ibb.co/album/Jw0Rgd, find every direct image link
// (https://i.ibb.co/...) in it, in page order and without duplicates.
//
// # Extraction
//
// Use the Extractor to fetch a page and extract its links in one call:
//
//	extractor := album.NewExtractor(client, album.DefaultHost)
//	links, err := extractor.Extract(ctx, "https://ibb.co/album/Jw0Rgd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or work on HTML already in hand:
//
//	links, err := album.ExtractLinks(html, album.DefaultHost)
//
// # Page Format
//
// Album pages embed direct links as plain substrings: in thumbnail
// attributes, inline scripts and metadata. Links inside JSON strings carry
// escape sequences and trailing quotes, which Clean removes. The scan is a
// flat text pass (Matches), not a DOM parse.
package album
