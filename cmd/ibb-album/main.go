// Package main provides the entry point for the ibb-album CLI.
//
// ibb-album scrapes an Imgbb album page for its direct image links and
// prints them as a JSON array, the format the website gallery loads.
//
// Usage:
//
//	ibb-album "https://ibb.co/album/Jw0Rgd" > assets/gallery.json
//	ibb-album --output assets/gallery.json --download ./mirror "https://ibb.co/album/Jw0Rgd"
//
// Exit codes:
//
//	0  links written
//	1  usage, configuration, network or download error
//	2  page loaded but no direct image links were found
//
// See --help for all available options.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
