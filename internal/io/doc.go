// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Atomic file writes, so output files never appear half-written
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Thumbnail resizing and JPEG conversion
//
// # File Operations
//
//	err := ioutils.WriteFileAtomic("assets/gallery.json", data)
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Shot: 1/2") // Returns "Shot_ 1_2"
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	thumb, _ := svc.ResizeImage(ctx, imageData, 400, 400)
package ioutils
