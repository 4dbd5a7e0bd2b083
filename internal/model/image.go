package model

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/ibb-album/internal/io"
)

// defaultExt is used when an image URL carries no file extension.
const defaultExt = ".jpg"

// Image represents one direct image link of an album and where it is saved locally.
//
// Paths are computed when creating an image via NewImage, using placeholders
// like {album}, {index}, {id}, {name} and {ext}.
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:  "/pictures/{album}",
//	    FileNameFormat: "{index} {name}{ext}",
//	}
//	img := NewImage("https://i.ibb.co/abc123/pic.jpg", 1, "Jw0Rgd", cfg)
//	// img.Path = "/pictures/Jw0Rgd/001 pic.jpg"
type Image struct {
	// URL is the direct image link.
	URL string

	// Index is the 1-based position of the image in the gallery.
	Index int

	// ID is the host's image identifier, the first path segment of the URL.
	ID string

	// Name is the file name of the image without extension.
	Name string

	// Ext is the file extension including the dot.
	Ext string

	// Folder is the computed local directory for the album.
	Folder string

	// Path is the computed local file path for the image.
	Path string

	// ThumbnailPath is the computed local file path for the thumbnail.
	// Empty when thumbnails are disabled.
	ThumbnailPath string
}

// PathConfig holds path formatting settings for downloaded images.
//
// Supported placeholders:
//   - {album} - Album identifier (DownloadsPath only)
//   - {index} - Gallery position, zero-padded to 3 digits
//   - {id} - Image identifier
//   - {name} - Image file name without extension
//   - {ext} - Image file extension including the dot
type PathConfig struct {
	// DownloadsPath is the folder template for saving an album.
	// Example: "/pictures/{album}"
	DownloadsPath string

	// FileNameFormat is the filename template for each image.
	// Example: "{index} {name}{ext}"
	FileNameFormat string

	// ThumbnailsFolder is the sub-folder for thumbnails.
	// Empty disables thumbnails.
	ThumbnailsFolder string
}

// NewImage creates a new Image with computed paths.
//
// Invalid filename characters are replaced with underscores and paths are
// truncated if they exceed Windows path length limits.
func NewImage(rawURL string, index int, album string, cfg *PathConfig) *Image {
	img := &Image{
		URL:   rawURL,
		Index: index,
	}
	img.ID, img.Name, img.Ext = splitImageURL(rawURL)

	img.Folder = parseFolderPath(album, cfg)
	img.Path = img.parseFilePath(cfg)
	img.ThumbnailPath = img.parseThumbnailPath(cfg)

	return img
}

// HasThumbnail returns true if a thumbnail should be generated for the image.
func (i *Image) HasThumbnail() bool {
	return i.ThumbnailPath != ""
}

// splitImageURL returns the id, file stem and extension of an image URL.
func splitImageURL(rawURL string) (id, name, ext string) {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	segments := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "", "image", defaultExt
	}

	file := segments[len(segments)-1]
	ext = path.Ext(file)
	name = strings.TrimSuffix(file, ext)
	if ext == "" || ext == "." {
		ext = defaultExt
	}
	if name == "" {
		name = "image"
	}

	id = segments[0]
	if len(segments) == 1 {
		id = name
	}

	return id, name, strings.ToLower(ext)
}

// parseFolderPath computes the album folder from the config template.
func parseFolderPath(album string, cfg *PathConfig) string {
	if album == "" {
		album = "album"
	}
	folder := strings.ReplaceAll(cfg.DownloadsPath, "{album}", ioutils.SanitizeFileName(album))

	// Limit folder path length for Windows compatibility
	if len(folder) >= 248 {
		folder = folder[:247]
	}

	return folder
}

// parseFilePath computes the full file path for this image.
func (i *Image) parseFilePath(cfg *PathConfig) string {
	fileName := i.parseFileName(cfg)
	filePath := filepath.Join(i.Folder, fileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		ext := filepath.Ext(fileName)
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(i.Folder, fileName[:maxLen]+ext)
		}
	}

	return filePath
}

// parseFileName computes the filename from the config template.
func (i *Image) parseFileName(cfg *PathConfig) string {
	format := cfg.FileNameFormat
	if format == "" {
		format = "{index} {name}{ext}"
	}

	fileName := format
	fileName = strings.ReplaceAll(fileName, "{index}", fmt.Sprintf("%03d", i.Index))
	fileName = strings.ReplaceAll(fileName, "{id}", i.ID)
	fileName = strings.ReplaceAll(fileName, "{name}", i.Name)
	fileName = strings.ReplaceAll(fileName, "{ext}", i.Ext)
	return ioutils.SanitizeFileName(fileName)
}

// parseThumbnailPath computes the thumbnail file path.
// Thumbnails are always JPEG.
func (i *Image) parseThumbnailPath(cfg *PathConfig) string {
	if cfg.ThumbnailsFolder == "" {
		return ""
	}

	base := strings.TrimSuffix(filepath.Base(i.Path), filepath.Ext(i.Path))
	return filepath.Join(i.Folder, ioutils.SanitizeFileName(cfg.ThumbnailsFolder), base+".jpg")
}
