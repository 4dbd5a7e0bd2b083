// Package model defines the core data structures used throughout ibb-album.
//
// # Image
//
// Image represents one direct image link with its computed local paths:
//
//	img := model.NewImage("https://i.ibb.co/abc123/pic.jpg", 1, "Jw0Rgd", pathConfig)
//	fmt.Println(img.Path)          // Where to save the image
//	fmt.Println(img.ThumbnailPath) // Where to save its thumbnail
//
// # Path Configuration
//
// PathConfig controls how image paths are computed using placeholders:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:    "/pictures/{album}",
//	    FileNameFormat:   "{index} {name}{ext}",
//	    ThumbnailsFolder: "thumbs",
//	}
//
// Available placeholders: {album}, {index}, {id}, {name}, {ext}
package model
