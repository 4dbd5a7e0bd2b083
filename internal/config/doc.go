// Package config provides configuration management for ibb-album.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from JSON5 files, with "<name>.local.<ext>" overrides
//   - Saving settings as indented JSON
//   - Conversion to PathConfig for the download manager
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Scans for i.ibb.co links
//	// Sends "User-Agent: Mozilla/5.0" and "Accept: text/html"
//	// Writes the gallery JSON to stdout
//
// # Loading from File
//
//	settings, err := config.Load("ibb-album.json5")
//	// ibb-album.local.json5 is merged on top when it exists
//
// A missing file is not an error: the defaults are returned.
package config
