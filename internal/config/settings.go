package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/handiism/ibb-album/internal/http"
	"github.com/handiism/ibb-album/internal/model"
	"github.com/titanous/json5"
)

// Settings holds all configuration options.
type Settings struct {
	// Fetch settings
	ImageHost         string  `json:"image_host"`
	UserAgent         string  `json:"user_agent"`
	Accept            string  `json:"accept"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	RequestsPerSecond float64 `json:"requests_per_second"`

	// Output settings
	OutputPath   string `json:"output_path"`
	OutputFormat string `json:"output_format"` // json, txt, html

	// Download settings
	DownloadsPath             string  `json:"downloads_path"`
	FileNameFormat            string  `json:"file_name_format"`
	MaxConcurrentDownloads    int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries        int     `json:"download_max_retries"`
	DownloadRetryCooldown     float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `json:"download_retry_exponent"`
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference"`

	// Thumbnail settings
	CreateThumbnails bool   `json:"create_thumbnails"`
	ThumbnailMaxSize int    `json:"thumbnail_max_size"` // <= 0 keeps full size
	ThumbnailsFolder string `json:"thumbnails_folder"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		ImageHost:         "i.ibb.co",
		UserAgent:         "Mozilla/5.0",
		Accept:            "text/html",
		TimeoutSeconds:    0,
		CloudflareBypass:  false,
		RequestsPerSecond: 0,

		OutputPath:   "",
		OutputFormat: "json",

		DownloadsPath:             filepath.Join(homeDir, "Pictures", "Imgbb", "{album}"),
		FileNameFormat:            "{index} {name}{ext}",
		MaxConcurrentDownloads:    4,
		DownloadMaxRetries:        3,
		DownloadRetryCooldown:     0.2,
		DownloadRetryExponent:     4.0,
		AllowedFileSizeDifference: 0.05,

		CreateThumbnails: false,
		ThumbnailMaxSize: 400,
		ThumbnailsFolder: "thumbs",
	}
}

// Load reads settings from a JSON5 file on top of the defaults.
//
// A sibling "<name>.local.<ext>" file, when present, is read over the
// result. Every key it names wins, including false, 0 and "", so a local
// file can switch off what the main file turns on. A missing main file is
// not an error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	localPath := LocalPath(path)
	localData, err := os.ReadFile(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	if err := json5.Unmarshal(localData, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", localPath, err)
	}

	return settings, nil
}

// Merge copies the non-zero fields of override into s.
//
// Zero values never win, which suits overrides built from optional
// command-line flags: a flag left unset does not clear a loaded setting.
func (s *Settings) Merge(override *Settings) error {
	return mergo.Merge(s, override, mergo.WithOverride)
}

// LocalPath returns the override file path for a settings file,
// e.g. "ibb-album.json5" becomes "ibb-album.local.json5".
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Timeout returns the HTTP timeout, zero meaning none.
func (s *Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	cfg := &model.PathConfig{
		DownloadsPath:  s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
	}
	if s.CreateThumbnails {
		cfg.ThumbnailsFolder = s.ThumbnailsFolder
	}
	return cfg
}

// ToClientOptions converts settings to HTTP client options.
// The logger is left for the caller to set.
func (s *Settings) ToClientOptions() http.Options {
	opts := http.DefaultOptions()
	if s.UserAgent != "" {
		opts.UserAgent = s.UserAgent
	}
	if s.Accept != "" {
		opts.Accept = s.Accept
	}
	opts.Timeout = s.Timeout()
	opts.CloudflareBypass = s.CloudflareBypass
	opts.RequestsPerSecond = s.RequestsPerSecond
	return opts
}
