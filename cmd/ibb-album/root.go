package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/handiism/ibb-album/internal/album"
	"github.com/handiism/ibb-album/internal/config"
	"github.com/handiism/ibb-album/internal/download"
	"github.com/handiism/ibb-album/internal/gallery"
	"github.com/handiism/ibb-album/internal/http"
	"github.com/handiism/ibb-album/internal/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitNoLinks = 2
)

const exampleAlbumURL = "https://ibb.co/album/Jw0Rgd"

// errUsage is returned when the album URL argument is missing or blank.
var errUsage = errors.New("missing album URL")

// options holds the command-line flags.
type options struct {
	configPath string
	output     string
	format     string
	host       string
	userAgent  string
	download   string
	thumbnails bool
	verbose    bool
}

// NewRootCmd creates the ibb-album command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ibb-album <album-url>",
		Short: "Extract direct image links from an Imgbb album",
		Long: `ibb-album fetches an Imgbb album page once, collects every direct image
link (https://i.ibb.co/...) embedded in its HTML, and writes them as a JSON
array in page order without duplicates.

The output is the gallery.json file the website gallery loads. Optionally
the images themselves can be mirrored to a local folder.`,
		Example: `  ibb-album "https://ibb.co/album/Jw0Rgd" > assets/gallery.json
  ibb-album -o assets/gallery.json "https://ibb.co/album/Jw0Rgd"
  ibb-album --format html "https://ibb.co/album/Jw0Rgd"
  ibb-album --download ./mirror --thumbnails "https://ibb.co/album/Jw0Rgd"`,
		Version:       getVersion(),
		Args:          albumURLArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, strings.TrimSpace(args[0]))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a JSON5 settings file")
	flags.StringVarP(&opts.output, "output", "o", "", "Write links to this file instead of stdout")
	flags.StringVar(&opts.format, "format", "", "Output format: json, txt or html (default json)")
	flags.StringVar(&opts.host, "host", "", "Direct-image host to look for (default "+album.DefaultHost+")")
	flags.StringVar(&opts.userAgent, "user-agent", "", "User-Agent header for requests")
	flags.StringVar(&opts.download, "download", "", "Also download the images into this folder")
	flags.BoolVar(&opts.thumbnails, "thumbnails", false, "Create JPEG thumbnails for downloaded images")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewInitCmd())

	return cmd
}

// albumURLArg accepts exactly one non-blank album URL.
func albumURLArg(_ *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return errUsage
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: expected one album URL, got %d arguments", errUsage, len(args))
	}
	return nil
}

// run executes the command and maps its outcome to an exit code.
// Nothing but the serialized links is ever written to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Provide an album url: ibb-album %q\n", exampleAlbumURL)
		return exitError
	case errors.Is(err, album.ErrNoLinksFound):
		var nl *noLinksError
		host := album.DefaultHost
		if errors.As(err, &nl) {
			host = nl.host
		}
		fmt.Fprintf(stderr, "No %s links found on the album page HTML.\n", host)
		fmt.Fprintln(stderr, "If this happens, collect the links manually or use the Imgbb API.")
		return exitNoLinks
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

// noLinksError carries the host that was searched for.
type noLinksError struct {
	host string
}

func (e *noLinksError) Error() string {
	return fmt.Sprintf("no %s links found", e.host)
}

func (e *noLinksError) Unwrap() error {
	return album.ErrNoLinksFound
}

// loadSettings reads the settings file, if any, and applies flag overrides.
func loadSettings(opts *options) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	// Apply flags. Unset flags are zero and leave loaded values alone.
	override := &config.Settings{
		OutputPath:       opts.output,
		OutputFormat:     opts.format,
		ImageHost:        opts.host,
		UserAgent:        opts.userAgent,
		CreateThumbnails: opts.thumbnails,
	}
	if opts.download != "" {
		override.DownloadsPath = filepath.Join(opts.download, "{album}")
	}
	if err := settings.Merge(override); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}

	return settings, nil
}

func runExtract(cmd *cobra.Command, opts *options, albumURL string) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	format, err := gallery.ParseFormat(settings.OutputFormat)
	if err != nil {
		return err
	}

	logger := log.New(cmd.ErrOrStderr(), opts.verbose)
	ctx := logger.WithContext(cmd.Context())

	clientOpts := settings.ToClientOptions()
	clientOpts.Logger = log.NewRestyLogger(logger)
	client := http.NewClient(clientOpts)

	extractor := album.NewExtractor(client, settings.ImageHost)
	links, err := extractor.Extract(ctx, albumURL)
	if err != nil {
		if errors.Is(err, album.ErrNoLinksFound) {
			return &noLinksError{host: extractor.Host()}
		}
		return err
	}

	writer := gallery.NewWriter(format)
	if settings.OutputPath == "" {
		if err := writer.Write(cmd.OutOrStdout(), links); err != nil {
			return fmt.Errorf("writing links: %w", err)
		}
	} else {
		if err := writer.WriteFile(settings.OutputPath, links); err != nil {
			return fmt.Errorf("writing %s: %w", settings.OutputPath, err)
		}
		logger.Info().
			Int("links", len(links)).
			Str("format", writer.Format().String()).
			Str("path", settings.OutputPath).
			Msg("Wrote gallery")
	}

	if opts.download == "" {
		return nil
	}
	return runDownload(ctx, cmd.ErrOrStderr(), settings, client, albumURL, links)
}

// runDownload mirrors the images and prints a summary table to w.
func runDownload(ctx context.Context, w io.Writer, settings *config.Settings, client *http.Client, albumURL string, links []string) error {
	logger := zerolog.Ctx(ctx)

	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		logProgress(logger, event)
	}).WithClient(client)

	err := manager.Download(ctx, albumURL, links)
	if ctx.Err() != nil {
		return fmt.Errorf("download cancelled: %w", ctx.Err())
	}

	renderSummary(w, manager.Results())
	return err
}

func logProgress(logger *zerolog.Logger, event download.ProgressEvent) {
	var e *zerolog.Event
	switch event.Level {
	case download.LevelError:
		e = logger.Error()
	case download.LevelWarning:
		e = logger.Warn()
	case download.LevelVerbose:
		e = logger.Debug()
	default:
		e = logger.Info()
	}
	e.Msg(event.Message)
}
