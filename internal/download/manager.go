package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/handiism/ibb-album/internal/album"
	"github.com/handiism/ibb-album/internal/config"
	ibbhttp "github.com/handiism/ibb-album/internal/http"
	ioutils "github.com/handiism/ibb-album/internal/io"
	"github.com/handiism/ibb-album/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrDownloadsFailed is returned by Download when at least one image could
// not be saved. The other images are still downloaded.
var ErrDownloadsFailed = errors.New("some images failed to download")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result is the outcome of one image download.
type Result struct {
	// URL is the direct image link.
	URL string

	// Path is the local file path.
	Path string

	// Bytes is the size of the local file.
	Bytes int64

	// Skipped is true when an existing file was kept.
	Skipped bool

	// Err is the last error, nil on success.
	Err error
}

// Manager mirrors album images to disk.
type Manager struct {
	settings     *config.Settings
	httpClient   *ibbhttp.Client
	imageService *ioutils.ImageService

	images  []*model.Image
	results []Result

	totalBytes      int64
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:     settings,
		httpClient:   ibbhttp.NewClient(settings.ToClientOptions()),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// WithClient replaces the HTTP client, e.g. to share one that logs.
func (m *Manager) WithClient(client *ibbhttp.Client) *Manager {
	m.httpClient = client
	return m
}

// Download saves every image in urls into the album folder derived from
// albumURL.
//
// Images are fetched concurrently, up to max_concurrent_downloads at a time.
// A failed image does not stop the others; Download then returns
// ErrDownloadsFailed and the per-image errors are available from Results.
func (m *Manager) Download(ctx context.Context, albumURL string, urls []string) error {
	pathCfg := m.settings.ToPathConfig()
	albumID := album.AlbumID(albumURL)

	m.images = make([]*model.Image, len(urls))
	for i, u := range urls {
		m.images[i] = model.NewImage(u, i+1, albumID, pathCfg)
	}
	m.results = make([]Result, len(urls))
	atomic.StoreInt32(&m.totalFiles, int32(len(urls)))
	atomic.StoreInt32(&m.downloadedFiles, 0)
	atomic.StoreInt64(&m.totalBytes, 0)
	atomic.StoreInt64(&m.receivedBytes, 0)

	if len(m.images) == 0 {
		return nil
	}

	folder := m.images[0].Folder
	if err := ioutils.EnsureDir(folder); err != nil {
		return fmt.Errorf("create album folder: %w", err)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saving %d images to %s", len(urls), folder), Level: LevelInfo})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.settings.MaxConcurrentDownloads, 1))

	for i, img := range m.images {
		g.Go(func() error {
			res := m.downloadImage(gctx, img)
			m.results[i] = res
			if res.Err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", img.URL, res.Err), Level: LevelError})
			}
			return nil // Continue with other images
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for _, r := range m.results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s, %d of %d images failed", albumID, failed, len(urls)), Level: LevelWarning})
		return fmt.Errorf("%w: %d of %d", ErrDownloadsFailed, failed, len(urls))
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded album: %s", albumID), Level: LevelSuccess})
	return nil
}

// Results returns one Result per image, in gallery order.
// It is only complete after Download returns.
func (m *Manager) Results() []Result {
	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}

// GetProgress returns current download progress.
//
// total grows as downloads start and report their Content-Length.
func (m *Manager) GetProgress() (received, total int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) downloadImage(ctx context.Context, img *model.Image) Result {
	res := Result{URL: img.URL, Path: img.Path}

	// Check if file already exists with acceptable size
	if size, ok := m.existingFileOK(ctx, img); ok {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(img.Path)), Level: LevelVerbose})
		atomic.AddInt32(&m.downloadedFiles, 1)
		atomic.AddInt64(&m.totalBytes, size)
		atomic.AddInt64(&m.receivedBytes, size)
		res.Bytes = size
		res.Skipped = true
		m.saveThumbnail(ctx, img)
		return res
	}

	retries := max(m.settings.DownloadMaxRetries, 1)
	var n int64
	var err error
	for tries := 0; tries < retries; tries++ {
		n, err = m.downloadOnce(ctx, img)
		if err == nil || ctx.Err() != nil || !retryable(err) {
			break
		}
		if tries+1 < retries {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, retries-1, filepath.Base(img.Path)), Level: LevelWarning})
			m.waitForRetry(ctx, tries)
		}
	}
	if err != nil {
		res.Err = err
		return res
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	res.Bytes = n
	m.saveThumbnail(ctx, img)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(img.Path)), Level: LevelVerbose})
	return res
}

// downloadOnce makes one attempt and keeps the byte counters in step,
// rolling back what a failed attempt had added.
func (m *Manager) downloadOnce(ctx context.Context, img *model.Image) (int64, error) {
	var written, total int64
	n, err := m.httpClient.DownloadFile(ctx, img.URL, img.Path, func(w, t int64) {
		if total == 0 && t > 0 {
			total = t
			atomic.AddInt64(&m.totalBytes, t)
		}
		atomic.AddInt64(&m.receivedBytes, w-written)
		written = w
	})
	if err != nil {
		atomic.AddInt64(&m.receivedBytes, -written)
		atomic.AddInt64(&m.totalBytes, -total)
		return 0, err
	}
	if total == 0 {
		atomic.AddInt64(&m.totalBytes, n)
	}
	return n, nil
}

// existingFileOK reports whether img.Path already holds the remote file,
// allowing allowed_file_size_difference of relative size drift.
func (m *Manager) existingFileOK(ctx context.Context, img *model.Image) (int64, bool) {
	info, err := os.Stat(img.Path)
	if err != nil || info.IsDir() {
		return 0, false
	}

	expectedSize, err := m.httpClient.GetFileSize(ctx, img.URL)
	if err != nil || expectedSize <= 0 {
		return 0, false
	}

	sizeDiff := float64(info.Size()-expectedSize) / float64(expectedSize)
	if math.Abs(sizeDiff) > m.settings.AllowedFileSizeDifference {
		return 0, false
	}
	return info.Size(), true
}

// saveThumbnail writes a downscaled JPEG copy of the image, or a full-size
// JPEG copy when thumbnail_max_size is not positive.
// Failures are reported as warnings and never fail the image.
func (m *Manager) saveThumbnail(ctx context.Context, img *model.Image) {
	if !img.HasThumbnail() {
		return
	}
	if _, err := os.Stat(img.ThumbnailPath); err == nil {
		return
	}

	data, err := os.ReadFile(img.Path)
	if err == nil {
		if size := m.settings.ThumbnailMaxSize; size > 0 {
			data, err = m.imageService.ResizeImage(ctx, data, size, size)
		} else {
			data, err = m.imageService.ConvertToJPEG(ctx, data)
		}
	}
	if err == nil {
		err = ioutils.WriteFileAtomic(img.ThumbnailPath, data)
	}
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating thumbnail for %s: %v", filepath.Base(img.Path), err), Level: LevelWarning})
		return
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Created thumbnail: %s", filepath.Base(img.ThumbnailPath)), Level: LevelVerbose})
}

// retryable reports whether a failed download is worth another attempt.
// Client errors other than 408 and 429 are final.
func retryable(err error) bool {
	var fetchErr *ibbhttp.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode == 0 {
		return true
	}
	switch fetchErr.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return fetchErr.StatusCode < 400 || fetchErr.StatusCode >= 500
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
