// Package download mirrors the images of an album to a local folder.
//
// # Manager
//
// The Manager coordinates the whole process:
//
//  1. Compute a local path for each direct image link
//  2. Skip files already on disk with the expected size
//  3. Download the rest concurrently, retrying failures
//  4. Write JPEG thumbnails (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Download(ctx, "https://ibb.co/album/Jw0Rgd", links)
//	for _, r := range manager.Results() {
//	    fmt.Println(r.Path, r.Bytes, r.Err)
//	}
//
// # Concurrency
//
// At most settings.MaxConcurrentDownloads images are fetched at once.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback may be invoked from several goroutines at once.
//
// # Retry Logic
//
// Failed downloads are retried with exponential backoff, configurable via
// settings.DownloadMaxRetries, settings.DownloadRetryCooldown and
// settings.DownloadRetryExponent. Client errors such as 404 are not retried.
package download
