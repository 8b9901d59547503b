// Package fetcher downloads remote sources over HTTP or FTP and keeps a flat on-disk cache of them.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrDownloadFailed is matched (errors.Is) by every download that ended without a usable body.
var ErrDownloadFailed = eris.New("download failed")

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// DownloadError describes a failed download. StatusCode is 0 for transport-level failures.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("download %s: failed", e.URL)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Is reports ErrDownloadFailed as a match so callers don't need errors.As for the common case.
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownloadFailed
}

// FileNameFromURL returns the last segment of the URL path. Query and fragment are ignored.
// A path ending in "/" or a last segment of "." or ".." has no usable file name.
func FileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse url %q", rawURL)
	}
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return "", eris.Errorf("fetcher: url %q has no file name", rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == ".." || name == "/" {
		return "", eris.Errorf("fetcher: url %q has no file name", rawURL)
	}
	return name, nil
}
