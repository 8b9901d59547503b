package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrCacheMiss means the cached file is missing after the fetch step reported success.
var ErrCacheMiss = eris.New("cache miss")

// Cache keeps downloaded sources in a flat directory, one file per URL, named by the last
// segment of the URL path. A file's existence is the only validity signal: there is no TTL
// and no checksum, so deleting the file is the way to force a refresh.
type Cache struct {
	dir     string
	fetcher Fetcher
	log     *zap.Logger
}

// NewCache creates a cache rooted at dir. An empty dir means the working directory.
func NewCache(dir string, f Fetcher, log *zap.Logger) *Cache {
	if dir == "" {
		dir = "."
	}
	if log == nil {
		log = zap.L()
	}
	return &Cache{dir: dir, fetcher: f, log: log.With(zap.String("component", "fetcher.cache"))}
}

// Path returns the local path the URL is cached under.
func (c *Cache) Path(rawURL string) (string, error) {
	name, err := FileNameFromURL(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, name), nil
}

// EnsureLocal returns the local path for rawURL, downloading it first if no file of that name
// exists yet. fetched reports whether network I/O happened. The download goes to a temporary
// file that is renamed into place on success, so an interrupted or failed download never
// leaves a file behind that a later run would accept as cached.
func (c *Cache) EnsureLocal(ctx context.Context, rawURL string) (path string, fetched bool, err error) {
	path, err = c.Path(rawURL)
	if err != nil {
		return "", false, err
	}
	log := c.log.With(zap.String("url", rawURL), zap.String("path", path))

	if _, statErr := os.Stat(path); statErr == nil {
		log.Info("file already exists")
		return path, false, nil
	} else if !os.IsNotExist(statErr) {
		return "", false, eris.Wrapf(statErr, "cache: stat %s", path)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", false, eris.Wrapf(err, "cache: create dir %s", c.dir)
	}

	tmp, err := os.CreateTemp(c.dir, filepath.Base(path)+".*.part")
	if err != nil {
		return "", false, eris.Wrap(err, "cache: create temp file")
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	n, err := c.fetcher.DownloadToFile(ctx, rawURL, tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		log.Error("failed to download file", zap.Error(err))
		return "", true, eris.Wrapf(err, "cache: fetch %s", rawURL)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", true, eris.Wrapf(err, "cache: move download into %s", path)
	}

	log.Info("file downloaded successfully", zap.Int64("bytes", n))
	return path, true, nil
}

// Open ensures rawURL is cached and opens the local copy. The fetch happens at most once;
// if the file is still absent afterwards Open fails with ErrCacheMiss instead of retrying.
func (c *Cache) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	path, _, err := c.EnsureLocal(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(ErrCacheMiss, "cache: %s", path)
		}
		return nil, eris.Wrapf(err, "cache: open %s", path)
	}
	return f, nil
}
