package fetcher

import (
	"archive/zip"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// OpenZIPEntry opens the one file in the archive at zipPath whose extension is ext (any file
// when ext is empty). Directories and __MACOSX metadata are ignored. Closing the returned
// reader also closes the archive.
func OpenZIPEntry(zipPath, ext string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	var files []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if ext != "" && !strings.EqualFold(path.Ext(f.Name), ext) {
			continue
		}
		files = append(files, f)
	}

	if len(files) != 1 {
		_ = r.Close()
		return nil, eris.Errorf("zip: expected exactly 1 %q file in %s, got %d", ext, zipPath, len(files))
	}

	rc, err := files[0].Open()
	if err != nil {
		_ = r.Close()
		return nil, eris.Wrapf(err, "zip: open entry %s", files[0].Name)
	}
	return &zipEntry{ReadCloser: rc, archive: r}, nil
}

// IsZIP reports whether name looks like a ZIP archive.
func IsZIP(name string) bool {
	return strings.EqualFold(path.Ext(name), ".zip")
}

type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
