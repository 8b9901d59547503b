package fetcher

import (
	"context"
	"io"
	"os"
	"strings"
)

// writeTestFile is a helper that writes data to a file path.
func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// stubFetcher serves a fixed body (or error) and counts calls.
type stubFetcher struct {
	body  string
	err   error
	calls int
}

func (s *stubFetcher) Download(_ context.Context, _ string) (io.ReadCloser, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func (s *stubFetcher) DownloadToFile(_ context.Context, _ string, path string) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return writeFile(path, strings.NewReader(s.body))
}
