package fetcher

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulti_RoutesByScheme(t *testing.T) {
	httpStub := &stubFetcher{body: "http"}
	ftpStub := &stubFetcher{body: "ftp"}
	m := &Multi{HTTP: httpStub, FTP: ftpStub}

	rc, err := m.Download(context.Background(), "https://example.com/a.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "http", string(data))

	n, err := m.DownloadToFile(context.Background(), "ftp://mirror.example.com/a.csv", filepath.Join(t.TempDir(), "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.Equal(t, 1, httpStub.calls)
	assert.Equal(t, 1, ftpStub.calls)
}

func TestMulti_UnsupportedScheme(t *testing.T) {
	m := &Multi{HTTP: &stubFetcher{}}

	_, err := m.Download(context.Background(), "s3://bucket/a.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")

	_, err = m.Download(context.Background(), "ftp://mirror.example.com/a.csv")
	require.Error(t, err, "no FTP fetcher configured")
}
