package master

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"option-scanner/internal/errors"
	"option-scanner/pkg/utils"
)

// Some asset CDNs reject requests without a browser user agent.
const downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Downloader fetches the gzip-compressed instrument master and replaces
// the local file on success.
type Downloader struct {
	url    string
	client *http.Client
}

// NewDownloader creates a Downloader for the given master URL.
func NewDownloader(url string) *Downloader {
	return &Downloader{
		url:    url,
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Download fetches, decompresses and atomically replaces the master file
// at destPath. The previous file is kept untouched on any failure.
func (d *Downloader) Download(ctx context.Context, destPath string) error {
	return utils.Retry(ctx, utils.DefaultRetryConfig(), func() error {
		return d.downloadOnce(ctx, destPath)
	})
}

func (d *Downloader) downloadOnce(ctx context.Context, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return errors.Wrap(err, "building download request")
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "downloading instrument master")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading instrument master: unexpected status %d", resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return errors.Wrap(err, "opening gzip stream")
	}
	defer gz.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	// Write to a temp file first so a truncated download never clobbers
	// a working master.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), "master-*.json")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, gz); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "decompressing instrument master")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "replacing instrument master")
	}

	return nil
}
