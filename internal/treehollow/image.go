package treehollow

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sylva/internal/fileutil"
	"sylva/internal/textutil"
)

// FetchImage downloads src relative to the image root.
func (c *Client) FetchImage(ctx context.Context, src string) (*Response, error) {
	return c.do(ctx, request{
		operation: "download_image",
		method:    http.MethodGet,
		url:       c.imageRoot + "/" + strings.TrimLeft(strings.TrimSpace(src), "/"),
		gated:     true,
	})
}

// DownloadImage fetches src and, on success, writes it to dir under the last
// segment of src. The returned path is empty when the status was not a
// success; the caller classifies the response.
func (c *Client) DownloadImage(ctx context.Context, src, dir string) (*Response, string, error) {
	resp, err := c.FetchImage(ctx, src)
	if err != nil {
		return nil, "", err
	}
	if !resp.Success() {
		return resp, "", nil
	}
	path, err := SaveImage(dir, src, resp.Body)
	if err != nil {
		return resp, "", err
	}
	return resp, path, nil
}

// SaveImage writes data to dir/<basename of src>, creating dir as needed.
func SaveImage(dir, src string, data []byte) (string, error) {
	name := textutil.BaseName(src)
	if name == "" {
		return "", fmt.Errorf("image source %q has no usable file name", src)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	target := filepath.Join(dir, name)
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return target, nil
}
