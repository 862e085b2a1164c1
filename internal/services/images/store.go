package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fridgechef/marcel/internal/httpclient"
	"github.com/fridgechef/marcel/internal/utils"
)

// Store persists a generated image fetched from a source URL and returns a
// URL a client can use to retrieve it.
type Store interface {
	Persist(ctx context.Context, sourceURL, recipeName string) (string, error)
}

// SanitizeName derives a storage-safe key from a recipe name: lower-case,
// spaces become underscores, everything that is not alphanumeric or
// underscore is stripped, and a .png suffix is appended. The function is
// idempotent so already-sanitized names survive a second pass.
func SanitizeName(recipeName string) string {
	name := strings.ToLower(recipeName)
	name = strings.TrimSuffix(name, ".png")
	name = strings.ReplaceAll(name, " ", "_")

	var sb strings.Builder
	for _, c := range name {
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			sb.WriteRune(c)
		}
	}
	return sb.String() + ".png"
}

// ValidFilename reports whether a client-supplied image filename is safe to
// look up: only alphanumerics, underscores and dots, ending in .png.
func ValidFilename(filename string) bool {
	if !strings.HasSuffix(filename, ".png") {
		return false
	}
	for _, c := range filename {
		if c == '_' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

// download fetches image bytes from the model's source URL, retrying
// transient failures. A non-success status is an error.
func download(ctx context.Context, client *http.Client, sourceURL string) ([]byte, error) {
	if client == nil {
		client = httpclient.InstrumentedClient
	}

	return utils.WithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "ImageCDN"), "GET", sourceURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("image download failed with status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	}, utils.DownloadRetryConfig())
}
