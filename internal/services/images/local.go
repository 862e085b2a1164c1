package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fridgechef/marcel/internal/metrics"
)

// LocalStore persists images to a directory on disk, served back through
// the /images static route. It enforces a retention cap by deleting the
// oldest files once the cap is exceeded.
type LocalStore struct {
	dir        string
	baseURL    string
	maxImages  int
	httpClient *http.Client
}

// NewLocalStore creates a local image store rooted at dir. baseURL prefixes
// returned image paths (empty for relative /images/... paths). maxImages is
// the retention cap; zero or less disables cleanup.
func NewLocalStore(dir, baseURL string, maxImages int) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		maxImages: maxImages,
	}, nil
}

func (s *LocalStore) Persist(ctx context.Context, sourceURL, recipeName string) (string, error) {
	filename := SanitizeName(recipeName)

	data, err := download(ctx, s.httpClient, sourceURL)
	if err != nil {
		return "", err
	}

	if err := s.writeAtomic(filename, data); err != nil {
		return "", err
	}
	metrics.AddCounter(ctx, metrics.ImagesStoredTotal, 1)

	// Cleanup failures must never fail the persist that triggered them.
	if err := s.cleanup(); err != nil {
		slog.Warn("Image retention cleanup failed", "error", err)
	}

	return s.baseURL + "/images/" + filename, nil
}

// writeAtomic publishes the image with a temp-file-then-rename so a
// concurrent reader never observes a partially written file.
func (s *LocalStore) writeAtomic(filename string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filename+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, filepath.Join(s.dir, filename))
}

// Path resolves a client-supplied filename to a file on disk. The filename
// must already have passed ValidFilename.
func (s *LocalStore) Path(filename string) (string, error) {
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// cleanup deletes the oldest stored images until at most maxImages remain.
func (s *LocalStore) cleanup() error {
	if s.maxImages <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	type storedImage struct {
		name    string
		modTime int64
	}
	var pngs []storedImage
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		pngs = append(pngs, storedImage{name: e.Name(), modTime: info.ModTime().UnixNano()})
	}

	if len(pngs) <= s.maxImages {
		return nil
	}

	sort.Slice(pngs, func(i, j int) bool {
		return pngs[i].modTime < pngs[j].modTime
	})

	for _, old := range pngs[:len(pngs)-s.maxImages] {
		if err := os.Remove(filepath.Join(s.dir, old.name)); err != nil {
			slog.Warn("Failed to delete old image", "file", old.name, "error", err)
		}
	}

	return nil
}
