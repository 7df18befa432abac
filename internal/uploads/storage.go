package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

var (
	ErrInvalidFileName = errors.New("invalid file name")
	fileNameRegex      = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.(jpg|png)$`)
)

type DiskStorage struct {
	rootPath string
}

func NewDiskStorage(rootPath string) (*DiskStorage, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStorage{
		rootPath: rootPath,
	}, nil
}

// Path returns the on-disk path of a stored file name.
func (ds *DiskStorage) Path(name string) (string, error) {
	if !fileNameRegex.MatchString(name) {
		return "", ErrInvalidFileName
	}
	return filepath.Join(ds.rootPath, name), nil
}

// Save writes the file via a temp file and rename, so readers never see partial content.
func (ds *DiskStorage) Save(ctx context.Context, name string, data []byte) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStorage.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("file.name", name))
	span.SetAttributes(attribute.Int("file.size", len(data)))

	dst, err := ds.Path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(ds.rootPath, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	log.Debugf("disk storage: saved %s (%d bytes)", name, len(data))
	return nil
}

// Delete removes the file; a missing file is not an error.
func (ds *DiskStorage) Delete(ctx context.Context, name string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStorage.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	path, err := ds.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// List returns the names of all stored files.
func (ds *DiskStorage) List() ([]string, error) {
	entries, err := os.ReadDir(ds.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && fileNameRegex.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
