package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

// FileSink writes each artifact to <Dir>/<Name>. Files are written to a
// temporary name first and renamed into place.
type FileSink struct{}

func NewFileSink() *FileSink {
	return &FileSink{}
}

func (*FileSink) Name() string {
	return "file"
}

func (*FileSink) Write(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return apperrors.IOf(err, "creating output directory %s", a.Dir)
	}
	finalPath := filepath.Join(a.Dir, a.Name)
	tmpPath := finalPath + ".tmp"
	if err := writeFile(tmpPath, a.Content); err != nil {
		os.Remove(tmpPath)
		return apperrors.IOf(err, "writing %s", tmpPath)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return apperrors.IOf(err, "renaming %s", finalPath)
	}
	return nil
}

func (*FileSink) Close() error {
	return nil
}

func writeFile(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("writing content: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing: %w", err)
	}
	return f.Close()
}
