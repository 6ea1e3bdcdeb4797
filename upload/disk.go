package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/formbuilder"
)

// DiskMover stores uploads on the local file system.
type DiskMover struct {
	// Root is prepended to relative destinations.
	Root string
	// DirPerm is used for directories created on the way (default 0775).
	DirPerm os.FileMode

	logger *slog.Logger
}

// NewDisk creates a mover rooted at root. A nil logger uses slog.Default.
func NewDisk(root string, logger *slog.Logger) *DiskMover {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiskMover{Root: root, DirPerm: 0o775, logger: logger}
}

// Move removes the files matching dest, then stores u at the resolved
// destination and returns its path.
func (m *DiskMover) Move(ctx context.Context, u *formbuilder.Upload, dest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if u == nil || u.Error != formbuilder.UploadOK {
		return "", fmt.Errorf("disk: %w", formbuilder.ErrNotFound)
	}
	if m.Root != "" && !filepath.IsAbs(dest) {
		dest = filepath.Join(m.Root, dest) + trailingSlash(dest)
	}

	if err := m.removeConflicts(dest); err != nil {
		return "", err
	}

	isDir := strings.HasSuffix(dest, "/")
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		isDir = true
	}
	target := filepath.FromSlash(destination(filepath.ToSlash(dest), u.Filename, isDir))

	perm := m.DirPerm
	if perm == 0 {
		perm = 0o775
	}
	if err := os.MkdirAll(filepath.Dir(target), perm); err != nil {
		return "", fmt.Errorf("disk: create directory: %w", err)
	}

	if err := m.store(u, target); err != nil {
		return "", err
	}
	m.logger.Info("upload stored", "file", u.Filename, "path", target, "size", u.Size)
	return target, nil
}

func (m *DiskMover) removeConflicts(dest string) error {
	matches, err := filepath.Glob(strings.TrimSuffix(dest, "/"))
	if err != nil {
		return fmt.Errorf("disk: %w", err)
	}
	for _, file := range matches {
		info, err := os.Stat(file)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("disk: remove %s: %w", file, err)
		}
		m.logger.Debug("upload conflict removed", "path", file)
	}
	return nil
}

// store renames the temporary file when there is one and falls back to
// copying the content.
func (m *DiskMover) store(u *formbuilder.Upload, target string) error {
	if u.TempPath != "" {
		if err := os.Rename(u.TempPath, target); err == nil {
			return nil
		}
	}

	src, err := u.Open()
	if err != nil {
		return fmt.Errorf("disk: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("disk: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return errors.Join(fmt.Errorf("disk: write %s: %w", target, err), dst.Close())
	}
	return dst.Close()
}

func trailingSlash(dest string) string {
	if strings.HasSuffix(dest, "/") {
		return "/"
	}
	return ""
}
