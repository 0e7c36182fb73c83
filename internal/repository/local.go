package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasew/decimate/internal/errutil"
	"github.com/lucasew/decimate/internal/eviction"
	"github.com/lucasew/decimate/internal/logging"
	"github.com/spf13/afero"
)

var errNotDir = errors.New("not a directory")

// LocalRepository exposes a cache directory on a filesystem as an eviction.Store.
//
// Entries are inspected with Lstat, so symbolic links are reported as links
// and never followed: nothing outside Root is scanned or removed.
type LocalRepository struct {
	Root string
	fs   afero.Fs
}

// NewLocalRepository returns a repository rooted at root.
//
// A nil fs means the operating system filesystem. The root is made absolute,
// and when it is itself a symbolic link it is resolved once here so that the
// tree it points to is the one managed.
func NewLocalRepository(root string, fs afero.Fs) (*LocalRepository, error) {
	if root == "" {
		return nil, fmt.Errorf("cache root is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache root %s: %w", root, err)
	}

	if fs == nil {
		fs = afero.NewOsFs()
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
	}

	return &LocalRepository{Root: abs, fs: fs}, nil
}

// Walk visits every regular file below Root, depth first in lexical order.
//
// Failing to inspect or list Root is returned as a
// *errutil.FilesystemAccessError. Any other unreadable entry is logged and
// skipped.
func (r *LocalRepository) Walk(ctx context.Context, fn func(eviction.FileRecord) error) error {
	log := logging.FromContext(ctx)

	return afero.Walk(r.fs, r.Root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path == r.Root {
			if err != nil {
				return &errutil.FilesystemAccessError{Op: "walk", Path: path, Err: err}
			}
			if !info.IsDir() {
				return &errutil.FilesystemAccessError{Op: "walk", Path: path, Err: errNotDir}
			}
			return nil
		}

		if err != nil {
			errutil.LogMsg(ctx, &errutil.EntryReadError{Path: path, Err: err}, "Skipping unreadable entry", "path", path)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case info.IsDir():
			return nil
		case !info.Mode().IsRegular():
			log.Debug("Skipping non-regular entry", "path", path, "type", info.Mode().Type().String())
			return nil
		}

		return fn(eviction.FileRecord{
			Path:       path,
			AccessTime: accessTime(info),
		})
	})
}

// Delete removes a single file. Paths outside Root are refused.
func (r *LocalRepository) Delete(ctx context.Context, path string) error {
	if !r.contains(path) {
		return fmt.Errorf("refusing to remove %s: outside cache root %s", path, r.Root)
	}
	return r.fs.Remove(path)
}

func (r *LocalRepository) contains(path string) bool {
	rel, err := filepath.Rel(r.Root, path)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
