package errutil

import "fmt"

// FilesystemAccessError is returned when the volume backing the cache cannot
// be queried or the cache root cannot be listed. It aborts the run.
type FilesystemAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemAccessError) Unwrap() error { return e.Err }

// EntryReadError describes an entry whose metadata could not be read during
// a scan. The entry is skipped.
type EntryReadError struct {
	Path string
	Err  error
}

func (e *EntryReadError) Error() string {
	return fmt.Sprintf("read entry %s: %v", e.Path, e.Err)
}

func (e *EntryReadError) Unwrap() error { return e.Err }

// DeletionError describes a victim that could not be removed.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
