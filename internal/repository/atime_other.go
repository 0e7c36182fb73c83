//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package repository

import (
	"os"
	"time"
)

// Platforms without a known stat layout fall back to the modification time.
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
