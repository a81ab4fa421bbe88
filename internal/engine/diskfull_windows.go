//go:build windows

package engine

import (
	"errors"

	"golang.org/x/sys/windows"
)

var errDiskFull error = windows.ERROR_DISK_FULL

func isDiskFull(err error) bool {
	return errors.Is(err, windows.ERROR_DISK_FULL) || errors.Is(err, windows.ERROR_HANDLE_DISK_FULL)
}
