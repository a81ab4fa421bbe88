//go:build !windows

package engine

import (
	"errors"

	"golang.org/x/sys/unix"
)

var errDiskFull error = unix.ENOSPC

func isDiskFull(err error) bool {
	return errors.Is(err, unix.ENOSPC)
}
