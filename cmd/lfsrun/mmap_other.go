//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package main

import (
	"errors"
	"io"
)

func openMMap(string, int64) (io.WriteCloser, error) {
	return nil, errors.New("binary mmap output is not supported on this platform")
}
