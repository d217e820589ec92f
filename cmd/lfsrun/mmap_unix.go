//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"io"

	"github.com/semihalev/lfslog"
)

func openMMap(path string, size int64) (io.WriteCloser, error) {
	mw, err := lfslog.NewMMapWriter(path, size)
	if err != nil {
		return nil, err
	}
	return mw, nil
}
