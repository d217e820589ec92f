//go:build linux || darwin || freebsd || netbsd || openbsd

package lfslog

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// MMapWriter writes records into a memory-mapped file used as a circular
// buffer, so logging from a guest never waits on write syscalls.
type MMapWriter struct {
	file     *os.File
	data     []byte
	size     int64
	offset   int64
	pageSize int64
	mu       sync.Mutex
}

// NewMMapWriter creates a memory-mapped writer over a file of size bytes
func NewMMapWriter(path string, size int64) (*MMapWriter, error) {
	if size < recordCap {
		return nil, fmt.Errorf("mmap size %d is smaller than one record (%d)", size, recordCap)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open mmap file: %w", err)
	}

	if err := file.Truncate(size); err != nil {
		file.Close()
		return nil, fmt.Errorf("resize mmap file: %w", err)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &MMapWriter{
		file:     file,
		data:     data,
		size:     size,
		pageSize: int64(os.Getpagesize()),
	}, nil
}

// Write copies one record into the mapping, wrapping to the start when the
// end is reached.
func (w *MMapWriter) Write(b []byte) (int, error) {
	n := int64(len(b))
	if n == 0 {
		return 0, nil
	}
	if n > w.size {
		return 0, fmt.Errorf("record of %d bytes exceeds mmap size %d", n, w.size)
	}

	w.mu.Lock()
	start := w.offset
	if start+n > w.size {
		// Wrap around (circular buffer)
		start = 0
	}
	end := start + n
	w.offset = end
	copy(w.data[start:end], b)
	w.mu.Unlock()

	// Only sync if we cross a page boundary
	startPage := start / w.pageSize
	endPage := end / w.pageSize
	if startPage != endPage {
		w.syncPage(startPage * w.pageSize)
	}

	return len(b), nil
}

// syncPage schedules an asynchronous flush of one page
func (w *MMapWriter) syncPage(offset int64) {
	length := w.pageSize
	if offset+length > w.size {
		length = w.size - offset
	}
	unix.Msync(w.data[offset:offset+length], unix.MS_ASYNC)
}

// Close unmaps and closes the file
func (w *MMapWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := unix.Msync(w.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync: %w", err)
	}
	if err := unix.Munmap(w.data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return w.file.Close()
}
