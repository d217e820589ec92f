package lfslog

import (
	"io"
	"sync"
	"sync/atomic"
	"unsafe"
)

// RingBuffer is a lock-free single producer, multiple consumer ring buffer
// of records
type RingBuffer struct {
	_      [CacheLineSize]byte // Padding
	mask   uint64              // Size mask for fast modulo
	_      [56]byte            // Padding to cache line
	head   atomic.Uint64       // Producer position
	_      [56]byte            // Padding to cache line
	tail   atomic.Uint64       // Consumer position
	_      [56]byte            // Padding to cache line
	buffer []unsafe.Pointer    // Buffer of *entry
}

// NewRingBuffer creates a new ring buffer with the given size (must be power of 2)
func NewRingBuffer(size int) *RingBuffer {
	if size < 2 || size&(size-1) != 0 {
		panic("ring buffer size must be a power of 2")
	}

	return &RingBuffer{
		buffer: make([]unsafe.Pointer, size),
		mask:   uint64(size - 1),
	}
}

// entry is one record copied into the ring
type entry struct {
	data [recordCap]byte
	len  int
}

// Put adds data to the ring buffer (single producer)
func (rb *RingBuffer) Put(data []byte) bool {
	head := rb.head.Load()
	next := (head + 1) & rb.mask

	// Full?
	if next == rb.tail.Load() {
		return false
	}

	e := &entry{}
	e.len = copy(e.data[:], data)
	atomic.StorePointer(&rb.buffer[head], unsafe.Pointer(e))

	rb.head.Store(next)
	return true
}

// Get retrieves data from the ring buffer (multiple consumers)
func (rb *RingBuffer) Get() ([]byte, bool) {
	for {
		tail := rb.tail.Load()
		head := rb.head.Load()

		// Empty?
		if tail == head {
			return nil, false
		}

		// Try to claim this slot
		next := (tail + 1) & rb.mask
		if rb.tail.CompareAndSwap(tail, next) {
			e := (*entry)(atomic.SwapPointer(&rb.buffer[tail], nil))
			if e == nil {
				continue
			}
			return e.data[:e.len], true
		}
	}
}

// AsyncWriter moves record writes off the logging goroutine through a
// ring buffer. When the ring is full the write happens inline.
type AsyncWriter struct {
	rb     *RingBuffer
	out    io.Writer
	mu     sync.Mutex // serializes producers
	wake   chan struct{}
	done   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// NewAsyncWriter creates an async writer with a ring of bufferSize records
func NewAsyncWriter(out io.Writer, bufferSize int) *AsyncWriter {
	aw := &AsyncWriter{
		rb:     NewRingBuffer(bufferSize),
		out:    out,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}

	go aw.consumer()

	return aw
}

// consumer drains the ring until Close
func (aw *AsyncWriter) consumer() {
	defer close(aw.closed)
	for {
		for {
			data, ok := aw.rb.Get()
			if !ok {
				break
			}
			aw.out.Write(data)
		}

		select {
		case <-aw.wake:
		case <-aw.done:
			// Drain remaining entries
			for {
				data, ok := aw.rb.Get()
				if !ok {
					return
				}
				aw.out.Write(data)
			}
		}
	}
}

// Write queues one record. After Close records are written inline.
func (aw *AsyncWriter) Write(b []byte) (int, error) {
	select {
	case <-aw.done:
		return aw.out.Write(b)
	default:
	}

	aw.mu.Lock()
	queued := aw.rb.Put(b)
	aw.mu.Unlock()

	if !queued {
		// Buffer full - write directly (backpressure)
		return aw.out.Write(b)
	}

	select {
	case aw.wake <- struct{}{}:
	default:
	}
	return len(b), nil
}

// Close flushes queued records and stops the consumer
func (aw *AsyncWriter) Close() error {
	aw.once.Do(func() {
		close(aw.done)
	})
	<-aw.closed
	return nil
}
