package lfslog

import (
	"sync/atomic"
	"testing"
)

// countingWriter counts writes from any goroutine
type countingWriter struct {
	n atomic.Int64
}

func (w *countingWriter) Write(b []byte) (int, error) {
	w.n.Add(1)
	return len(b), nil
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(4)

	if _, ok := rb.Get(); ok {
		t.Fatal("empty ring returned data")
	}

	// One slot stays free to tell full from empty
	for _, s := range []string{"a", "b", "c"} {
		if !rb.Put([]byte(s)) {
			t.Fatalf("Put(%q) failed", s)
		}
	}
	if rb.Put([]byte("d")) {
		t.Error("Put on full ring succeeded")
	}

	for _, want := range []string{"a", "b", "c"} {
		got, ok := rb.Get()
		if !ok || string(got) != want {
			t.Errorf("Get = %q, %v, want %q", got, ok, want)
		}
	}
	if _, ok := rb.Get(); ok {
		t.Error("drained ring returned data")
	}

	// Wraps around
	for i := 0; i < 10; i++ {
		rb.Put([]byte{byte(i)})
		if got, ok := rb.Get(); !ok || got[0] != byte(i) {
			t.Fatalf("round %d: Get = %v, %v", i, got, ok)
		}
	}
}

func TestRingBufferPanic(t *testing.T) {
	for _, size := range []int{0, 1, 3, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("size %d: expected panic", size)
				}
			}()
			NewRingBuffer(size)
		}()
	}
}

func TestAsyncWriter(t *testing.T) {
	w := &countingWriter{}
	aw := NewAsyncWriter(w, 8)

	l := NewLogger()
	l.SetWriter(aw)
	for i := 0; i < 1000; i++ {
		l.Log(LevelError, "queued", Int("i", int64(i)))
	}
	if err := aw.Close(); err != nil {
		t.Fatal(err)
	}

	// Full ring falls back to inline writes, so nothing is lost
	if got := w.n.Load(); got != 1000 {
		t.Errorf("wrote %d records, want 1000", got)
	}

	// Writes after Close go straight through
	l.Log(LevelError, "late")
	if got := w.n.Load(); got != 1001 {
		t.Errorf("wrote %d records after close, want 1001", got)
	}

	// Close is idempotent
	if err := aw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAsyncWriterPreservesRecords(t *testing.T) {
	w := &recordWriter{}
	aw := NewAsyncWriter(w, 1024)

	l := NewLogger()
	l.SetWriter(aw)
	l.Log(LevelWarn, "one")
	l.Log(LevelWarn, "two")
	aw.Close()

	if len(w.recs) != 2 {
		t.Fatalf("got %d records", len(w.recs))
	}
	for i, want := range []string{"one", "two"} {
		r, err := ParseRecord(w.recs[i])
		if err != nil || string(r.Msg) != want {
			t.Errorf("record %d = %q, %v", i, r.Msg, err)
		}
	}
}
