package lfslog

import (
	"testing"
)

var benchTemplate = []byte("%s:%d:trace: lfs_file_read(%p, %p, %lu)%s")

func benchFrame() *frame {
	f := newFrame()
	f.str("lfs.c").i32(3456).i32(0x100).i32(0x200).u64(512).str("")
	return f
}

func BenchmarkClassify(b *testing.B) {
	var p Plan
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Classify(benchTemplate, &p)
	}
}

func BenchmarkDecode(b *testing.B) {
	f := benchFrame()
	d := NewDecoder(SinkFunc(func(Level, []byte, []Field) {}))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Decode(LevelTrace, benchTemplate, f.args())
	}
}

func BenchmarkDecodeParallel(b *testing.B) {
	f := benchFrame()
	d := NewDecoder(SinkFunc(func(Level, []byte, []Field) {}))

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			d.Decode(LevelTrace, benchTemplate, NewVaList(f.mem, f.va))
		}
	})
}

func BenchmarkDecodeToLogger(b *testing.B) {
	f := benchFrame()
	l := NewLogger()
	l.SetLevel(LevelTrace)
	l.SetWriter(DiscardWriter)
	d := NewDecoder(l)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Decode(LevelTrace, benchTemplate, f.args(), String("module", "lfs"))
	}
}

func BenchmarkDecodeDisabled(b *testing.B) {
	f := benchFrame()
	l := NewLogger()
	l.SetLevel(LevelError)
	l.SetWriter(DiscardWriter)
	d := NewDecoder(l)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Decode(LevelTrace, benchTemplate, f.args())
	}
}

func BenchmarkLogf(b *testing.B) {
	d := NewDecoder(SinkFunc(func(Level, []byte, []Field) {}))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Logf(LevelDebug, "block %u off %u", 12, 512)
	}
}

func BenchmarkTerminalWriter(b *testing.B) {
	tw := NewTerminalWriter(DiscardWriter)
	l := NewLogger()
	l.SetWriter(tw)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Log(LevelWarn, "benchmark message", Uint("block", 7), String("module", "lfs"))
	}
}

func BenchmarkLogfmtWriter(b *testing.B) {
	l := NewLogger()
	l.SetWriter(NewLogfmtWriter(DiscardWriter))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Log(LevelWarn, "benchmark message", Uint("block", 7), String("module", "lfs"))
	}
}
