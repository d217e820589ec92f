package lfslog_test

import (
	"os"

	"github.com/semihalev/lfslog"
)

// printSink writes each message on its own line
type printSink struct{}

func (printSink) Emit(level lfslog.Level, msg []byte, fields []lfslog.Field) {
	os.Stdout.WriteString(level.String() + ": ")
	os.Stdout.Write(msg)
	for _, f := range fields {
		os.Stdout.WriteString(" " + f.Key + "=" + f.Value())
	}
	os.Stdout.WriteString("\n")
}

func ExampleDecoder_Logf() {
	d := lfslog.NewDecoder(printSink{})

	d.Logf(lfslog.LevelDebug, "lfs_file_open(%p, %s, %x)", uintptr(0x10), "boot.cfg", 0x103)
	d.Logf(lfslog.LevelError, "Corrupted dir pair at {0x%lx, 0x%lx}", uint64(0), uint64(1))
	d.Logf(lfslog.LevelWarn, "%d%% of blocks in use", 85)

	// Output:
	// debug: lfs_file_open(0x10, boot.cfg, 0x103)
	// error: Corrupted dir pair at {0x<unsupported %lx>, 0x<unsupported %lx>}
	// warn: 85% of blocks in use
}

func ExampleDecoder_Decode() {
	d := lfslog.NewDecoder(printSink{})

	// Templates from the hook macros end in a "%s" marker that is never rendered
	args := lfslog.NewValues("lfs.c", 4021, -28)
	d.Decode(lfslog.LevelError, []byte("%s:%d:error: No more free space %d%s"), args,
		lfslog.String("module", "firmware"))

	// Output:
	// error: lfs.c:4021:error: No more free space -28 module=firmware
}

func ExampleNewLogger() {
	logger := lfslog.NewLogger()
	logger.SetLevel(lfslog.LevelTrace)
	logger.SetWriter(lfslog.StdoutTerminal())

	d := lfslog.NewDecoder(logger)
	d.Logf(lfslog.LevelTrace, "lfs_mount(%p, %p)", uintptr(0x1000), uintptr(0x2000))
	d.Logf(lfslog.LevelWarn, "Superblock %x has newer minor disk version", 0x20001)
}

func ExampleSetDefault() {
	logger := lfslog.NewLogger()
	logger.SetWriter(lfslog.NewLogfmtWriter(os.Stderr))
	logger.SetLevel(lfslog.LevelWarn)

	lfslog.SetDefault(lfslog.NewDecoder(logger))

	lfslog.Debugf("not written")
	lfslog.Warnf("bad block at %u", 42)
}
