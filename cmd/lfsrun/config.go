package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/semihalev/lfslog"
)

// Output formats
const (
	formatTerminal = "terminal"
	formatLogfmt   = "logfmt"
	formatZap      = "zap"
	formatZerolog  = "zerolog"
	formatBinary   = "binary"
)

type config struct {
	Level      lfslog.Level
	Format     string
	File       string // log file; stderr when empty
	MaxSizeMB  int    // rotation size for text formats
	MaxBackups int
	MMapSize   int64 // size of the binary mmap ring
	Async      int   // ring size in records; 0 writes inline
	Module     string
	Dir        string // host directory mounted at / in the guest
	Caller     bool

	Wasm string
	Args []string
}

// loadDotenv seeds the environment from path. A missing file is fine.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// parseConfig reads flags, falling back to LFSLOG_* environment variables
func parseConfig(args []string, getenv func(string) string, usageOut io.Writer) (*config, error) {
	async, err := envInt(getenv, "LFSLOG_ASYNC", 0)
	if err != nil {
		return nil, err
	}

	cfg := &config{}
	var level string

	fset := flag.NewFlagSet("lfsrun", flag.ContinueOnError)
	fset.SetOutput(usageOut)
	fset.StringVar(&level, "level", envOr(getenv, "LFSLOG_LEVEL", "debug"), "minimum hook level: trace, debug, warn, error")
	fset.StringVar(&cfg.Format, "format", envOr(getenv, "LFSLOG_FORMAT", formatTerminal), "output format: terminal, logfmt, zap, zerolog, binary")
	fset.StringVar(&cfg.File, "file", getenv("LFSLOG_FILE"), "log file (rotated; required for binary)")
	fset.IntVar(&cfg.MaxSizeMB, "max-size", 100, "rotate text logs after this many megabytes")
	fset.IntVar(&cfg.MaxBackups, "max-backups", 3, "rotated text logs to keep")
	fset.Int64Var(&cfg.MMapSize, "mmap-size", 16<<20, "size in bytes of the binary log ring")
	fset.IntVar(&cfg.Async, "async", async, "async ring size in records (power of 2, 0 disables)")
	fset.StringVar(&cfg.Module, "module", "env", "import module name of the log hooks")
	fset.StringVar(&cfg.Dir, "dir", "", "host directory mounted at / in the guest")
	fset.BoolVar(&cfg.Caller, "caller", false, "annotate records with the Go call site")
	fset.Usage = func() {
		fmt.Fprintln(usageOut, "usage: lfsrun [flags] module.wasm [args...]")
		fset.PrintDefaults()
	}

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() < 1 {
		fset.Usage()
		return nil, errors.New("missing wasm module")
	}
	cfg.Wasm = fset.Arg(0)
	cfg.Args = fset.Args()[1:]

	if cfg.Level, err = lfslog.ParseLevel(level); err != nil {
		return nil, err
	}

	switch cfg.Format {
	case formatTerminal, formatLogfmt, formatZap, formatZerolog:
	case formatBinary:
		if cfg.File == "" {
			return nil, errors.New("binary format needs -file")
		}
	default:
		return nil, fmt.Errorf("unknown format %q", cfg.Format)
	}

	if cfg.Async < 0 || cfg.Async == 1 || cfg.Async&(cfg.Async-1) != 0 {
		return nil, fmt.Errorf("async ring size %d is not a power of 2", cfg.Async)
	}

	return cfg, nil
}
