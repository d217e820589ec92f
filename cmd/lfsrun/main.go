// Command lfsrun runs a WebAssembly build of the flash filesystem library
// with its trace, debug, warn and error hooks decoded into log output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/semihalev/lfslog"
	"github.com/semihalev/lfslog/wasmhost"
)

func main() {
	if err := loadDotenv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "lfsrun:", err)
		os.Exit(2)
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "lfsrun:", err)
		os.Exit(2)
	}

	code, err := run(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lfsrun:", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// closers runs cleanup functions in reverse order
type closers []func() error

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newSink builds the configured sink. The returned closers flush it.
func newSink(cfg *config) (lfslog.Sink, closers, error) {
	var cl closers

	if cfg.Format == formatBinary {
		mw, err := openMMap(cfg.File, cfg.MMapSize)
		if err != nil {
			return nil, nil, err
		}
		cl = append(cl, mw.Close)
		return newLogger(cfg, mw, &cl), cl, nil
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		cl = append(cl, lj.Close)
		out = lj
	}

	switch cfg.Format {
	case formatZap:
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(out),
			zapcore.DebugLevel,
		)
		l := zap.New(core)
		cl = append(cl, func() error {
			l.Sync()
			return nil
		})
		return lfslog.NewZapSink(l), cl, nil

	case formatZerolog:
		l := zerolog.New(out).Level(zerolog.TraceLevel).With().Timestamp().Logger()
		return lfslog.NewZerologSink(l), cl, nil

	case formatLogfmt:
		return newLogger(cfg, lfslog.NewLogfmtWriter(out), &cl), cl, nil
	}

	if cfg.File == "" {
		return newLogger(cfg, lfslog.StderrTerminal(), &cl), cl, nil
	}
	return newLogger(cfg, lfslog.NewTerminalWriter(out), &cl), cl, nil
}

// newLogger builds the built-in record logger over w
func newLogger(cfg *config, w io.Writer, cl *closers) *lfslog.Logger {
	if cfg.Async > 0 {
		aw := lfslog.NewAsyncWriter(w, cfg.Async)
		*cl = append(*cl, aw.Close)
		w = aw
	}
	l := lfslog.NewLogger()
	l.SetLevel(cfg.Level)
	l.SetWriter(w)
	return l
}

func run(ctx context.Context, cfg *config) (int, error) {
	wasm, err := os.ReadFile(cfg.Wasm)
	if err != nil {
		return 1, fmt.Errorf("read module: %w", err)
	}

	sink, cl, err := newSink(cfg)
	if err != nil {
		return 1, err
	}
	defer cl.close()

	var opts []lfslog.Option
	if cfg.Caller {
		opts = append(opts, lfslog.WithCaller(0))
	}
	d := lfslog.NewDecoder(sink, opts...)

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return 1, fmt.Errorf("instantiate wasi: %w", err)
	}
	if _, err := wasmhost.Instantiate(ctx, r, d, wasmhost.Config{ModuleName: cfg.Module, MinLevel: cfg.Level}); err != nil {
		return 1, err
	}

	modCfg := wazero.NewModuleConfig().
		WithArgs(append([]string{cfg.Wasm}, cfg.Args...)...).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithSysWalltime().
		WithSysNanotime()
	if cfg.Dir != "" {
		modCfg = modCfg.WithFSConfig(wazero.NewFSConfig().WithDirMount(cfg.Dir, "/"))
	}

	_, err = r.InstantiateWithConfig(ctx, wasm, modCfg)
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.ExitCode()), nil
	}
	if err != nil {
		return 1, fmt.Errorf("run %s: %w", cfg.Wasm, err)
	}
	return 0, nil
}
