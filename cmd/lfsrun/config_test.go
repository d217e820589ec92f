package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/semihalev/lfslog"
)

func env(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]string{"fs.wasm", "-x", "mount"}, env(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != lfslog.LevelDebug || cfg.Format != formatTerminal || cfg.Module != "env" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Wasm != "fs.wasm" || strings.Join(cfg.Args, " ") != "-x mount" {
		t.Errorf("wasm = %q args = %q", cfg.Wasm, cfg.Args)
	}
	if cfg.Async != 0 || cfg.Caller {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigFlags(t *testing.T) {
	args := []string{"-level", "trace", "-format", "logfmt", "-file", "out.log", "-async", "64", "-caller", "-dir", "/tmp", "fs.wasm"}
	cfg, err := parseConfig(args, env(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != lfslog.LevelTrace || cfg.Format != formatLogfmt || cfg.File != "out.log" ||
		cfg.Async != 64 || !cfg.Caller || cfg.Dir != "/tmp" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigEnv(t *testing.T) {
	getenv := env(map[string]string{
		"LFSLOG_LEVEL":  "warn",
		"LFSLOG_FORMAT": "zerolog",
		"LFSLOG_FILE":   "lfs.log",
		"LFSLOG_ASYNC":  "16",
	})

	cfg, err := parseConfig([]string{"fs.wasm"}, getenv, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != lfslog.LevelWarn || cfg.Format != formatZerolog || cfg.File != "lfs.log" || cfg.Async != 16 {
		t.Errorf("cfg = %+v", cfg)
	}

	// Flags win over the environment
	cfg, err = parseConfig([]string{"-level", "error", "fs.wasm"}, getenv, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != lfslog.LevelError {
		t.Errorf("level = %v", cfg.Level)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"MissingModule", nil, nil, "missing wasm module"},
		{"BadLevel", []string{"-level", "info", "fs.wasm"}, nil, "unknown log level"},
		{"BadFormat", []string{"-format", "xml", "fs.wasm"}, nil, "unknown format"},
		{"BinaryNeedsFile", []string{"-format", "binary", "fs.wasm"}, nil, "needs -file"},
		{"AsyncNotPowerOfTwo", []string{"-async", "3", "fs.wasm"}, nil, "power of 2"},
		{"AsyncOne", []string{"-async", "1", "fs.wasm"}, nil, "power of 2"},
		{"BadAsyncEnv", []string{"fs.wasm"}, map[string]string{"LFSLOG_ASYNC": "many"}, "LFSLOG_ASYNC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args, env(tt.env), io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	var out strings.Builder
	_, err := parseConfig([]string{"-h"}, env(nil), &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out.String(), "usage: lfsrun") {
		t.Errorf("usage = %q", out.String())
	}
}

func TestLoadDotenv(t *testing.T) {
	if err := loadDotenv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LFSLOG_TEST_FORMAT=logfmt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("LFSLOG_TEST_FORMAT") })

	if err := loadDotenv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("LFSLOG_TEST_FORMAT"); got != "logfmt" {
		t.Errorf("env = %q", got)
	}
}

func TestNewSink(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		format string
		check  func(lfslog.Sink) bool
	}{
		{formatTerminal, func(s lfslog.Sink) bool { _, ok := s.(*lfslog.Logger); return ok }},
		{formatLogfmt, func(s lfslog.Sink) bool { _, ok := s.(*lfslog.Logger); return ok }},
		{formatZap, func(s lfslog.Sink) bool { _, ok := s.(*lfslog.ZapSink); return ok }},
		{formatZerolog, func(s lfslog.Sink) bool { _, ok := s.(*lfslog.ZerologSink); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			file := filepath.Join(dir, tt.format+".log")
			cfg := &config{Level: lfslog.LevelTrace, Format: tt.format, File: file, MaxSizeMB: 1, Async: 4}
			sink, cl, err := newSink(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(sink) {
				t.Errorf("sink = %T", sink)
			}

			lfslog.NewDecoder(sink).Logf(lfslog.LevelError, "bad block %u", 9)
			if err := cl.close(); err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), "bad block 9") {
				t.Errorf("log file = %q", data)
			}
		})
	}
}

func TestClosersOrder(t *testing.T) {
	var order []int
	cl := closers{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("two") },
		func() error { order = append(order, 3); return errors.New("three") },
	}

	err := cl.close()
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("order = %v", order)
	}
	if err == nil || !strings.Contains(err.Error(), "two") || !strings.Contains(err.Error(), "three") {
		t.Errorf("err = %v", err)
	}
}
