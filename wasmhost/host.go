// Package wasmhost binds the lfslog decoder to a WebAssembly build of the C
// library running in wazero. The guest imports
//
//	void log_trace(const char *fmt, ...);
//	void log_debug(const char *fmt, ...);
//	void log_warn(const char *fmt, ...);
//	void log_error(const char *fmt, ...);
//
// which the wasm32 C ABI lowers to (i32 fmt, i32 va) with va pointing at
// the guest's vararg buffer.
package wasmhost

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/semihalev/lfslog"
)

// DefaultModuleName is the import module clang uses for undefined symbols
const DefaultModuleName = "env"

// Config configures the host module
type Config struct {
	// ModuleName is the import module the guest expects the hooks in
	ModuleName string
	// MinLevel drops hooks below it before any decoding
	MinLevel lfslog.Level
}

// Hooks lists the exported hook names by level
var Hooks = [...]struct {
	Name  string
	Level lfslog.Level
}{
	{"log_trace", lfslog.LevelTrace},
	{"log_debug", lfslog.LevelDebug},
	{"log_warn", lfslog.LevelWarn},
	{"log_error", lfslog.LevelError},
}

var hookParams = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}

// NewHostModuleBuilder returns a builder exporting the four hooks, so
// callers can add further host functions before instantiating.
func NewHostModuleBuilder(r wazero.Runtime, d *lfslog.Decoder, cfg Config) wazero.HostModuleBuilder {
	name := cfg.ModuleName
	if name == "" {
		name = DefaultModuleName
	}

	b := r.NewHostModuleBuilder(name)
	for _, h := range Hooks {
		b.NewFunctionBuilder().
			WithGoModuleFunction(Hook(d, h.Level, cfg.MinLevel), hookParams, nil).
			WithParameterNames("fmt", "va").
			Export(h.Name)
	}
	return b
}

// Instantiate instantiates the hook module in r
func Instantiate(ctx context.Context, r wazero.Runtime, d *lfslog.Decoder, cfg Config) (api.Module, error) {
	mod, err := NewHostModuleBuilder(r, d, cfg).Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate log hooks: %w", err)
	}
	return mod, nil
}

// Hook returns the host function for one level. The template and vararg
// buffer are read in place from the calling module's memory.
func Hook(d *lfslog.Decoder, level, minLevel lfslog.Level) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		if level < minLevel {
			return
		}
		mem := mod.Memory()
		if mem == nil {
			return
		}

		fmtPtr := api.DecodeU32(stack[0])
		template, ok := lfslog.CStringAt(mem, fmtPtr)
		if !ok {
			d.Logf(level, "unreadable log template at %p", uintptr(fmtPtr))
			return
		}

		args := lfslog.NewVaList(mem, api.DecodeU32(stack[1]))
		d.Decode(level, template, args, lfslog.String("module", mod.Name()))
	}
}
