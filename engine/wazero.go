package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/deencode/errors"
)

// Plugin ABI export names.
const (
	ExportMemory = "memory"
	ExportAlloc  = "alloc"
	ExportEncode = "encode"
	ExportDecode = "decode"
)

// absent is the packed result an encode export returns for unrepresentable input.
const absent = ^uint64(0)

// WazeroEngine is an Engine implemented by a core WebAssembly module.
//
// The module must export:
//
//	memory                          linear memory
//	alloc(size i32) -> i32          buffer for the input
//	encode(ptr i32, len i32) -> i64 ptr<<32 | len of the output, or -1 for absent
//	decode(ptr i32, len i32) -> i64 ptr<<32 | len of the UTF-8 output
//
// Calls are serialised: a module instance is not safe for concurrent use.
type WazeroEngine struct {
	runtime wazero.Runtime
	module  api.Module
	alloc   api.Function
	encode  api.Function
	decode  api.Function
	name    string
	mu      sync.Mutex
}

// WazeroConfig holds configuration for plugin loading
type WazeroConfig struct {
	// MemoryLimitPages sets the maximum memory of the plugin in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// LoadWazeroEngine compiles and instantiates a plugin engine named name.
func LoadWazeroEngine(ctx context.Context, name string, wasm []byte) (*WazeroEngine, error) {
	return LoadWazeroEngineWithConfig(ctx, name, wasm, nil)
}

// LoadWazeroEngineWithConfig is LoadWazeroEngine with a custom configuration.
func LoadWazeroEngineWithConfig(ctx context.Context, name string, wasm []byte, cfg *WazeroConfig) (*WazeroEngine, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "plugin engine name is empty")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Load("compile plugin "+name, err)
	}

	if err := validateExports(name, compiled); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Load("instantiate plugin "+name, err)
	}

	Logger().Debug("plugin engine loaded", zap.String("engine", name), zap.Int("size", len(wasm)))

	return &WazeroEngine{
		runtime: rt,
		module:  mod,
		alloc:   mod.ExportedFunction(ExportAlloc),
		encode:  mod.ExportedFunction(ExportEncode),
		decode:  mod.ExportedFunction(ExportDecode),
		name:    name,
	}, nil
}

func validateExports(name string, compiled wazero.CompiledModule) error {
	if _, ok := compiled.ExportedMemories()[ExportMemory]; !ok {
		return errors.New(errors.PhaseLoad, errors.KindNotFound).
			Engine(name).
			Detail("missing %q export", ExportMemory).
			Build()
	}

	funcs := compiled.ExportedFunctions()
	want := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{ExportAlloc, []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{ExportEncode, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI64}},
		{ExportDecode, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI64}},
	}
	for _, w := range want {
		def, ok := funcs[w.name]
		if !ok {
			return errors.New(errors.PhaseLoad, errors.KindNotFound).
				Engine(name).
				Detail("missing %q export", w.name).
				Build()
		}
		if !sameTypes(def.ParamTypes(), w.params) || !sameTypes(def.ResultTypes(), w.results) {
			return errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Engine(name).
				Detail("export %q has signature %s, want %s",
					w.name, signature(def.ParamTypes(), def.ResultTypes()), signature(w.params, w.results)).
				Build()
		}
	}
	return nil
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func signature(params, results []api.ValueType) string {
	return fmt.Sprintf("%s -> %s", valueTypeNames(params), valueTypeNames(results))
}

func valueTypeNames(types []api.ValueType) string {
	s := "("
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += api.ValueTypeName(t)
	}
	return s + ")"
}

func (e *WazeroEngine) Name() string { return e.name }

// Encode reports false when the plugin returns -1 or traps.
func (e *WazeroEngine) Encode(s string) ([]byte, bool) {
	out, ok, err := e.call(e.encode, []byte(s))
	if err != nil {
		Logger().Warn("plugin encode failed", zap.String("engine", e.name), zap.Error(err))
		return nil, false
	}
	return out, ok
}

// Decode repairs output that is not valid UTF-8. A trap or an absent result
// yields a single U+FFFD.
func (e *WazeroEngine) Decode(b []byte) string {
	out, ok, err := e.call(e.decode, b)
	if err != nil {
		Logger().Warn("plugin decode failed", zap.String("engine", e.name), zap.Error(err))
		return string(Replacement)
	}
	if !ok {
		Logger().Warn("decode export returned absent", zap.String("engine", e.name))
		return string(Replacement)
	}
	return lossyUTF8(out)
}

func (e *WazeroEngine) call(fn api.Function, input []byte) ([]byte, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := context.Background()
	mem := e.module.Memory()

	res, err := e.alloc.Call(ctx, uint64(len(input)))
	if err != nil {
		return nil, false, errors.New(errors.PhaseEngine, errors.KindInvalidData).
			Engine(e.name).
			Cause(err).
			Detail("alloc %d bytes", len(input)).
			Build()
	}
	ptr := uint32(res[0])
	if !mem.Write(ptr, input) {
		return nil, false, errors.InvalidData(errors.PhaseEngine, e.name,
			fmt.Sprintf("write %d bytes at %d: out of range", len(input), ptr))
	}

	res, err = fn.Call(ctx, uint64(ptr), uint64(len(input)))
	if err != nil {
		return nil, false, errors.New(errors.PhaseEngine, errors.KindInvalidData).
			Engine(e.name).
			Cause(err).
			Detail("call %q", fn.Definition().Name()).
			Build()
	}
	if res[0] == absent {
		return nil, false, nil
	}

	outPtr, outLen := uint32(res[0]>>32), uint32(res[0])
	data, ok := mem.Read(outPtr, outLen)
	if !ok {
		return nil, false, errors.InvalidData(errors.PhaseEngine, e.name,
			fmt.Sprintf("read %d bytes at %d: out of range", outLen, outPtr))
	}
	// Read returns a view into guest memory
	return append([]byte(nil), data...), true, nil
}

// Close releases the plugin's runtime.
func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
