package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/deencode/errors"
)

// Registry maps lookup keys to engines. Keys are case-insensitive and keep
// their registration order.
//
// A Registry is not safe for concurrent mutation.
type Registry struct {
	engines map[string]Engine
	keys    []string
}

// NewRegistry returns a registry holding the built-in engines.
func NewRegistry() *Registry {
	r := &Registry{engines: make(map[string]Engine)}
	builtins := []struct {
		key    string
		engine Engine
	}{
		{"utf8", UTF8()},
		{"latin1", Latin1()},
		{"latin2", Latin2()},
		{"cp1253", CP1253()},
		{"cp1254", CP1254()},
		{"cp1255", CP1255()},
		{"mixed816be", Mixed816BE()},
		{"mixed816le", Mixed816LE()},
		{"utf7", UTF7()},
	}
	for _, b := range builtins {
		r.mustRegister(b.key, b.engine)
	}

	// aliases resolve to the same values but are not listed by Keys
	r.engines["cp1252"] = r.engines["latin1"]
	r.engines["cp1250"] = r.engines["latin2"]
	r.engines["iso8859-9"] = r.engines["cp1254"]
	r.engines["iso8859-8"] = r.engines["cp1255"]
	return r
}

func (r *Registry) mustRegister(key string, e Engine) {
	if err := r.Register(key, e); err != nil {
		panic(err)
	}
}

// Register adds e under key.
func (r *Registry) Register(key string, e Engine) error {
	k := normalizeKey(key)
	if k == "" {
		return errors.InvalidInput(errors.PhaseEngine, "empty engine key")
	}
	if e == nil {
		return errors.New(errors.PhaseEngine, errors.KindInvalidInput).
			Value(key).
			Detail("nil engine for key %q", key).
			Build()
	}
	if e.Name() == "" {
		return errors.New(errors.PhaseEngine, errors.KindInvalidInput).
			Value(key).
			Detail("engine for key %q has an empty name", key).
			Build()
	}
	if _, exists := r.engines[k]; exists {
		return errors.Duplicate(errors.PhaseEngine, "engine", k)
	}

	r.engines[k] = e
	r.keys = append(r.keys, k)
	Logger().Debug("engine registered", zap.String("key", k), zap.String("engine", e.Name()))
	return nil
}

// Lookup returns the engine registered under key.
func (r *Registry) Lookup(key string) (Engine, bool) {
	e, ok := r.engines[normalizeKey(key)]
	return e, ok
}

// Resolve returns the engines for keys, in the order given.
func (r *Registry) Resolve(keys []string) ([]Engine, error) {
	engines := make([]Engine, 0, len(keys))
	for _, key := range keys {
		e, ok := r.Lookup(key)
		if !ok {
			return nil, errors.NotFound(errors.PhaseEngine, "engine", key)
		}
		engines = append(engines, e)
	}
	return engines, nil
}

// Keys returns the registered keys in registration order, without aliases.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

func normalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "_", "")
	if strings.HasPrefix(k, "utf-") {
		k = "utf" + k[len("utf-"):]
	}
	return k
}
