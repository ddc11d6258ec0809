// Package config provides configuration loading for the deencode tool.
//
// Configuration is layered, lowest to highest precedence:
//   - Default()
//   - a config file (.yaml/.yml, or .json/.jsonc with comments and trailing
//     commas), named explicitly or by DEENCODE_CONFIG
//   - .env files, which never override variables already in the environment
//   - DEENCODE_* environment variables
//
// Command line flags are applied on top by the caller.
package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/deencode"
	"github.com/wippyai/deencode/errors"
	"github.com/wippyai/deencode/render"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "DEENCODE_"

// Color controls ANSI colour in text output.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// Config is the configuration of the deencode tool.
type Config struct {
	// Engines are registry keys, in deduplication priority order.
	Engines []string `yaml:"engines" json:"engines"`

	// Depth is the number of encodings on each path.
	// Default: 1
	Depth int `yaml:"depth" json:"depth"`

	// Parallel builds top-level subtrees concurrently.
	Parallel bool `yaml:"parallel" json:"parallel"`

	// MaxNodes limits the worst-case tree size. Zero disables the limit.
	// Default: deencode.DefaultMaxNodes
	MaxNodes uint64 `yaml:"max_nodes" json:"max_nodes"`

	// Dedup prunes repeated outputs before rendering.
	// Default: true
	Dedup bool `yaml:"dedup" json:"dedup"`

	// Format is text, json or cbor.
	Format string `yaml:"format" json:"format"`

	// Compression is none or zstd.
	Compression string `yaml:"compression" json:"compression"`

	// Color is auto, always or never.
	Color Color `yaml:"color" json:"color"`

	// LogLevel is a zap level name.
	// Default: warn
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Plugins are WebAssembly engines registered before Engines is resolved.
	Plugins []Plugin `yaml:"plugins" json:"plugins"`
}

// Plugin names a WebAssembly engine module.
type Plugin struct {
	// Key is the registry key the engine is registered under.
	Key string `yaml:"key" json:"key"`

	// Name is the display name. Defaults to Key.
	Name string `yaml:"name" json:"name"`

	// Path is the .wasm file.
	Path string `yaml:"path" json:"path"`

	// MemoryLimitPages caps the module's linear memory in 64 KiB pages.
	// Zero keeps the runtime default.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" json:"memory_limit_pages"`
}

// DefaultEngines is the engine list of the default configuration.
var DefaultEngines = []string{"utf8", "latin1", "latin2", "cp1253", "mixed816be", "mixed816le", "utf7"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engines:     append([]string(nil), DefaultEngines...),
		Depth:       1,
		MaxNodes:    deencode.DefaultMaxNodes,
		Dedup:       true,
		Format:      string(render.FormatText),
		Compression: string(render.CompressionNone),
		Color:       ColorAuto,
		LogLevel:    "warn",
	}
}

// Load builds a configuration from every layer. path names the config
// file; when empty, DEENCODE_CONFIG is consulted and, failing that, no file
// is read. dotenv lists .env files; missing ones are skipped.
func Load(path string, dotenv ...string) (*Config, error) {
	vars, err := readDotEnv(dotenv)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	if path == "" {
		path, _ = lookup(EnvPrefix + "CONFIG")
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads Default() overlaid with a single config file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Config("read "+path, err)
	}
	return c.decode(filepath.Ext(path), data)
}

// decode merges data into c. ext selects the syntax.
func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Config("parse yaml", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return errors.Config("parse json", err)
		}
	default:
		return errors.Unsupported(errors.PhaseConfig, fmt.Sprintf("config file extension %q", ext))
	}
	return nil
}

func readDotEnv(paths []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, p := range paths {
		m, err := godotenv.Read(p)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Config("read "+p, err)
		}
		// Earlier files win, as with godotenv.Load.
		for k, v := range m {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}
	return vars, nil
}

// ApplyEnv overrides fields from DEENCODE_* variables found by lookup.
// Lists are comma separated.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok
	}

	if v, ok := get("ENGINES"); ok {
		c.Engines = splitList(v)
	}
	if v, ok := get("DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Config(EnvPrefix+"DEPTH", err)
		}
		c.Depth = n
	}
	if v, ok := get("PARALLEL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Config(EnvPrefix+"PARALLEL", err)
		}
		c.Parallel = b
	}
	if v, ok := get("MAX_NODES"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Config(EnvPrefix+"MAX_NODES", err)
		}
		c.MaxNodes = n
	}
	if v, ok := get("DEDUP"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Config(EnvPrefix+"DEDUP", err)
		}
		c.Dedup = b
	}
	if v, ok := get("FORMAT"); ok {
		c.Format = v
	}
	if v, ok := get("COMPRESSION"); ok {
		c.Compression = v
	}
	if v, ok := get("COLOR"); ok {
		c.Color = Color(strings.ToLower(v))
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for errors. Every problem is reported.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Engines) == 0 {
		errs = append(errs, errors.InvalidInput(errors.PhaseConfig, "engines is empty"))
	}
	for i, key := range c.Engines {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(i).
				Detail("engines[%d] is empty", i).
				Build())
		}
	}
	if c.Depth < 1 {
		errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidDepth).
			Value(c.Depth).
			Detail("depth must be at least 1, got %d", c.Depth).
			Build())
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		errs = append(errs, errors.Unsupported(errors.PhaseConfig, "format "+c.Format))
	}
	if _, err := render.ParseCompression(c.Compression); err != nil {
		errs = append(errs, errors.Unsupported(errors.PhaseConfig, "compression "+c.Compression))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		errs = append(errs, errors.Unsupported(errors.PhaseConfig, "color "+string(c.Color)))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, errors.Config("log_level", err))
	}

	keys := make(map[string]bool, len(c.Plugins))
	for i, p := range c.Plugins {
		switch {
		case p.Key == "":
			errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(i).
				Detail("plugins[%d].key is required", i).
				Build())
		case keys[p.Key]:
			errs = append(errs, errors.Duplicate(errors.PhaseConfig, "plugin", p.Key))
		}
		keys[p.Key] = true
		if p.Path == "" {
			errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(i).
				Detail("plugins[%d].path is required", i).
				Build())
		}
	}

	return stderrors.Join(errs...)
}

// Level returns the parsed log level, or warn when LogLevel is invalid.
func (c *Config) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel
	}
	return l
}

// UseColor resolves Color against whether output goes to a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}

// DisplayName returns Name, or Key when Name is empty.
func (p Plugin) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key
}
