// Package config loads gvlayout settings.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. Built-in defaults
//  2. A config file: the --config path, else gvlayout.yaml, gvlayout.yml or
//     gvlayout.toml in the working directory, else the same names under the
//     user config directory (~/.config/gvlayout on Linux)
//  3. GVLAYOUT_* environment variables (GVLAYOUT_STRICT_EXIT -> strict_exit)
//  4. Command-line flags that were explicitly set
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	errs "github.com/matzehuels/gvlayout/pkg/errors"
	"github.com/matzehuels/gvlayout/pkg/layout"
)

// EnvPrefix prefixes environment variables read as settings.
const EnvPrefix = "GVLAYOUT_"

// Default values for settings that are not layout options.
const (
	DefaultTimeout  = 60 * time.Second
	DefaultCacheTTL = 7 * 24 * time.Hour
	DefaultAddr     = ":8080"
)

var configNames = []string{"gvlayout.yaml", "gvlayout.yml", "gvlayout.toml"}

// Settings is the merged configuration.
type Settings struct {
	Algorithm   string        `koanf:"algorithm"`
	Binary      string        `koanf:"binary"`
	RankDir     string        `koanf:"rankdir"`
	Overlap     string        `koanf:"overlap"`
	Concentrate bool          `koanf:"concentrate"`
	Format      string        `koanf:"format"`
	Engine      string        `koanf:"engine"`
	Timeout     time.Duration `koanf:"timeout"`
	StrictExit  bool          `koanf:"strict_exit"`

	Cache    bool          `koanf:"cache"`
	CacheDir string        `koanf:"cache_dir"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
	RedisURL string        `koanf:"redis_url"`

	Addr string `koanf:"addr"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-"`
}

func defaults() map[string]interface{} {
	d := layout.DefaultConfig()
	return map[string]interface{}{
		"algorithm":   d.Algorithm(),
		"binary":      d.Binary(),
		"rankdir":     d.RankDir(),
		"overlap":     d.Overlap(),
		"concentrate": d.Concentrate(),
		"format":      d.Format(),
		"engine":      string(d.Engine()),
		"timeout":     DefaultTimeout.String(),
		"strict_exit": d.StrictExit(),
		"cache":       true,
		"cache_dir":   "",
		"cache_ttl":   DefaultCacheTTL.String(),
		"redis_url":   "",
		"addr":        DefaultAddr,
	}
}

// Load merges defaults, the config file, the environment and flags.
// path names an explicit config file; empty searches the default locations.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	used, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), parserFor(used)); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config file %s", used)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode settings")
	}
	s.File = used
	return &s, nil
}

// flagKey maps explicitly set flags to settings keys. Flags left at their
// defaults must not override the file or the environment.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		switch key {
		case "no_cache":
			v, _ := flags.GetBool(f.Name)
			return "cache", !v
		case "rank_dir":
			key = "rankdir"
		}
		return key, posflag.FlagVal(flags, f)
	}
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", explicit)
		}
		return explicit, nil
	}

	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "gvlayout"))
	}
	for _, dir := range dirs {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}
	return yaml.Parser()
}

// LayoutConfig converts the layout-related settings.
func (s *Settings) LayoutConfig() layout.Config {
	return layout.DefaultConfig().
		WithAlgorithm(s.Algorithm).
		WithBinary(s.Binary).
		WithRankDir(s.RankDir).
		WithOverlap(s.Overlap).
		WithConcentrate(s.Concentrate).
		WithFormat(s.Format).
		WithEngine(layout.EngineKind(s.Engine)).
		WithTimeout(s.Timeout).
		WithStrictExit(s.StrictExit)
}

// Validate checks the merged settings.
func (s *Settings) Validate() error {
	if err := s.LayoutConfig().Validate(); err != nil {
		return err
	}
	if s.CacheTTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache_ttl cannot be negative: %s", s.CacheTTL)
	}
	if s.RedisURL != "" {
		if err := errs.ValidateRedisURL(s.RedisURL); err != nil {
			return err
		}
	}
	return nil
}
