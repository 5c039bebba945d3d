// Package config loads argfuzz configuration from JSONC files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

// Errors returned by [Load].
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config")
	ErrIterationsInvalid  = errors.New("iterations must be > 0")
	ErrRateOutOfRange     = errors.New("rate must be between 0 and 1")
	ErrFindingsDBEmpty    = errors.New("findings_db cannot be empty")
)

// FileName is the project config file looked up in the work dir.
const FileName = ".argfuzz.json"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Iterations int      `json:"iterations"`
	Seed       uint64   `json:"seed,omitempty"`
	Operations []string `json:"operations,omitempty"`
	FindingsDB string   `json:"findings_db"`
	Chaos      Chaos    `json:"chaos"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd  string `json:"-"`
	FindingsDBAbs string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Chaos holds fault injection rates. All zero disables injection.
type Chaos struct {
	CreateFailRate float64 `json:"create_fail_rate"`
	DeleteFailRate float64 `json:"delete_fail_rate"`
	CallFailRate   float64 `json:"call_fail_rate"`
	PanicRate      float64 `json:"panic_rate"`
}

// GL converts c to the form [gl.NewChaos] takes.
func (c Chaos) GL() gl.ChaosConfig {
	return gl.ChaosConfig{
		CreateFailRate: c.CreateFailRate,
		DeleteFailRate: c.DeleteFailRate,
		CallFailRate:   c.CallFailRate,
		PanicRate:      c.PanicRate,
	}
}

// Enabled reports whether any rate is non-zero.
func (c Chaos) Enabled() bool {
	return c != Chaos{}
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Iterations: 100,
		FindingsDB: filepath.Join(".argfuzz", "findings.db"),
	}
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables
}

// globalPath returns $XDG_CONFIG_HOME/argfuzz/config.json if set, otherwise
// ~/.config/argfuzz/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "argfuzz", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "argfuzz", "config.json")
	}

	return ""
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/argfuzz/config.json or $XDG_CONFIG_HOME/argfuzz/config.json)
// 3. Project config file at default location (.argfuzz.json, if exists)
// 4. Explicit config file via ConfigPath (replaces 3, must exist)
//
// Each file is decoded on top of the previous layer, so a file only changes
// the fields it mentions. CLI flags are applied by the caller, which should
// call [Config.Validate] again afterwards.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		loaded, err := loadFile(&cfg, path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
		}
	}

	projectPath, mustExist := filepath.Join(workDir, FileName), false

	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		if _, err := os.Stat(projectPath); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	loaded, err := loadFile(&cfg, projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
	}

	cfg.EffectiveCwd = workDir

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Validate checks field ranges and resolves FindingsDBAbs.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w (got %d)", ErrIterationsInvalid, c.Iterations)
	}

	if c.FindingsDB == "" {
		return ErrFindingsDBEmpty
	}

	rates := []struct {
		name string
		v    float64
	}{
		{"create_fail_rate", c.Chaos.CreateFailRate},
		{"delete_fail_rate", c.Chaos.DeleteFailRate},
		{"call_fail_rate", c.Chaos.CallFailRate},
		{"panic_rate", c.Chaos.PanicRate},
	}

	for _, r := range rates {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("chaos.%s: %w (got %g)", r.name, ErrRateOutOfRange, r.v)
		}
	}

	if filepath.IsAbs(c.FindingsDB) {
		c.FindingsDBAbs = c.FindingsDB
	} else {
		c.FindingsDBAbs = filepath.Join(c.EffectiveCwd, c.FindingsDB)
	}

	return nil
}

// loadFile decodes the file at path on top of cfg. If mustExist is false, a
// missing file leaves cfg untouched. Reports whether the file was read.
func loadFile(cfg *Config, path string, mustExist bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return false, nil
		}

		return false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	if err := parse(cfg, data); err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return true, nil
}

func parse(cfg *Config, data []byte) error {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	next := *cfg

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&next); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	*cfg = next

	return nil
}
