package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "composer-guard.yaml"

// Composer holds the resolved options of the composer task.
type Composer struct {
	File              string `json:"file"`
	NoCheckAll        bool   `json:"no_check_all"`
	NoCheckLock       bool   `json:"no_check_lock"`
	NoCheckPublish    bool   `json:"no_check_publish"`
	NoLocalRepository bool   `json:"no_local_repository"`
	WithDependencies  bool   `json:"with_dependencies"`
	Strict            bool   `json:"strict"`
}

// Tasks holds per-task options keyed by task name.
type Tasks struct {
	Composer Composer `json:"composer"`
}

// Config is the resolved configuration file.
type Config struct {
	BinDir string `json:"bin_dir"`
	// ProcessTimeoutSeconds of 0 disables the timeout.
	ProcessTimeoutSeconds int   `json:"process_timeout"`
	Tasks                 Tasks `json:"tasks"`
}

// ProcessTimeout converts the configured timeout to a duration.
func (c Config) ProcessTimeout() time.Duration {
	return time.Duration(c.ProcessTimeoutSeconds) * time.Second
}

// ConfigurationError reports a config that does not satisfy the schema.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid options: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Load reads a .yaml, .yml or .cue config file and resolves it against the schema.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigurationError{Path: path, Err: fmt.Errorf("failed to read config: %w", err)}
	}
	ctx := cuecontext.New()
	v, err := compileConfig(ctx, path, data)
	if err != nil {
		return Config{}, &ConfigurationError{Path: path, Err: err}
	}
	var cfg Config
	if err := resolve(ctx, "#Config", v, &cfg); err != nil {
		return Config{}, &ConfigurationError{Path: path, Err: err}
	}
	return cfg, nil
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	ctx := cuecontext.New()
	var cfg Config
	if err := resolve(ctx, "#Config", ctx.CompileString("{}"), &cfg); err != nil {
		panic(fmt.Sprintf("config schema defaults: %v", err))
	}
	return cfg
}

// Resolve validates in-memory composer task options and fills defaults.
func Resolve(options map[string]any) (Composer, error) {
	if options == nil {
		options = map[string]any{}
	}
	ctx := cuecontext.New()
	v := ctx.Encode(dropNulls(options))
	if err := v.Err(); err != nil {
		return Composer{}, &ConfigurationError{Err: err}
	}
	var c Composer
	if err := resolve(ctx, "#Composer", v, &c); err != nil {
		return Composer{}, &ConfigurationError{Err: err}
	}
	return c, nil
}

func compileConfig(ctx *cue.Context, path string, data []byte) (cue.Value, error) {
	switch filepath.Ext(path) {
	case ".cue":
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("invalid cue: %v", err)
		}
		return v, nil
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cue.Value{}, fmt.Errorf("invalid yaml: %v", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		v := ctx.Encode(dropNulls(raw))
		if err := v.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("invalid yaml: %v", err)
		}
		return v, nil
	default:
		return cue.Value{}, errors.New("unsupported config format: expected .yaml, .yml or .cue")
	}
}

// dropNulls removes null-valued keys at any depth, so `tasks:` or
// `composer: ~` in YAML leave the schema defaults in place. m is not modified.
func dropNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = dropNulls(t)
		default:
			out[k] = v
		}
	}
	return out
}

// resolve unifies v with the named schema definition and decodes the result.
func resolve(ctx *cue.Context, def string, v cue.Value, out any) error {
	d, err := definition(ctx, def)
	if err != nil {
		return err
	}
	merged := d.Unify(v)
	if err := merged.Validate(); err != nil {
		return err
	}
	// Decode picks the schema defaults for fields left open.
	if err := merged.Decode(out); err != nil {
		return err
	}
	return nil
}

func definition(ctx *cue.Context, name string) (cue.Value, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("schema: %v", err)
	}
	d := schema.LookupPath(cue.ParsePath(name))
	if !d.Exists() {
		return cue.Value{}, fmt.Errorf("schema: missing definition %s", name)
	}
	return d, nil
}
