package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	return p
}

func defaultComposer() Composer {
	return Composer{File: "./composer.json"}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BinDir != "./vendor/bin" || cfg.ProcessTimeoutSeconds != 60 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProcessTimeout() != 60*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.ProcessTimeout())
	}
	if cfg.Tasks.Composer != defaultComposer() {
		t.Fatalf("unexpected composer defaults: %+v", cfg.Tasks.Composer)
	}
}

func TestLoad_YAML(t *testing.T) {
	p := writeConfig(t, "composer-guard.yaml", `
bin_dir: bin
process_timeout: 0
tasks:
  composer:
    file: ./app/composer.json
    strict: true
    no_local_repository: true
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		BinDir:                "bin",
		ProcessTimeoutSeconds: 0,
		Tasks: Tasks{Composer: Composer{
			File:              "./app/composer.json",
			Strict:            true,
			NoLocalRepository: true,
		}},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoad_YAMLNullSectionsUseDefaults(t *testing.T) {
	for name, content := range map[string]string{
		"bare tasks":    "bin_dir: bin\ntasks:\n",
		"null composer": "bin_dir: bin\ntasks:\n  composer: ~\n",
		"null option":   "bin_dir: bin\ntasks:\n  composer:\n    strict:\n",
		"explicit null": "bin_dir: bin\nprocess_timeout: null\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "composer-guard.yaml", content))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			want := Default()
			want.BinDir = "bin"
			if !reflect.DeepEqual(cfg, want) {
				t.Fatalf("got %+v, want %+v", cfg, want)
			}
		})
	}
}

func TestResolve_NullOptionUsesDefault(t *testing.T) {
	c, err := Resolve(map[string]any{"file": nil, "strict": true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if c.File != "./composer.json" || !c.Strict {
		t.Fatalf("unexpected options: %+v", c)
	}
}

func TestLoad_CUE(t *testing.T) {
	p := writeConfig(t, "composer-guard.cue", `{
	tasks: composer: { no_check_lock: true, with_dependencies: true }
}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := cfg.Tasks.Composer
	if !c.NoCheckLock || !c.WithDependencies || c.Strict || c.File != "./composer.json" {
		t.Fatalf("unexpected composer options: %+v", c)
	}
	if cfg.BinDir != "./vendor/bin" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_EmptyYAMLUsesDefaults(t *testing.T) {
	p := writeConfig(t, "composer-guard.yml", "")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]struct {
		name    string
		content string
	}{
		"unknown task key":   {"c.yaml", "tasks:\n  composer:\n    no_check_everything: true\n"},
		"unknown task":       {"c.yaml", "tasks:\n  phpcs: {}\n"},
		"unknown top key":    {"c.yaml", "parameters: {}\n"},
		"wrong bool type":    {"c.yaml", "tasks:\n  composer:\n    strict: \"yes\"\n"},
		"wrong string type":  {"c.yaml", "tasks:\n  composer:\n    file: 3\n"},
		"negative timeout":   {"c.yaml", "process_timeout: -1\n"},
		"broken yaml":        {"c.yaml", "tasks: [\n"},
		"unsupported format": {"c.json", "{}"},
		"broken cue":         {"c.cue", "tasks: {"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			p := writeConfig(t, c.name, c.content)
			_, err := Load(p)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if ce.Path != p || !strings.Contains(err.Error(), p) {
				t.Fatalf("error should name the file: %v", err)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), DefaultPath))
	if err != nil {
		t.Fatalf("missing optional config: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), DefaultPath)); err == nil {
		t.Fatalf("Load must fail on a missing file")
	}
}

func TestResolve(t *testing.T) {
	c, err := Resolve(nil)
	if err != nil {
		t.Fatalf("resolve defaults: %v", err)
	}
	if c != defaultComposer() {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	c, err = Resolve(map[string]any{"no_check_all": true, "file": "pkg/composer.json"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !c.NoCheckAll || c.File != "pkg/composer.json" {
		t.Fatalf("unexpected options: %+v", c)
	}
	for _, bad := range []map[string]any{
		{"strict": "true"},
		{"verbose": true},
		{"file": false},
	} {
		_, err := Resolve(bad)
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Fatalf("%v: expected ConfigurationError, got %v", bad, err)
		}
	}
}

func TestComposerOptions(t *testing.T) {
	want := []Option{
		{Name: "file", Type: "string", Default: "./composer.json"},
		{Name: "no_check_all", Type: "bool", Default: false},
		{Name: "no_check_lock", Type: "bool", Default: false},
		{Name: "no_check_publish", Type: "bool", Default: false},
		{Name: "no_local_repository", Type: "bool", Default: false},
		{Name: "with_dependencies", Type: "bool", Default: false},
		{Name: "strict", Type: "bool", Default: false},
	}
	got := ComposerOptions()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("options:\n got %+v\nwant %+v", got, want)
	}
}
