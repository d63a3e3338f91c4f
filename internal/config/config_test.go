// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/nutrilens/internal/model"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NUTRILENS_HOME", dir)
	for _, k := range []string{
		"NUTRILENS_BACKEND_URL", "NUTRILENS_TIMEOUT", "NUTRILENS_SKIP_PROBE",
		"NUTRILENS_HEALTH_GOAL", "NUTRILENS_DIET_TYPE", "NUTRILENS_THEME",
		"NUTRILENS_LOG_FILE", "NUTRILENS_VERBOSE",
	} {
		t.Setenv(k, "")
	}
	// .env in the working directory would leak into the test
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("timeout_secs = %d, want 30", cfg.Backend.TimeoutSecs)
	}
	if cfg.Defaults.ServingSize != "1 serving" {
		t.Errorf("serving_size = %q", cfg.Defaults.ServingSize)
	}

	sel := cfg.Selector()
	if sel != model.DefaultSelector() {
		t.Errorf("Selector() = %+v, want defaults", sel)
	}
}

func TestBackendClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "http://nutrition.local:9000"
	cfg.Backend.TimeoutSecs = 0

	cc := cfg.BackendClientConfig()
	if cc.BaseURL != "http://nutrition.local:9000" {
		t.Errorf("BaseURL = %q", cc.BaseURL)
	}
	if cc.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (no timeout)", cc.Timeout)
	}

	cfg.Backend.TimeoutSecs = 5
	if got := cfg.BackendClientConfig().Timeout; got != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", got)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)

	content := `
[backend]
base_url = "https://api.example.com"
timeout_secs = 10

[defaults]
health_goal = "heart_health"
diet_type = "vegan"

[ui]
theme = "dark"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 10 {
		t.Errorf("timeout_secs = %d", cfg.Backend.TimeoutSecs)
	}
	// untouched keys keep their defaults
	if cfg.Backend.Burst != 4 {
		t.Errorf("burst = %d, want default 4", cfg.Backend.Burst)
	}
	sel := cfg.Selector()
	if sel.HealthGoal != model.GoalHeartHealth || sel.DietType != model.DietVegan {
		t.Errorf("Selector() = %+v", sel)
	}
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)

	content := `{"backend": {"base_url": "http://127.0.0.1:8123"}, "export": {"format": "pdf"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:8123" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Export.Format != "pdf" {
		t.Errorf("format = %q", cfg.Export.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("NUTRILENS_BACKEND_URL", "http://env-host:8000")
	t.Setenv("NUTRILENS_TIMEOUT", "0")
	t.Setenv("NUTRILENS_DIET_TYPE", "low_sodium")
	t.Setenv("NUTRILENS_SKIP_PROBE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env-host:8000" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 0 {
		t.Errorf("timeout_secs = %d, want 0", cfg.Backend.TimeoutSecs)
	}
	if !cfg.Backend.SkipProbe {
		t.Error("skip_probe should be set")
	}
	if cfg.Selector().DietType != model.DietLowSodium {
		t.Errorf("diet = %q", cfg.Selector().DietType)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	// t.Setenv("", ...) above leaves the variable set to empty, which
	// godotenv treats as already present; unset it for this test.
	os.Unsetenv("NUTRILENS_THEME")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("NUTRILENS_THEME=light\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("NUTRILENS_THEME") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want light from .env", cfg.UI.Theme)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.Backend.BaseURL = "localhost:8000" }, "backend.base_url"},
		{"ftp url", func(c *Config) { c.Backend.BaseURL = "ftp://example.com" }, "backend.base_url"},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSecs = -1 }, "backend.timeout_secs"},
		{"unknown goal", func(c *Config) { c.Defaults.HealthGoal = "bulking" }, "defaults.health_goal"},
		{"unknown diet", func(c *Config) { c.Defaults.DietType = "carnivore" }, "defaults.diet_type"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"unknown format", func(c *Config) { c.Export.Format = "docx" }, "export.format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidateErrors, got %v", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tc.field {
				t.Errorf("got %v, want one error on %s", verrs, tc.field)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("backend.timeout_secs", "12"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cfg.Set("ui.compact_mode", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cfg.Set("defaults.diet_type", "paleo"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, err := cfg.Get("backend.timeout_secs")
	if err != nil || v.(int) != 12 {
		t.Errorf("Get timeout = %v, %v", v, err)
	}
	if !cfg.UI.CompactMode {
		t.Error("compact_mode not set")
	}
	if cfg.Defaults.DietType != "paleo" {
		t.Errorf("diet_type = %q", cfg.Defaults.DietType)
	}

	if _, err := cfg.Get("backend.nope"); err == nil {
		t.Error("expected unknown field error")
	}
	if err := cfg.Set("backend", "x"); err == nil {
		t.Error("expected error setting a section")
	}
	if err := cfg.Set("backend.burst", "many"); err == nil {
		t.Error("expected integer parse error")
	}

	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.BaseURL = "https://saved.example.com"
	cfg.Defaults.HealthGoal = string(model.GoalMuscleGain)
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Backend.BaseURL != "https://saved.example.com" {
		t.Errorf("base_url = %q", loaded.Backend.BaseURL)
	}
	if loaded.Selector().HealthGoal != model.GoalMuscleGain {
		t.Errorf("goal = %q", loaded.Selector().HealthGoal)
	}
}

func TestSaveFile_JSONRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Backend.BaseURL = "https://saved.example.com"
	cfg.Export.Format = "pdf"
	if err := SaveFile(cfg, path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	loaded := Default()
	if err := LoadFile(loaded, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Backend.BaseURL != "https://saved.example.com" {
		t.Errorf("base_url = %q", loaded.Backend.BaseURL)
	}
	if loaded.Export.Format != "pdf" {
		t.Errorf("format = %q", loaded.Export.Format)
	}
}

func TestActivePath(t *testing.T) {
	dir := isolate(t)
	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	steps := []struct {
		name  string
		write string
		want  string
	}{
		{"nothing on disk", "", tomlPath},
		{"json only", jsonPath, jsonPath},
		{"toml wins", tomlPath, tomlPath},
	}
	for _, st := range steps {
		if st.write != "" {
			if err := SaveFile(Default(), st.write); err != nil {
				t.Fatalf("%s: SaveFile: %v", st.name, err)
			}
		}
		got, err := ActivePath()
		if err != nil {
			t.Fatalf("%s: ActivePath: %v", st.name, err)
		}
		if got != st.want {
			t.Errorf("%s: ActivePath = %q, want %q", st.name, got, st.want)
		}
	}
}

func TestDefaultLogPath(t *testing.T) {
	dir := isolate(t)
	path, err := DefaultLogPath()
	if err != nil {
		t.Fatalf("DefaultLogPath: %v", err)
	}
	if want := filepath.Join(dir, "tui.log"); path != want {
		t.Errorf("DefaultLogPath = %q, want %q", path, want)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Backend.BaseURL = "http://other:1"
	if cfg.Backend.BaseURL == clone.Backend.BaseURL {
		t.Error("Clone shares state with the original")
	}
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_ConcurrentReload(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)
	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
