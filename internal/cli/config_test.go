package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pedigraph.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigAbsentDefault(t *testing.T) {
	// Run from a directory that has no pedigraph.toml.
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("", log.New(io.Discard))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg != nil {
		t.Errorf("loadConfig() = %+v, want nil for an absent default file", cfg)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), log.New(io.Discard))
	if err == nil {
		t.Error("loadConfig() should fail when an explicit config file is missing")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfigFile(t, `
[spacing]
base_spacing     = 140
spouse_spacing   = 90
expansion_factor = 2.0

[transition]
movement_threshold = 12.5
`)

	cfg, err := loadConfig(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Spacing.BaseSpacing != 140 {
		t.Errorf("BaseSpacing = %v, want 140", cfg.Spacing.BaseSpacing)
	}
	if cfg.Spacing.SpouseSpacing != 90 {
		t.Errorf("SpouseSpacing = %v, want 90", cfg.Spacing.SpouseSpacing)
	}
	if cfg.Spacing.ExpansionFactor != 2.0 {
		t.Errorf("ExpansionFactor = %v, want 2.0", cfg.Spacing.ExpansionFactor)
	}
	if cfg.Spacing.VerticalSpacing != 0 {
		t.Errorf("VerticalSpacing = %v, want 0 (unset)", cfg.Spacing.VerticalSpacing)
	}
	if cfg.Transition.MovementThreshold != 12.5 {
		t.Errorf("MovementThreshold = %v, want 12.5", cfg.Transition.MovementThreshold)
	}
}

func TestLoadConfigToleratesUnknownKeys(t *testing.T) {
	path := writeConfigFile(t, `
[spacing]
base_spacing = 140
future_knob  = true
`)

	cfg, err := loadConfig(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("loadConfig() should warn, not fail, on unknown keys: %v", err)
	}
	if cfg.Spacing.BaseSpacing != 140 {
		t.Errorf("BaseSpacing = %v, want 140", cfg.Spacing.BaseSpacing)
	}
}

func TestApplyConfigPrecedence(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.config = &fileConfig{}
	c.config.Spacing.BaseSpacing = 140
	c.config.Spacing.SpouseSpacing = 90
	c.config.Transition.MovementThreshold = 12.5

	// Explicit flag value wins; unset values come from the file.
	opts := pipeline.Options{BaseSpacing: 200}
	c.applyConfig(&opts)

	if opts.BaseSpacing != 200 {
		t.Errorf("BaseSpacing = %v, want 200 (flag wins over file)", opts.BaseSpacing)
	}
	if opts.SpouseSpacing != 90 {
		t.Errorf("SpouseSpacing = %v, want 90 (file fills unset)", opts.SpouseSpacing)
	}
	if opts.MovementThreshold != 12.5 {
		t.Errorf("MovementThreshold = %v, want 12.5 (file fills unset)", opts.MovementThreshold)
	}
	if opts.VerticalSpacing != 0 {
		t.Errorf("VerticalSpacing = %v, want 0 (left for built-in defaults)", opts.VerticalSpacing)
	}
}

func TestApplyConfigNilIsNoop(t *testing.T) {
	c := New(io.Discard, LogInfo)

	opts := pipeline.Options{BaseSpacing: 200}
	c.applyConfig(&opts)

	if opts.BaseSpacing != 200 || opts.SpouseSpacing != 0 {
		t.Errorf("applyConfig without a config file changed options: %+v", opts)
	}
}
