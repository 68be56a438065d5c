package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig_YAML(t *testing.T) {
	p := writeConfig(t, "rules.yaml", `
layers: [1, 2]
min_severity: warning
rules:
  - id: magic-number
    enabled: false
thresholds:
  complexity_moderate: 8
  complexity_high: 12
exclude: ["dist/**"]
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.IsLayerEnabled(2) || cfg.IsLayerEnabled(3) {
		t.Errorf("unexpected layer filter %v", cfg.Layers)
	}
	if cfg.IsRuleEnabled("magic-number") || !cfg.IsRuleEnabled("console-log") {
		t.Error("rule toggles not applied")
	}
	if cfg.Thresholds.ComplexityModerate != 8 || cfg.Thresholds.NestingDepth != 4 {
		t.Errorf("thresholds should merge over defaults: %+v", cfg.Thresholds)
	}
	if cfg.Passes(SeverityInfo) || !cfg.Passes(SeverityError) {
		t.Error("min_severity not applied")
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	p := writeConfig(t, "rules.toml", `
categories = ["security"]
jobs = 4

[thresholds]
complexity_moderate = 10
complexity_high = 20
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Jobs != 4 || cfg.Thresholds.ComplexityHigh != 20 {
		t.Errorf("toml values not applied: %+v", cfg)
	}
	if !cfg.IsCategoryEnabled("security") || cfg.IsCategoryEnabled("performance") {
		t.Error("category filter not applied")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	p := writeConfig(t, "rules.yaml", "layers: [7]\n")
	if _, err := LoadConfig(p); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	cfg, err := LoadConfig("")
	if err != nil || cfg.Thresholds.ComplexityHigh != 15 {
		t.Errorf("empty path should return defaults, got %+v, %v", cfg, err)
	}
}

func TestSeverity(t *testing.T) {
	if !(SeverityError.Rank() > SeverityWarning.Rank() && SeverityWarning.Rank() > SeverityInfo.Rank()) {
		t.Error("severity ranks out of order")
	}
	if ParseSeverity("ERROR") != SeverityError || ParseSeverity("bogus") != SeverityInfo {
		t.Error("ParseSeverity mismatch")
	}
}

func TestFilters(t *testing.T) {
	cfg := Default()
	if err := cfg.FilterByLayers("1, 5"); err != nil {
		t.Fatalf("FilterByLayers: %v", err)
	}
	if !cfg.IsLayerEnabled(5) || cfg.IsLayerEnabled(2) {
		t.Errorf("layers = %v", cfg.Layers)
	}
	if err := cfg.FilterByLayers("x"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	cfg.FilterByCategories("security, accessibility")
	if len(cfg.Categories) != 2 || !cfg.IsCategoryEnabled("accessibility") {
		t.Errorf("categories = %v", cfg.Categories)
	}

	cfg.DisableRule("b")
	cfg.DisableRule("a")
	cfg.DisableRule("a")
	if got := cfg.DisabledRules(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("DisabledRules = %v", got)
	}
}

func TestExcludeMatcher(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"public/**", "**/*.generated.ts"}
	excluded, err := cfg.ExcludeMatcher()
	if err != nil {
		t.Fatalf("ExcludeMatcher: %v", err)
	}
	for path, want := range map[string]bool{
		"public/icons/a.js":          true,
		"src/api/types.generated.ts": true,
		"src/app/page.tsx":           false,
	} {
		if got := excluded(path); got != want {
			t.Errorf("excluded(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a, b := Default(), Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical configs should share a fingerprint")
	}
	b.DisableRule("magic-number")
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("disabling a rule should change the fingerprint")
	}
}
