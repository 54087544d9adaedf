package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Andrei-Barwood/pwaudit/internal/format"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Policy != strength.PolicyEntropy {
		t.Fatalf("expected entropy policy by default, got %s", cfg.Policy)
	}
	if cfg.GenLength != strength.DefaultTargetLength {
		t.Fatalf("expected generator length %d, got %d", strength.DefaultTargetLength, cfg.GenLength)
	}
	if cfg.Delimiter != ',' || cfg.Layout != format.LayoutReport {
		t.Fatalf("unexpected scan defaults: %q %s", cfg.Delimiter, cfg.Layout)
	}
	if cfg.EnsureCoverage {
		t.Fatalf("coverage guarantee must be off by default")
	}
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "pwaudit.yaml")
	yaml := "policy: length\ngenerator:\n  length: 16\nscan:\n  delimiter: tab\n  workers: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PWAUDIT_SCAN_WORKERS", "5")

	l := NewLoader()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("length", strength.DefaultTargetLength, "")
	if err := l.BindFlag(KeyGenLength, fs.Lookup("length")); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := fs.Parse([]string{"--length", "24"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := l.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.File != path {
		t.Fatalf("expected config file %s, got %s", path, cfg.File)
	}
	if cfg.Policy != strength.PolicyLength {
		t.Fatalf("expected policy from file, got %s", cfg.Policy)
	}
	if cfg.Delimiter != '\t' {
		t.Fatalf("expected tab delimiter, got %q", cfg.Delimiter)
	}
	if cfg.Workers != 5 {
		t.Fatalf("expected env to override file, got %d workers", cfg.Workers)
	}
	if cfg.GenLength != 24 {
		t.Fatalf("expected flag to override everything, got %d", cfg.GenLength)
	}
	if _, ok := cfg.StrengthPolicy().(strength.LengthPolicy); !ok {
		t.Fatalf("expected length policy, got %T", cfg.StrengthPolicy())
	}
	if cfg.Evaluator().TargetLength() != 24 {
		t.Fatalf("evaluator did not pick up generator length")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	if _, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PWAUDIT_POLICY":            "zxcvbn",
		"PWAUDIT_GENERATOR_LENGTH":  "0",
		"PWAUDIT_SCAN_DELIMITER":    `"`,
		"PWAUDIT_EXPORT_LAYOUT":     "xlsx",
		"PWAUDIT_LENGTH_GOOD":       "3",
		"PWAUDIT_ENTROPY_THRESHOLD": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			if _, err := NewLoader().Load(""); err == nil {
				t.Fatalf("expected validation error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadEnsureCoverageNeedsLength(t *testing.T) {
	isolate(t)
	t.Setenv("PWAUDIT_GENERATOR_ENSURE_COVERAGE", "true")
	t.Setenv("PWAUDIT_GENERATOR_LENGTH", "3")
	if _, err := NewLoader().Load(""); err == nil {
		t.Fatalf("expected error when coverage cannot be met")
	}
}

func TestEntropyPolicyUsesConfiguredMinLength(t *testing.T) {
	isolate(t)
	t.Setenv("PWAUDIT_LENGTH_MIN", "8")
	t.Setenv("PWAUDIT_LENGTH_GOOD", "12")

	cfg, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, ok := cfg.StrengthPolicy().(strength.EntropyPolicy)
	if !ok {
		t.Fatalf("expected entropy policy, got %T", cfg.StrengthPolicy())
	}
	if p.MinLength != 8 {
		t.Fatalf("expected min length 8, got %d", p.MinLength)
	}
	if got := p.LengthAdvice(7, 20); got != "Password is too short." {
		t.Fatalf("expected too-short advice below configured minimum, got %q", got)
	}
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{
		"":          ',',
		"comma":     ',',
		"semicolon": ';',
		"tab":       '\t',
		"|":         '|',
	}
	for in, want := range cases {
		got, err := parseDelimiter(in)
		if err != nil || got != want {
			t.Fatalf("parseDelimiter(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := parseDelimiter(";;"); err == nil {
		t.Fatalf("expected error for multi-character delimiter")
	}
}
