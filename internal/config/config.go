// Package config resolves pwaudit settings from defaults, an optional YAML
// file, a .env file, PWAUDIT_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Andrei-Barwood/pwaudit/internal/format"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

const EnvPrefix = "PWAUDIT"

// Keys double as flag names where a command exposes them.
const (
	KeyPolicy           = "policy"
	KeyEntropyThreshold = "entropy.threshold"
	KeyMinLength        = "length.min"
	KeyGoodLength       = "length.good"
	KeyGenLength        = "generator.length"
	KeyEnsureCoverage   = "generator.ensure_coverage"
	KeyWorkers          = "scan.workers"
	KeyEncoding         = "scan.encoding"
	KeyColumn           = "scan.column"
	KeyDelimiter        = "scan.delimiter"
	KeyLayout           = "export.layout"
	KeyNoColor          = "no_color"
	KeyVerbose          = "verbose"
)

type Config struct {
	Policy           string
	EntropyThreshold float64
	MinLength        int
	GoodLength       int
	GenLength        int
	EnsureCoverage   bool
	Workers          int
	Encoding         string
	Column           string
	Delimiter        rune
	Layout           format.Layout
	NoColor          bool
	Verbose          bool
	// File is the config file actually read, if any.
	File string
}

type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPolicy, strength.PolicyEntropy)
	v.SetDefault(KeyEntropyThreshold, strength.DefaultEntropyThreshold)
	v.SetDefault(KeyMinLength, strength.DefaultMinLength)
	v.SetDefault(KeyGoodLength, strength.DefaultGoodLength)
	v.SetDefault(KeyGenLength, strength.DefaultTargetLength)
	v.SetDefault(KeyEnsureCoverage, false)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyEncoding, "")
	v.SetDefault(KeyColumn, "")
	v.SetDefault(KeyDelimiter, ",")
	v.SetDefault(KeyLayout, string(format.LayoutReport))
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyVerbose, false)
}

// BindFlag lets a command-line flag override the key when it was set explicitly.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads .env from the working directory, then the config file. An
// explicit path must exist; otherwise a missing file is fine.
func (l *Loader) Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("pwaudit")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "pwaudit"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Policy:           strings.ToLower(strings.TrimSpace(l.v.GetString(KeyPolicy))),
		EntropyThreshold: l.v.GetFloat64(KeyEntropyThreshold),
		MinLength:        l.v.GetInt(KeyMinLength),
		GoodLength:       l.v.GetInt(KeyGoodLength),
		GenLength:        l.v.GetInt(KeyGenLength),
		EnsureCoverage:   l.v.GetBool(KeyEnsureCoverage),
		Workers:          l.v.GetInt(KeyWorkers),
		Encoding:         strings.TrimSpace(l.v.GetString(KeyEncoding)),
		Column:           strings.TrimSpace(l.v.GetString(KeyColumn)),
		Layout:           format.Layout(strings.ToLower(strings.TrimSpace(l.v.GetString(KeyLayout)))),
		NoColor:          l.v.GetBool(KeyNoColor) || os.Getenv("NO_COLOR") != "",
		Verbose:          l.v.GetBool(KeyVerbose),
		File:             l.v.ConfigFileUsed(),
	}

	delim, err := parseDelimiter(l.v.GetString(KeyDelimiter))
	if err != nil {
		return nil, err
	}
	cfg.Delimiter = delim

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strength.PolicyByName(c.Policy); err != nil {
		return err
	}
	if c.EntropyThreshold <= 0 {
		return fmt.Errorf("%s must be > 0, got %v", KeyEntropyThreshold, c.EntropyThreshold)
	}
	if c.MinLength <= 0 || c.GoodLength <= c.MinLength {
		return fmt.Errorf("length thresholds must satisfy 0 < %s < %s, got %d and %d", KeyMinLength, KeyGoodLength, c.MinLength, c.GoodLength)
	}
	if c.GenLength <= 0 {
		return fmt.Errorf("%s must be > 0, got %d", KeyGenLength, c.GenLength)
	}
	if c.EnsureCoverage && c.GenLength < len(strength.Classes) {
		return fmt.Errorf("%s needs %s >= %d", KeyEnsureCoverage, KeyGenLength, len(strength.Classes))
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%s must be > 0, got %d", KeyWorkers, c.Workers)
	}
	switch c.Layout {
	case format.LayoutReport, format.LayoutResults:
	default:
		return fmt.Errorf("invalid %s: %s (want report|results)", KeyLayout, c.Layout)
	}
	return nil
}

// StrengthPolicy builds the configured strength policy with its thresholds.
func (c *Config) StrengthPolicy() strength.Policy {
	if c.Policy == strength.PolicyLength {
		return strength.LengthPolicy{Min: c.MinLength, Good: c.GoodLength}
	}
	return strength.EntropyPolicy{Threshold: c.EntropyThreshold, MinLength: c.MinLength}
}

func (c *Config) Evaluator() *strength.Evaluator {
	return strength.New(strength.Options{
		Policy:         c.StrengthPolicy(),
		TargetLength:   c.GenLength,
		EnsureCoverage: c.EnsureCoverage,
	})
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "comma", "":
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid %s: %q", KeyDelimiter, s)
	}
	return r, nil
}
