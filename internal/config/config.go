// Package config loads numfix settings from a YAML file, NUMFIX_* environment
// variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valpere/numfix/internal/fixer"
	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/lemma"
	"github.com/valpere/numfix/internal/rates"
	"github.com/valpere/numfix/internal/translator"
	"github.com/valpere/numfix/internal/units"
)

const EnvPrefix = "NUMFIX"

// DefaultFile is looked up in the working directory and in the user config
// directory when no path is given.
const DefaultFile = "numfix.yaml"

var ErrInvalid = errors.New("invalid configuration")

type LemmatizerConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type RatesConfig struct {
	// Provider is "cnb" or "static".
	Provider string             `mapstructure:"provider" yaml:"provider"`
	URL      string             `mapstructure:"url" yaml:"url"`
	Rates    map[string]float64 `mapstructure:"rates" yaml:"rates"`
}

type TranslationConfig struct {
	Service string `mapstructure:"service" yaml:"service"`

	translator.ServiceConfig `mapstructure:",squash" yaml:",inline"`
}

type Config struct {
	SourceLang             string   `mapstructure:"source_lang" yaml:"source_lang"`
	TargetLang             string   `mapstructure:"target_lang" yaml:"target_lang"`
	Mode                   string   `mapstructure:"mode" yaml:"mode"`
	TargetUnits            []string `mapstructure:"target_units" yaml:"target_units"`
	BaseTolerance          float64  `mapstructure:"base_tolerance" yaml:"base_tolerance"`
	ApproximatelyTolerance float64  `mapstructure:"approximately_tolerance" yaml:"approximately_tolerance"`
	Dialect                string   `mapstructure:"dialect" yaml:"dialect"`
	Tools                  []string `mapstructure:"tools" yaml:"tools"`
	CheckLanguages         bool     `mapstructure:"check_languages" yaml:"check_languages"`

	Lemmatizer    LemmatizerConfig  `mapstructure:"lemmatizer" yaml:"lemmatizer"`
	ExchangeRates RatesConfig       `mapstructure:"exchange_rates" yaml:"exchange_rates"`
	Translation   TranslationConfig `mapstructure:"translation" yaml:"translation"`

	DB      string        `mapstructure:"db" yaml:"db"`
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

func Defaults() *Config {
	return &Config{
		SourceLang:             "cs",
		TargetLang:             "en",
		Mode:                   string(fixer.ModeFixing),
		TargetUnits:            []string{string(units.SystemSI)},
		BaseTolerance:          0.01,
		ApproximatelyTolerance: 0.1,
		Tools:                  []string{string(fixer.ToolSeparators), string(fixer.ToolUnits)},
		Lemmatizer: LemmatizerConfig{
			URL:     lemma.DefaultURL,
			Timeout: 30 * time.Second,
		},
		ExchangeRates: RatesConfig{
			Provider: "cnb",
			URL:      rates.DefaultCNBURL,
			Rates:    map[string]float64{},
		},
		Translation: TranslationConfig{
			Service:       "mymemory",
			ServiceConfig: translator.ServiceConfig{Timeout: 30 * time.Second},
		},
		DB:      "./data/numfix.db",
		Workers: 4,
		Timeout: 60 * time.Second,
	}
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"source":           "source_lang",
	"target":           "target_lang",
	"mode":             "mode",
	"units":            "target_units",
	"tolerance":        "base_tolerance",
	"approx-tolerance": "approximately_tolerance",
	"dialect":          "dialect",
	"tools":            "tools",
	"check-languages":  "check_languages",
	"lemmatizer-url":   "lemmatizer.url",
	"rates":            "exchange_rates.provider",
	"service":          "translation.service",
	"credentials":      "translation.credentials",
	"email":            "translation.email",
	"db":               "db",
	"workers":          "workers",
	"timeout":          "timeout",
}

// Load reads path (or the default file when path is empty and one exists),
// then applies NUMFIX_* variables and any changed flags from flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "numfix"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("source_lang", d.SourceLang)
	v.SetDefault("target_lang", d.TargetLang)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("target_units", d.TargetUnits)
	v.SetDefault("base_tolerance", d.BaseTolerance)
	v.SetDefault("approximately_tolerance", d.ApproximatelyTolerance)
	v.SetDefault("dialect", d.Dialect)
	v.SetDefault("tools", d.Tools)
	v.SetDefault("check_languages", d.CheckLanguages)
	v.SetDefault("lemmatizer.url", d.Lemmatizer.URL)
	v.SetDefault("lemmatizer.timeout", d.Lemmatizer.Timeout)
	v.SetDefault("exchange_rates.provider", d.ExchangeRates.Provider)
	v.SetDefault("exchange_rates.url", d.ExchangeRates.URL)
	v.SetDefault("exchange_rates.rates", d.ExchangeRates.Rates)
	v.SetDefault("translation.service", d.Translation.Service)
	v.SetDefault("translation.credentials", d.Translation.Credentials)
	v.SetDefault("translation.email", d.Translation.Email)
	v.SetDefault("translation.base_url", d.Translation.BaseURL)
	v.SetDefault("translation.timeout", d.Translation.Timeout)
	v.SetDefault("db", d.DB)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("timeout", d.Timeout)
}

// Validate checks every key; the fixer settings are checked by building them.
func (c *Config) Validate() error {
	if _, err := c.FixerConfig(); err != nil {
		return err
	}
	switch c.ExchangeRates.Provider {
	case "cnb":
	case "static":
		if err := rates.Table(upper(c.ExchangeRates.Rates)).Validate(); err != nil {
			return fmt.Errorf("%w: exchange_rates.rates: %v", ErrInvalid, err)
		}
	default:
		return fmt.Errorf("%w: unknown exchange rate provider %q", ErrInvalid, c.ExchangeRates.Provider)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalid)
	}
	if c.Timeout < 0 || c.Lemmatizer.Timeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalid)
	}
	return nil
}

// FixerConfig converts the file settings into fixer settings.
func (c *Config) FixerConfig() (fixer.Config, error) {
	src, err := lang.Lookup(c.SourceLang)
	if err != nil {
		return fixer.Config{}, fmt.Errorf("%w: source_lang: %v", ErrInvalid, err)
	}
	trg, err := lang.Lookup(c.TargetLang)
	if err != nil {
		return fixer.Config{}, fmt.Errorf("%w: target_lang: %v", ErrInvalid, err)
	}
	mode, err := fixer.ParseMode(c.Mode)
	if err != nil {
		return fixer.Config{}, err
	}
	dialect, err := units.ParseDialect(c.Dialect)
	if err != nil {
		return fixer.Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var systems units.Systems
	for _, name := range c.TargetUnits {
		s, err := units.ParseSystem(name)
		if err != nil {
			return fixer.Config{}, fmt.Errorf("%w: target_units: %v", ErrInvalid, err)
		}
		systems = append(systems, s)
	}

	var tools []fixer.ToolName
	for _, name := range c.Tools {
		t, err := fixer.ParseTool(name)
		if err != nil {
			return fixer.Config{}, err
		}
		tools = append(tools, t)
	}

	fc := fixer.Config{
		Source:                 src,
		Target:                 trg,
		Mode:                   mode,
		TargetSystems:          systems,
		BaseTolerance:          c.BaseTolerance,
		ApproximatelyTolerance: c.ApproximatelyTolerance,
		Dialect:                dialect,
		Tools:                  tools,
		CheckLanguages:         c.CheckLanguages,
	}
	if err := fc.Validate(); err != nil {
		return fixer.Config{}, err
	}
	return fc, nil
}

// RateProvider builds the configured exchange-rate source; cache may be nil.
func (c *Config) RateProvider(cache rates.Cache) (units.RateProvider, error) {
	switch c.ExchangeRates.Provider {
	case "static":
		return rates.NewStatic(c.ExchangeRates.Rates)
	case "cnb":
		return rates.NewCNB(c.ExchangeRates.URL, cache), nil
	}
	return nil, fmt.Errorf("%w: unknown exchange rate provider %q", ErrInvalid, c.ExchangeRates.Provider)
}

// YAML renders the configuration in file form.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// WriteTemplate writes the default configuration to path, refusing to
// overwrite an existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	data, err := Defaults().YAML()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func upper(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToUpper(k)] = v
	}
	return out
}
