/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/numfix/internal/config"
	"github.com/valpere/numfix/internal/fixer"
	"github.com/valpere/numfix/internal/lemma"
	"github.com/valpere/numfix/internal/store"
	"github.com/valpere/numfix/internal/units"
	"github.com/valpere/numfix/internal/validator"
)

// loadConfig merges the config file, environment and the flags of cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if dir := filepath.Dir(cfg.DB); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := store.New(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// openCache opens the store for rate caching, warning instead of failing
// when it is unavailable.
func openCache(cfg *config.Config) *store.Store {
	db, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rate cache disabled: %v\n", err)
		return nil
	}
	return db
}

// buildFixer wires the registry, rate provider, lemmatizer and language guard.
// db may be nil.
func buildFixer(cfg *config.Config, db *store.Store) (*fixer.Fixer, error) {
	fc, err := cfg.FixerConfig()
	if err != nil {
		return nil, err
	}

	reg, err := units.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build unit registry: %w", err)
	}

	provider, err := rateProvider(cfg, db)
	if err != nil {
		return nil, err
	}

	opts := []fixer.Option{
		fixer.WithLemmatizer(lemma.NewUDPipe(cfg.Lemmatizer.URL, cfg.Lemmatizer.Timeout)),
	}
	if fc.CheckLanguages {
		opts = append(opts, fixer.WithLanguageValidator(validator.New()))
	}

	f, err := fixer.New(fc, reg, provider, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build fixer: %w", err)
	}
	return f, nil
}

func rateProvider(cfg *config.Config, db *store.Store) (units.RateProvider, error) {
	// A nil *store.Store must not reach the provider as a non-nil Cache.
	if db == nil {
		return cfg.RateProvider(nil)
	}
	return cfg.RateProvider(db)
}

func joinMarks(marks []fixer.Mark) string {
	if len(marks) == 0 {
		return "-"
	}
	ss := make([]string, len(marks))
	for i, m := range marks {
		ss[i] = string(m)
	}
	return strings.Join(ss, ", ")
}

// readInput reads path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
