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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	cfgFile string
	verbose bool

	sourceLang     string
	targetLang     string
	mode           string
	targetUnits    []string
	tolerance      float64
	approxTol      float64
	dialect        string
	tools          []string
	checkLanguages bool
	lemmatizerURL  string
	ratesProvider  string
	dbPath         string
)

var rootCmd = &cobra.Command{
	Use:   "numfix",
	Short: "Post-editor for numbers and units in machine translations",
	Long: `A CLI application that compares a Czech or English source sentence with its
machine translation and repairs mistranslated numbers and units of measurement.

In fixing mode only mistranslations are corrected. In recalculating mode correct
quantities are also converted into the configured target unit systems.

Settings are read from numfix.yaml, NUMFIX_* environment variables and flags,
in increasing priority. Use "numfix config init" to write a template.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./numfix.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Print per-pair marks")

	pf.StringVarP(&sourceLang, "source", "s", "cs", "Source language code")
	pf.StringVarP(&targetLang, "target", "t", "en", "Target language code")
	pf.StringVarP(&mode, "mode", "m", "fixing", "Mode: fixing or recalculating")
	pf.StringSliceVar(&targetUnits, "units", []string{"SI"}, "Target unit systems (comma-separated)")
	pf.Float64Var(&tolerance, "tolerance", 0.01, "Base tolerance as a fraction of the source quantity")
	pf.Float64Var(&approxTol, "approx-tolerance", 0.1, "Tolerance after an approximation adverb")
	pf.StringVar(&dialect, "dialect", "", "English dialect to unify to: BrE or AmE")
	pf.StringSliceVar(&tools, "tools", []string{"SEPARATORS", "UNITS"}, "Fixing tools in order")
	pf.BoolVar(&checkLanguages, "check-languages", false, "Skip pairs whose detected languages do not match")
	pf.StringVar(&lemmatizerURL, "lemmatizer-url", "", "UDPipe REST endpoint")
	pf.StringVar(&ratesProvider, "rates", "cnb", "Exchange rate provider: cnb or static")
	pf.StringVar(&dbPath, "db", "./data/numfix.db", "Database path for rates, fix memory and runs")
}
