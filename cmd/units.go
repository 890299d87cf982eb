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
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/replacer"
	"github.com/valpere/numfix/internal/units"
)

var (
	unitsLang     string
	unitsCategory string
	convertTo     []string
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the unit catalogue",
	Long: `List every unit category with its systems and the forms recognised in each
language.

Example:
  numfix units --lang cs
  numfix units --category MILE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := units.New()
		if err != nil {
			return fmt.Errorf("failed to build unit registry: %w", err)
		}

		languages := lang.Supported()
		if unitsLang != "" {
			l, err := lang.Lookup(unitsLang)
			if err != nil {
				return err
			}
			languages = []*lang.Language{l}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tBASE\tSYSTEMS\tLANG\tFORMS")
		for _, c := range reg.Categories() {
			if unitsCategory != "" && !strings.EqualFold(string(c.ID), unitsCategory) {
				continue
			}
			base := "-"
			if !c.IsBase() {
				base = fmt.Sprintf("%s ×%g", c.Base, c.BaseCoefficient)
			}
			systems := make([]string, len(c.Systems))
			for i, s := range c.Systems {
				systems[i] = string(s)
			}
			for _, l := range languages {
				forms := reg.Units(l, c)
				if len(forms) == 0 {
					continue
				}
				words := make([]string, len(forms))
				for i, u := range forms {
					words[i] = u.Word
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					c.ID, base, strings.Join(systems, ","), l.Code, strings.Join(words, ", "))
			}
		}
		return w.Flush()
	},
}

var unitsConvertCmd = &cobra.Command{
	Use:   "convert <number> <unit>",
	Short: "Recalculate a quantity into other unit systems",
	Long: `Convert a quantity the way recalculating mode does: into the target systems,
in the most readable category, rounded to the precision of the input.

Example:
  numfix units convert 5000 m --to IMPERIAL --lang en
  numfix units convert "2,5" kg --to US_CUSTOMARY --lang cs
  numfix units convert 100 USD --to CZK`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		code := unitsLang
		if code == "" {
			code = cfg.TargetLang
		}
		l, err := lang.Lookup(code)
		if err != nil {
			return err
		}

		n, err := l.ParseNumber(args[0])
		if err != nil {
			return err
		}

		reg, err := units.New()
		if err != nil {
			return fmt.Errorf("failed to build unit registry: %w", err)
		}
		unit := reg.UnitByWord(args[1], l)
		if unit == nil {
			return fmt.Errorf("unknown %s unit %q", l.Code, args[1])
		}

		names := convertTo
		if len(names) == 0 {
			names = cfg.TargetUnits
		}
		var systems units.Systems
		for _, name := range names {
			s, err := units.ParseSystem(name)
			if err != nil {
				return err
			}
			systems = append(systems, s)
		}

		db := openCache(cfg)
		if db != nil {
			defer db.Close()
		}
		provider, err := rateProvider(cfg, db)
		if err != nil {
			return err
		}

		conv := units.NewConverter(reg, provider)
		v, target, err := conv.ConvertNumber(context.Background(), l, systems, n, unit, nil, units.Query{})
		if err != nil {
			return fmt.Errorf("failed to convert %s %s: %w", args[0], args[1], err)
		}

		fmt.Printf("%s %s = %s %s\n", l.FormatNumber(n), unit.Word, l.FormatNumber(replacer.Round(n, v)), target.Word)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unitsCmd)

	unitsCmd.PersistentFlags().StringVarP(&unitsLang, "lang", "l", "", "Language of the unit forms (default all; target language for convert)")
	unitsCmd.Flags().StringVar(&unitsCategory, "category", "", "Only list this category")

	unitsConvertCmd.Flags().StringSliceVar(&convertTo, "to", nil, "Target unit systems (default from config)")
	unitsCmd.AddCommand(unitsConvertCmd)
}
