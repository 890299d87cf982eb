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
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/valpere/numfix/internal/rates"
)

var (
	ratesDate  string
	ratesCodes []string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the exchange rates used for currency conversion",
	Long: `Print the CZK value of one unit of every currency in the configured rate
table. With the cnb provider the daily fixing of the Czech National Bank is
downloaded once per day and cached in the database.

Example:
  numfix rates
  numfix rates --date 31.1.2024 --codes USD,EUR,GBP`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		day := time.Now()
		if ratesDate != "" {
			if day, err = rates.ParseDay(ratesDate); err != nil {
				return err
			}
		}

		var table rates.Table
		switch cfg.ExchangeRates.Provider {
		case "static":
			static, err := rates.NewStatic(cfg.ExchangeRates.Rates)
			if err != nil {
				return err
			}
			table = static.Table()
		default:
			var cnb *rates.CNB
			if db := openCache(cfg); db != nil {
				defer db.Close()
				cnb = rates.NewCNB(cfg.ExchangeRates.URL, db)
			} else {
				cnb = rates.NewCNB(cfg.ExchangeRates.URL, nil)
			}
			table, err = cnb.Table(context.Background(), day)
			if err != nil {
				return fmt.Errorf("failed to get exchange rates: %w", err)
			}
		}

		codes := table.Codes()
		if len(ratesCodes) > 0 {
			codes = nil
			for _, c := range ratesCodes {
				c = strings.ToUpper(strings.TrimSpace(c))
				if _, err := table.Value(c); err != nil {
					return err
				}
				codes = append(codes, c)
			}
		}

		p := message.NewPrinter(language.Czech)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tSYMBOL\tCZK")
		for _, code := range codes {
			symbol := code
			if unit, err := currency.ParseISO(code); err == nil {
				symbol = p.Sprint(currency.Symbol(unit))
			}
			v, _ := table.Value(code)
			fmt.Fprintf(w, "%s\t%s\t%s\n", code, symbol, p.Sprintf("%.4f", v))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().StringVar(&ratesDate, "date", "", "Day of the rate table, e.g. 2024-01-31 or 31.1.2024 (default today)")
	ratesCmd.Flags().StringSliceVar(&ratesCodes, "codes", nil, "Only show these currency codes")
}
