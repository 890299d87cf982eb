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

	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix <source> <translation>",
	Short: "Fix the numbers and units of one sentence pair",
	Long: `Compare a source sentence with its translation and print the corrected
translation followed by the diagnostic marks.

Example:
  numfix fix "Ušel 25 km." "He walked 25 miles."
  numfix fix -m recalculating --units IMPERIAL -s cs -t en "Ušel 25 km." "He walked 25 km."`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db := openCache(cfg)
		if db != nil {
			defer db.Close()
		}

		f, err := buildFixer(cfg, db)
		if err != nil {
			return err
		}

		result, err := f.Fix(context.Background(), args[0], args[1])
		fmt.Println(result.Text)
		fmt.Printf("Marks: %s\n", joinMarks(result.Marks))
		if err != nil {
			return fmt.Errorf("fix failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
