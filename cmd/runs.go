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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/numfix/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded batch runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batch runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, db *store.Store) error {
			runs, err := db.ListRuns(ctx)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tLANGS\tMODE\tPAIRS\tCHANGED\tFAILED\tINPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Status,
					r.SourceLang, r.TargetLang, r.Mode,
					r.Pairs, r.Changed, r.Failed, r.InputFile)
			}
			return w.Flush()
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its mark counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, db *store.Store) error {
			r, err := db.GetRun(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}

			fmt.Printf("Run:       %s\n", r.ID)
			fmt.Printf("Created:   %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Status:    %s\n", r.Status)
			fmt.Printf("Languages: %s -> %s\n", r.SourceLang, r.TargetLang)
			fmt.Printf("Mode:      %s\n", r.Mode)
			fmt.Printf("Input:     %s\n", r.InputFile)
			fmt.Printf("Output:    %s\n", r.OutputFile)
			fmt.Printf("Pairs:     %d (changed %d, failed %d)\n", r.Pairs, r.Changed, r.Failed)

			if len(r.Marks) == 0 {
				return nil
			}
			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MARK\tCOUNT")
			for _, m := range store.SortedMarks(r.Marks) {
				fmt.Fprintf(w, "%s\t%d\n", m, r.Marks[m])
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}
