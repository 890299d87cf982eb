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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/numfix/internal/batch"
	"github.com/valpere/numfix/internal/fixer"
	"github.com/valpere/numfix/internal/report"
)

var (
	batchInput   string
	batchOutput  string
	batchLimit   int
	batchOffset  int
	batchReport  string
	batchChanges bool
	reportLang   string
	batchWorkers int
	batchTimeout time.Duration
	noMemory     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fix a file of tab-separated sentence pairs",
	Long: `Fix every "source<TAB>translation" line of the input concurrently and write
one fixed translation per line to the output, in input order.

Identical pairs fixed before with the same languages and mode are served from
the fix memory. Every run and its mark counts are recorded in the database.

Example:
  numfix batch -i pairs.tsv -o fixed.txt
  numfix batch -i pairs.tsv -o fixed.txt --offset 100 --limit 50 --report report.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchInput == batchOutput && batchInput != "-" {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		data, err := readInput(batchInput)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		pairs, err := batch.ReadPairs(bytes.NewReader(data), batchOffset, batchLimit)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			return fmt.Errorf("no sentence pairs in %s", batchInput)
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := buildFixer(cfg, db)
		if err != nil {
			return err
		}

		ctx := context.Background()

		runID, err := db.CreateRun(ctx, batchInput, batchOutput, cfg.SourceLang, cfg.TargetLang, cfg.Mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run %s: fixing %d pairs with %d workers\n", runID, len(pairs), cfg.Workers)

		var opts []batch.Option
		if !noMemory {
			opts = append(opts, batch.WithMemory(db))
		}
		runner := batch.New(f, batch.Config{Workers: cfg.Workers, Timeout: cfg.Timeout}, opts...)
		summary := runner.Run(ctx, pairs)

		for _, o := range summary.Outcomes {
			if o.Err != nil {
				fmt.Fprintf(os.Stderr, "Pair %d failed: %v\n", o.Index+batchOffset+1, o.Err)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "%d\t%s\n", o.Index+batchOffset+1, joinMarks(o.Result.Marks))
			}
		}
		for _, err := range summary.MemoryErrors {
			fmt.Fprintf(os.Stderr, "Fix memory: %v\n", err)
		}

		if err := writeResults(batchOutput, summary); err != nil {
			return err
		}

		if err := db.CompleteRun(ctx, runID, len(pairs), summary.Changed, summary.Failed, summary.StringMarks()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record run: %v\n", err)
		}

		if batchReport != "" {
			title := fmt.Sprintf("numfix %s, %s to %s", cfg.Mode, cfg.SourceLang, cfg.TargetLang)
			rep := report.FromSummary(title, runID, summary, batchChanges)
			rep.SetLanguage(reportLang)
			if err := rep.Write(batchReport); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Report written to %s\n", batchReport)
		}

		return printStats(summary)
	},
}

func writeResults(path string, summary *batch.Summary) error {
	if path == "-" {
		return batch.WriteResults(os.Stdout, summary.Outcomes)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := batch.WriteResults(out, summary.Outcomes); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// printStats prints the mark table to stderr so that "-o -" output stays clean.
func printStats(summary *batch.Summary) error {
	total := len(summary.Outcomes)
	w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MARK\tCOUNT\tSHARE\t")
	for _, m := range fixer.AllMarks {
		n := summary.Marks[m]
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t\n", m, n, 100*float64(n)/float64(total))
	}
	fmt.Fprintf(w, "PAIRS\t%d\t\t\n", total)
	fmt.Fprintf(w, "CHANGED\t%d\t\t\n", summary.Changed)
	fmt.Fprintf(w, "FAILED\t%d\t\t\n", summary.Failed)
	fmt.Fprintf(w, "CACHED\t%d\t\t\n", summary.Cached)
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "TSV file of source and translation pairs, - for stdin (required)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output file for fixed translations, - for stdout (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "Fix at most this many pairs (0 = all)")
	batchCmd.Flags().IntVar(&batchOffset, "offset", 0, "Skip this many pairs first")
	batchCmd.Flags().StringVar(&batchReport, "report", "", "Write a Markdown (.md) or HTML (.html) report")
	batchCmd.Flags().BoolVar(&batchChanges, "changes", false, "List every changed pair in the report")
	batchCmd.Flags().StringVar(&reportLang, "report-lang", "en", "Language of report numbers and dates: en, en-GB or cs")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 4, "Pairs fixed concurrently")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Minute, "Time limit for a single pair")
	batchCmd.Flags().BoolVar(&noMemory, "no-memory", false, "Do not read or write the fix memory")

	batchCmd.MarkFlagRequired("input")
	batchCmd.MarkFlagRequired("output")
}
