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
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/numfix/internal/chunker"
	"github.com/valpere/numfix/internal/fixer"
	"github.com/valpere/numfix/internal/translator"
)

// maxChunkChars stays under the MyMemory limit of 500 bytes per query for
// mostly-ASCII text.
const maxChunkChars = 450

var (
	translateInput string
	service        string
	credentials    string
	mymemoryEmail  string
	rawOnly        bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Machine-translate a sentence and fix its numbers and units",
	Long: `Split the source text into sentences, translate each with a machine
translation service and run the fixer on every sentence pair.

Available services:
  - google      Google Cloud Translate (requires credentials)
  - mymemory    MyMemory (free, 5000 chars/day)

Example:
  numfix translate --service mymemory "Teplota dosáhla 30 °C."
  numfix translate -i sentence.txt -s cs -t en -m recalculating --units IMPERIAL,F`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		switch {
		case len(args) == 1:
			text = args[0]
		case translateInput != "":
			data, err := readInput(translateInput)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(data)
		default:
			return fmt.Errorf("provide the text as an argument or with --input")
		}
		text = strings.TrimSpace(text)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		svc, err := translator.New(cfg.Translation.Service, cfg.Translation.ServiceConfig)
		if err != nil {
			return err
		}

		var f *fixer.Fixer
		if !rawOnly {
			db := openCache(cfg)
			if db != nil {
				defer db.Close()
			}
			if f, err = buildFixer(cfg, db); err != nil {
				return err
			}
		}

		ctx := context.Background()
		sentences := chunker.Chunk(text, maxChunkChars)
		if len(sentences) == 0 {
			return fmt.Errorf("nothing to translate")
		}
		var failed int
		for i, sentence := range sentences {
			result, err := svc.Translate(ctx, translator.TranslateRequest{
				Text:       sentence,
				SourceLang: cfg.SourceLang,
				TargetLang: cfg.TargetLang,
			})
			if err != nil {
				return fmt.Errorf("%s translation of sentence %d failed: %w", svc.Name(), i+1, err)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "Translated sentence %d with %s in %s (confidence %.2f)\n",
					i+1, result.ServiceName, result.Latency.Round(time.Millisecond), result.Confidence)
			}

			if f == nil {
				fmt.Println(result.TranslatedText)
				continue
			}

			fixed, err := f.Fix(ctx, sentence, result.TranslatedText)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "Sentence %d: fix failed: %v\n", i+1, err)
			}
			if fixed.Changed {
				fmt.Fprintf(os.Stderr, "Sentence %d: machine translation was: %s\n", i+1, result.TranslatedText)
			}
			fmt.Println(fixed.Text)
			if len(sentences) == 1 || verbose {
				fmt.Fprintf(os.Stderr, "Marks: %s\n", joinMarks(fixed.Marks))
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d sentences could not be fixed", failed, len(sentences))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "File with the text to translate, - for stdin")
	translateCmd.Flags().StringVar(&service, "service", "mymemory", "Translation service: google or mymemory")
	translateCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials")
	translateCmd.Flags().StringVar(&mymemoryEmail, "email", "", "MyMemory email (for higher limits)")
	translateCmd.Flags().BoolVar(&rawOnly, "raw", false, "Print the machine translation without fixing it")
}
