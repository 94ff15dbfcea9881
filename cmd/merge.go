/*
Copyright © 2025 The submend authors

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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"submend/internal/annotate"
	"submend/internal/merge"
	"submend/internal/subtitle"
)

var (
	mergeInput     string
	mergeOutput    string
	mergeAnnotator string
	mergeSpacyURL  string
	mergeExplain   bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Repair broken cue boundaries without translating",
	Long: `Run only the linguistic merge pass: recombine cues that were split
mid-sentence and write the repaired SRT. No network calls are made unless
the spacy annotator is selected.

With --explain, each boundary decision is printed with the names of the
rules that fired.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mergeInput == mergeOutput {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		data, err := os.ReadFile(mergeInput)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		cues, err := subtitle.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", mergeInput, err)
		}

		ann, err := buildAnnotator(mergeAnnotator, mergeSpacyURL)
		if err != nil {
			return err
		}

		if mergeExplain {
			if err := explainBoundaries(cues, ann); err != nil {
				return err
			}
		}

		merged, err := merge.Combine(cues, ann)
		if err != nil {
			return err
		}

		if dir := filepath.Dir(mergeOutput); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(mergeOutput, subtitle.Format(merged), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		fmt.Printf("Merged %d cues into %d. Saved to %s\n", len(cues), len(merged), mergeOutput)
		return nil
	},
}

// explainBoundaries prints the rule outcome for every adjacent pair in the
// input. Pairs are inspected independently of the merge walk, so a boundary
// whose left cue gets absorbed earlier may still be listed here.
func explainBoundaries(cues []subtitle.Cue, ann annotate.Annotator) error {
	for i := 0; i+1 < len(cues); i++ {
		curText := strings.TrimSpace(cues[i].Text)
		nextText := strings.TrimSpace(cues[i+1].Text)

		curTokens, err := ann.Annotate(curText)
		if err != nil {
			return fmt.Errorf("annotate cue %d: %w", cues[i].Index, err)
		}
		nextTokens, err := ann.Annotate(nextText)
		if err != nil {
			return fmt.Errorf("annotate cue %d: %w", cues[i+1].Index, err)
		}
		if len(curTokens) == 0 || len(nextTokens) == 0 {
			continue
		}

		pair := merge.Pair{
			CurrentText: curText,
			NextText:    nextText,
			Current:     curTokens,
			Next:        nextTokens,
		}
		triggered := merge.Triggered(pair)
		if len(triggered) == 0 {
			continue
		}

		verdict := "merge"
		detail := strings.Join(triggered, ", ")
		if vetoed := merge.Vetoed(pair); len(vetoed) > 0 {
			verdict = "veto"
			detail = fmt.Sprintf("%s; vetoed by %s", detail, strings.Join(vetoed, ", "))
		}
		fmt.Printf("%d+%d %s: %s\n", cues[i].Index, cues[i+1].Index, verdict, detail)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergeInput, "input", "i", "", "Input SRT file path (required)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output SRT file path (required)")
	mergeCmd.Flags().StringVar(&mergeAnnotator, "annotator", "prose", "Linguistic annotator (prose, spacy)")
	mergeCmd.Flags().StringVar(&mergeSpacyURL, "spacy-url", "", "spaCy sidecar base URL (annotator=spacy)")
	mergeCmd.Flags().BoolVar(&mergeExplain, "explain", false, "Print the rules behind each boundary decision")

	mergeCmd.MarkFlagRequired("input")
	mergeCmd.MarkFlagRequired("output")
}
