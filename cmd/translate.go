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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"submend/internal/detector"
	"submend/internal/pipeline"
	"submend/internal/store"
	"submend/internal/subtitle"
	"submend/internal/translator"
)

var (
	inputFile  string
	outputFile string
	apiKey     string
	modelName  string

	promptText  string
	promptFile  string
	temperature float64

	interDelay   float64
	maxRetries   int
	initialDelay float64

	serviceName string
	baseURL     string
	targetLang  string
	credentials string

	annotatorName string
	spacyURL      string
	noMerge       bool
	contextWords  int

	dbPath  string
	noCache bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Merge broken cues and translate an SRT file",
	Long: `Read an SRT file, recombine cues that were split mid-sentence, translate
each repaired cue through the remote service, and write the translated SRT.

Backends:
  chat    OpenAI-compatible chat completions (default; needs --api-key
          or SUBMEND_API_KEY)
  google  Google Cloud Translate (needs --target and credentials)

Cues already translated with the same model and prompt are served from the
sqlite translation memory; disable with --no-cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}
		if temperature < 0 || temperature > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0")
		}

		systemPrompt := promptText
		if promptFile != "" {
			data, err := os.ReadFile(promptFile)
			if err != nil {
				return fmt.Errorf("failed to read prompt file: %w", err)
			}
			systemPrompt = strings.TrimSpace(string(data))
		}

		if apiKey == "" {
			apiKey = viper.GetString("api-key")
		}
		if serviceName == "chat" && apiKey == "" {
			return fmt.Errorf("API key is required: use --api-key or set SUBMEND_API_KEY")
		}
		if serviceName == "google" && targetLang == "" {
			return fmt.Errorf("--target is required for the google backend")
		}

		data, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		cues, err := subtitle.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", inputFile, err)
		}

		svc, err := buildService(serviceName, apiKey, baseURL)
		if err != nil {
			return err
		}
		ann, err := buildAnnotator(annotatorName, spacyURL)
		if err != nil {
			return err
		}

		ctx := context.Background()

		var memory *store.Store
		if !noCache && dbPath != "" {
			memory, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer memory.Close()
		}

		var det *detector.Detector
		if !noMerge {
			det = detector.New()
		}

		retrier := translator.NewRetrier(svc, maxRetries,
			time.Duration(initialDelay*float64(time.Second)))

		pipe := pipeline.New(retrier, ann, memory, det, pipeline.Config{
			Service: translator.ServiceConfig{
				APIKey:      apiKey,
				Model:       modelName,
				BaseURL:     baseURL,
				Temperature: temperature,
				Credentials: credentials,
				TargetLang:  targetLang,
			},
			SystemPrompt: systemPrompt,
			Delay:        time.Duration(interDelay * float64(time.Second)),
			ContextWords: contextWords,
			SkipMerge:    noMerge,
		})

		translated, summary, err := pipe.Run(ctx, cues)
		if err != nil {
			return err
		}

		if dir := filepath.Dir(outputFile); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(outputFile, subtitle.Format(translated), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		if memory != nil {
			_ = memory.SaveRun(ctx, store.Run{
				ID:          uuid.New().String(),
				InputFile:   inputFile,
				OutputFile:  outputFile,
				Model:       modelName,
				CueCount:    summary.OutputCues,
				MergedCount: summary.Merges,
			})
		}

		fmt.Printf("Translation complete! Saved to %s\n", outputFile)
		fmt.Printf("Cues: %d in, %d out (%d merged)\n", summary.InputCues, summary.OutputCues, summary.Merges)
		if summary.CacheHits > 0 {
			fmt.Printf("Served from memory: %d\n", summary.CacheHits)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input SRT file path (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output SRT file path (required)")
	translateCmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key (or SUBMEND_API_KEY)")
	translateCmd.Flags().StringVarP(&modelName, "model", "m", "grok-beta", "Model to use")

	translateCmd.Flags().StringVarP(&promptText, "prompt", "p", defaultSystemPrompt, "Custom system prompt")
	translateCmd.Flags().StringVar(&promptFile, "prompt-file", "", "Read system prompt from file")
	translateCmd.Flags().Float64VarP(&temperature, "temperature", "t", 0.7, "Model temperature (0.0~1.0)")

	translateCmd.Flags().Float64VarP(&interDelay, "delay", "d", 1.0, "Delay between translations in seconds")
	translateCmd.Flags().IntVarP(&maxRetries, "max-retries", "r", 5, "Maximum attempts per cue")
	translateCmd.Flags().Float64Var(&initialDelay, "initial-delay", 1.0, "Initial retry delay in seconds")

	translateCmd.Flags().StringVar(&serviceName, "service", "chat", "Translation backend (chat, google)")
	translateCmd.Flags().StringVar(&baseURL, "base-url", "", "Chat completions base URL (default "+translator.DefaultChatBaseURL+")")
	translateCmd.Flags().StringVar(&targetLang, "target", "", "Target language code (google backend)")
	translateCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Google Cloud credentials file (google backend)")

	translateCmd.Flags().StringVar(&annotatorName, "annotator", "prose", "Linguistic annotator (prose, spacy)")
	translateCmd.Flags().StringVar(&spacyURL, "spacy-url", "", "spaCy sidecar base URL (annotator=spacy)")
	translateCmd.Flags().BoolVar(&noMerge, "no-merge", false, "Skip the cue merge pass")
	translateCmd.Flags().IntVar(&contextWords, "context-words", 25, "Words of preceding text sent for continuity (0 disables)")

	translateCmd.Flags().StringVar(&dbPath, "db", "./data/submend.db", "Translation memory database path")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the translation memory")

	translateCmd.MarkFlagRequired("input")
	translateCmd.MarkFlagRequired("output")
}
