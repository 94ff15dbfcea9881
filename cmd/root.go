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
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "submend",
	Short: "Repair and translate SRT subtitles",
	Long: `submend repairs subtitle cues that were split mid-sentence and translates
them through a remote LLM translation service.

The merge pass inspects the grammar at each cue boundary (dangling
prepositions, missing predicates, split phrases) and recombines cues that
form one broken sentence. The translation pass then sends each repaired cue
to a chat-completions endpoint with rate-limit-aware retry.

Use "submend translate --help" for the full pipeline, or "submend merge"
to repair boundaries without translating.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig wires environment variables under the SUBMEND_ prefix
// (SUBMEND_API_KEY, SUBMEND_MODEL, …) as fallbacks for unset flags.
func initConfig() {
	viper.SetEnvPrefix("submend")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
