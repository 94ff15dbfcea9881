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

	"submend/internal/annotate"
	"submend/internal/translator"
)

// defaultSystemPrompt is the stock instruction set for the chat backend:
// English source, Traditional Chinese subtitles. Override with --prompt or
// --prompt-file.
const defaultSystemPrompt = `You are a professional subtitle translator.
Follow these translation rules:
1. Translate from English to Traditional Chinese
2. Keep the translation natural, conversational and fluent
3. Maintain the original tone, style and emotional expression
4. Keep informal language informal, using common daily expressions
5. Preserve any special terms or proper nouns
6. Make sure the translation length is suitable for subtitles
7. Consider the context and relationship between characters
8. Adapt cultural references appropriately
9. Use appropriate Chinese spoken language patterns
10. Don't translate word-by-word, focus on conveying the meaning
11. Don't include the original English text
12. Don't add any explanations or notes

For dialogue:
- Use natural conversation patterns
- Match the speaker's personality and speaking style
- Consider the emotional context
- Use appropriate Chinese colloquialisms
- Maintain character relationships in the choice of words

Just provide the direct Chinese translation.`

// buildService constructs the translation backend selected by --service.
func buildService(name, apiKey, baseURL string) (translator.TranslationService, error) {
	switch name {
	case "chat":
		return translator.NewChatService(apiKey, baseURL), nil
	case "google":
		return translator.NewGoogleService(), nil
	default:
		return nil, fmt.Errorf("unknown service: %s (want chat or google)", name)
	}
}

// buildAnnotator constructs the linguistic annotator selected by --annotator.
func buildAnnotator(name, spacyURL string) (annotate.Annotator, error) {
	switch name {
	case "prose":
		return annotate.NewProseAnnotator(), nil
	case "spacy":
		return annotate.NewSpacyAnnotator(spacyURL), nil
	default:
		return nil, fmt.Errorf("unknown annotator: %s (want prose or spacy)", name)
	}
}
