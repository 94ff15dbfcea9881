// Package postprocess strips common LLM artifacts from translated subtitle
// text before it is written back into a cue: exposed reasoning blocks,
// echoed instructions, and wrap-around quotes.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean returns the trimmed translation with artifacts removed.
func Clean(text string) string {
	text = removeReasoningBlocks(text)
	text = removeEchoes(text)
	text = unwrapQuotes(text)
	return strings.TrimSpace(text)
}

// reasoningBlockRe matches complete <think>-style blocks. Each tag variant
// is spelled out because RE2 has no backreferences.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// openReasoningRe catches a reasoning tag whose close was cut off.
var openReasoningRe = regexp.MustCompile(
	`(?is)(?:<think>|<thinking>|<reasoning>).*$`,
)

func removeReasoningBlocks(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = openReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// echoRes match lead-ins some models prepend even when told not to. Anchored
// to the start and requiring a colon to avoid eating legitimate dialogue.
var echoRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? (?:translated )?(?:translation|subtitle|text)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated (?:subtitle|text))\s*:`),
}

func removeEchoes(text string) string {
	for _, re := range echoRes {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// unwrapQuotes strips one matching pair of outer quotes when the whole text
// is wrapped in them. Subtitle source lines that genuinely start and end
// with ASCII double quotes are rare enough that the trade-off favors
// stripping; CJK corner brackets are left alone since they carry meaning in
// translated dialogue.
func unwrapQuotes(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '“' && last == '”') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
