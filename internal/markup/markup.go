// Package markup protects subtitle styling during translation by replacing
// SRT/ASS markup with numbered markers ([PH0], [PH1], …) that the model is
// instructed to preserve, then restoring the originals afterwards.
package markup

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// SRT styling tags: <i>, </b>, <font color="…">, self-closing variants.
	reStyleTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

	// ASS override codes that survive in SRT exports: {\an8}, {\i1}, …
	reOverride = regexp.MustCompile(`\{\\[^}]*\}`)

	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces styling markup with [PHn] markers in order of appearance
// and returns the modified text plus the captured originals for Restore.
func Protect(text string) (string, []string) {
	var markers []string

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(markers))
		markers = append(markers, match)
		return id
	}

	text = reOverride.ReplaceAllStringFunc(text, replace)
	text = reStyleTag.ReplaceAllStringFunc(text, replace)
	return text, markers
}

// Restore substitutes [PHn] markers back with the originals captured by
// Protect. Markers the model dropped are simply gone; unknown indices are
// left in place.
func Restore(text string, markers []string) string {
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// InstructionHint is appended to the system prompt when a cue contains
// protected markup.
func InstructionHint() string {
	return "Preserve all [PHn] markers exactly as they appear. Do not translate, move, or remove them."
}

// Missing returns the indices of markers absent from the translated text.
func Missing(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
