// Package merge recombines adjacent subtitle cues that a captioning source
// split in the middle of a grammatical unit. The decision is a checklist of
// named heuristics over the last token of one cue and the first token of the
// next: combine rules vote for a merge, veto rules override them, and a pair
// is merged only when at least one combine rule fires and no veto does.
package merge

import (
	"fmt"
	"strings"

	"submend/internal/annotate"
	"submend/internal/subtitle"
)

// Decide reports whether the pair should be merged. Exposed separately from
// Combine so individual boundaries can be inspected.
func Decide(p Pair) bool {
	return len(Triggered(p)) > 0 && len(Vetoed(p)) == 0
}

// Triggered returns the names of the combine rules that fire for the pair.
func Triggered(p Pair) []string {
	return matching(CombineRules, p)
}

// Vetoed returns the names of the veto rules that fire for the pair.
func Vetoed(p Pair) []string {
	return matching(VetoRules, p)
}

func matching(rules []Rule, p Pair) []string {
	var names []string
	for _, r := range rules {
		if r.Applies(p) {
			names = append(names, r.Name)
		}
	}
	return names
}

// Combine walks the cue sequence with a single forward cursor and collapses
// pairs the rules vote to merge: the absorbing cue keeps its start time,
// takes the absorbed cue's end time, and the two texts are joined with one
// space. Output indices are renumbered from 1. Cues whose annotation is
// empty never merge forward; the last cue never looks ahead.
func Combine(cues []subtitle.Cue, ann annotate.Annotator) ([]subtitle.Cue, error) {
	out := make([]subtitle.Cue, 0, len(cues))

	for i := 0; i < len(cues); i++ {
		current := cues[i]
		current.Text = strings.TrimSpace(current.Text)

		if i+1 < len(cues) {
			nextText := strings.TrimSpace(cues[i+1].Text)

			curTokens, err := ann.Annotate(current.Text)
			if err != nil {
				return nil, fmt.Errorf("annotate cue %d: %w", cues[i].Index, err)
			}
			nextTokens, err := ann.Annotate(nextText)
			if err != nil {
				return nil, fmt.Errorf("annotate cue %d: %w", cues[i+1].Index, err)
			}

			if len(curTokens) > 0 && len(nextTokens) > 0 {
				pair := Pair{
					CurrentText: current.Text,
					NextText:    nextText,
					Current:     curTokens,
					Next:        nextTokens,
				}
				if Decide(pair) {
					current.Text = current.Text + " " + nextText
					current.End = cues[i+1].End
					i++ // skip the absorbed cue
				}
			}
		}

		out = append(out, current)
	}

	subtitle.Renumber(out)
	return out, nil
}
