// Package subtitle implements the SRT cue model and on-disk codec.
//
// An SRT file is a sequence of blocks separated by blank lines. Each block
// carries an index line, a timing line ("start --> end"), and one or more
// text lines. Multi-line cue text is joined with single spaces on read and
// written back as one line.
package subtitle

import "time"

// Cue is one subtitle entry.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Renumber reassigns cue indices as consecutive integers starting at 1.
func Renumber(cues []Cue) {
	for i := range cues {
		cues[i].Index = i + 1
	}
}
