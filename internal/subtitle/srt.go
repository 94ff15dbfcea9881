package subtitle

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse parses SRT data into cues. Blocks that are too short to carry a
// timing line are skipped; indices are renumbered 1..N so that files with
// missing or duplicated index lines still produce a well-formed sequence.
func Parse(data []byte) ([]Cue, error) {
	var cues []Cue
	for _, block := range splitBlocks(data) {
		cue, err := parseBlock(block)
		if err != nil {
			return nil, err
		}
		cues = append(cues, cue)
	}
	Renumber(cues)
	return cues, nil
}

func splitBlocks(data []byte) [][]string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(strings.TrimSpace(s), "\n\n")
	var blocks [][]string
	for _, p := range parts {
		var lines []string
		for _, l := range strings.Split(p, "\n") {
			if strings.TrimSpace(l) != "" {
				lines = append(lines, strings.TrimSpace(l))
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}
	return blocks
}

func parseBlock(lines []string) (Cue, error) {
	if len(lines) < 2 {
		return Cue{}, errors.New("srt block too short")
	}
	// Index line is informational only; some files omit or duplicate it.
	idx, _ := strconv.Atoi(lines[0])
	start, end, err := parseTimingLine(lines[1])
	if err != nil {
		return Cue{}, fmt.Errorf("parse timing: %w", err)
	}
	return Cue{
		Index: idx,
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], " "),
	}, nil
}

func parseTimingLine(line string) (time.Duration, time.Duration, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, errors.New("invalid timing separator")
	}
	start, err := parseTime(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	end, err := parseTime(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	return start, end, nil
}

// parseTime parses an SRT timestamp: HH:MM:SS,mmm
func parseTime(s string) (time.Duration, error) {
	hmsMillis := strings.Split(s, ",")
	if len(hmsMillis) != 2 {
		return 0, errors.New("missing millis")
	}
	hms := strings.Split(hmsMillis[0], ":")
	if len(hms) != 3 {
		return 0, errors.New("invalid h:m:s")
	}
	h, err := strconv.Atoi(hms[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(hms[1])
	if err != nil {
		return 0, err
	}
	sec, err := strconv.Atoi(hms[2])
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(hmsMillis[1])
	if err != nil {
		return 0, err
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

func formatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	ms := int(d / time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Format renders cues back to SRT, one blank line between blocks.
func Format(cues []Cue) []byte {
	var buf bytes.Buffer
	for i, cue := range cues {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(strconv.Itoa(cue.Index))
		buf.WriteString("\n")
		buf.WriteString(formatTime(cue.Start))
		buf.WriteString(" --> ")
		buf.WriteString(formatTime(cue.End))
		buf.WriteString("\n")
		buf.WriteString(cue.Text)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
