package merge

import (
	"errors"
	"testing"
	"time"

	"submend/internal/annotate"
	"submend/internal/subtitle"
)

// fakeAnnotator returns canned token sequences keyed by exact text, so every
// boundary decision in a test is fully determined by the test itself.
type fakeAnnotator struct {
	tokens map[string][]annotate.Token
}

func (f *fakeAnnotator) Annotate(text string) ([]annotate.Token, error) {
	return f.tokens[text], nil
}

func tok(text, pos, tag, dep string, head, index int) annotate.Token {
	return annotate.Token{Text: text, POS: pos, Tag: tag, Dep: dep, Head: head, Index: index}
}

// completeSentence builds tokens for a rooted subject-verb-object clause so
// that no combine rule fires on it.
func completeSentence(words ...string) []annotate.Token {
	tokens := []annotate.Token{
		tok(words[0], annotate.POSPronoun, "PRP", "nsubj", 1, 0),
		tok(words[1], annotate.POSVerb, "VBD", annotate.DepRoot, 1, 1),
	}
	for i, w := range words[2:] {
		tokens = append(tokens, tok(w, annotate.POSNoun, "NN", annotate.DepDirectObject, 1, i+2))
	}
	return tokens
}

func cue(index int, start, end time.Duration, text string) subtitle.Cue {
	return subtitle.Cue{Index: index, Start: start, End: end, Text: text}
}

func ruleByName(t *testing.T, rules []Rule, name string) Rule {
	t.Helper()
	for _, r := range rules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no rule named %q", name)
	return Rule{}
}

func TestCombine_DeterminerBoundary(t *testing.T) {
	ann := &fakeAnnotator{tokens: map[string][]annotate.Token{
		"...with the": {
			tok("...", annotate.POSPunct, ".", "punct", 1, 0),
			tok("with", annotate.POSAdposition, "IN", annotate.DepPrep, 1, 1),
			tok("the", annotate.POSDeterminer, "DT", annotate.DepDet, 1, 2),
		},
		"man who": {
			tok("man", annotate.POSNoun, "NN", annotate.DepPrepObject, 2, 0),
			tok("who", annotate.POSPronoun, "WP", "nsubj", 0, 1),
		},
	}}

	cues := []subtitle.Cue{
		cue(1, 1*time.Second, 2*time.Second, "...with the"),
		cue(2, 2*time.Second, 4*time.Second, "man who"),
	}

	out, err := Combine(cues, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 cue after merge, got %d", len(out))
	}
	if out[0].Text != "...with the man who" {
		t.Errorf("unexpected merged text: %q", out[0].Text)
	}
	if out[0].Start != 1*time.Second {
		t.Errorf("merged start should keep the first cue's start, got %v", out[0].Start)
	}
	if out[0].End != 4*time.Second {
		t.Errorf("merged end should take the second cue's end, got %v", out[0].End)
	}
	if out[0].Index != 1 {
		t.Errorf("expected index 1, got %d", out[0].Index)
	}
}

func TestCombine_EmptyAndSingleSequences(t *testing.T) {
	ann := &fakeAnnotator{tokens: map[string][]annotate.Token{}}

	out, err := Combine(nil, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d cues", len(out))
	}

	out, err = Combine([]subtitle.Cue{cue(1, 0, time.Second, "Hello.")}, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Text != "Hello." {
		t.Errorf("single cue should pass through unchanged, got %+v", out)
	}
}

func TestCombine_EmptyAnnotationNeverMerges(t *testing.T) {
	// Whitespace-only text annotates to nothing; the pair must be skipped.
	ann := &fakeAnnotator{tokens: map[string][]annotate.Token{
		"something": completeSentence("it", "was", "something"),
	}}

	cues := []subtitle.Cue{
		cue(1, 0, time.Second, "   "),
		cue(2, time.Second, 2*time.Second, "something"),
	}

	out, err := Combine(cues, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(out))
	}
}

func TestCombine_RenumbersWithoutGaps(t *testing.T) {
	ann := &fakeAnnotator{tokens: map[string][]annotate.Token{
		"going to": {
			tok("going", annotate.POSVerb, "VBG", annotate.DepRoot, 0, 0),
			tok("to", annotate.POSParticle, "TO", annotate.DepAux, 0, 1),
		},
		"the store": {
			tok("the", annotate.POSDeterminer, "DT", annotate.DepDet, 1, 0),
			tok("store", annotate.POSNoun, "NN", annotate.DepPrepObject, 1, 1),
		},
		"He left. It was done.": completeSentence("He", "left"),
		"Nobody cared.":         completeSentence("Nobody", "cared"),
	}}

	cues := []subtitle.Cue{
		cue(1, 0, 1*time.Second, "going to"),
		cue(2, 1*time.Second, 2*time.Second, "the store"),
		cue(3, 2*time.Second, 3*time.Second, "He left. It was done."),
		cue(4, 3*time.Second, 4*time.Second, "Nobody cared."),
	}

	out, err := Combine(cues, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 cues (one merge), got %d", len(out))
	}
	for i, c := range out {
		if c.Index != i+1 {
			t.Errorf("cue %d has index %d, want %d", i, c.Index, i+1)
		}
	}
}

func TestCombine_Idempotent(t *testing.T) {
	ann := &fakeAnnotator{tokens: map[string][]annotate.Token{
		"going to": {
			tok("going", annotate.POSVerb, "VBG", annotate.DepRoot, 0, 0),
			tok("to", annotate.POSParticle, "TO", annotate.DepAux, 0, 1),
		},
		"the store.": {
			tok("the", annotate.POSDeterminer, "DT", annotate.DepDet, 1, 0),
			tok("store", annotate.POSNoun, "NN", annotate.DepPrepObject, 1, 1),
			tok(".", annotate.POSPunct, ".", "punct", 1, 2),
		},
		// The merged sentence is rooted and terminated: no rule fires.
		"going to the store.": {
			tok("going", annotate.POSVerb, "VBG", annotate.DepRoot, 0, 0),
			tok("to", annotate.POSParticle, "TO", annotate.DepAux, 0, 1),
			tok("the", annotate.POSDeterminer, "DT", annotate.DepDet, 3, 2),
			tok("store", annotate.POSNoun, "NN", annotate.DepDirectObject, 0, 3),
			tok(".", annotate.POSPunct, ".", "punct", 0, 4),
		},
		"I agreed.": completeSentence("I", "agreed"),
	}}

	cues := []subtitle.Cue{
		cue(1, 0, 1*time.Second, "going to"),
		cue(2, 1*time.Second, 2*time.Second, "the store."),
		cue(3, 2*time.Second, 3*time.Second, "I agreed."),
	}

	once, err := Combine(cues, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(once) != 2 {
		t.Fatalf("expected 2 cues after first pass, got %d", len(once))
	}

	twice, err := Combine(once, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass should be a no-op: %d -> %d cues", len(once), len(twice))
	}
}

func TestCombine_AnnotatorErrorPropagates(t *testing.T) {
	ann := &errAnnotator{}
	cues := []subtitle.Cue{
		cue(1, 0, time.Second, "one"),
		cue(2, time.Second, 2*time.Second, "two"),
	}
	if _, err := Combine(cues, ann); err == nil {
		t.Error("expected annotator error to propagate")
	}
}

type errAnnotator struct{}

func (e *errAnnotator) Annotate(string) ([]annotate.Token, error) {
	return nil, errors.New("annotator unavailable")
}
