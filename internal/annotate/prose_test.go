package annotate

import "testing"

func TestCoarsePOS(t *testing.T) {
	tests := []struct {
		surface string
		tag     string
		want    string
	}{
		{"the", "DT", POSDeterminer},
		{"with", "IN", POSAdposition},
		{"up", "RP", POSParticle},
		{"to", "TO", POSParticle},
		{"and", "CC", POSCoordConj},
		{"running", "VBG", POSVerb},
		{"walked", "VBD", POSVerb},
		{"was", "VBD", POSAux},
		{"could", "MD", POSAux},
		{"house", "NN", POSNoun},
		{"London", "NNP", POSProperNoun},
		{"she", "PRP", POSPronoun},
		{"quick", "JJ", POSAdjective},
		{"слово", "FW", POSOther},
		{".", ".", POSPunct},
	}
	for _, tt := range tests {
		if got := coarsePOS(tt.surface, tt.tag); got != tt.want {
			t.Errorf("coarsePOS(%q, %q) = %q, want %q", tt.surface, tt.tag, got, tt.want)
		}
	}
}

func mk(text, pos, tag string, i int) Token {
	return Token{Text: text, POS: pos, Tag: tag, Dep: DepUnclassified, Head: i, Index: i}
}

func TestLabelDependencies_RootedClause(t *testing.T) {
	// "she sat in the garden"
	tokens := []Token{
		mk("she", POSPronoun, "PRP", 0),
		mk("sat", POSVerb, "VBD", 1),
		mk("in", POSAdposition, "IN", 2),
		mk("the", POSDeterminer, "DT", 3),
		mk("garden", POSNoun, "NN", 4),
	}
	labelDependencies(tokens)

	if tokens[1].Dep != DepRoot {
		t.Errorf("expected sat to be root, got %q", tokens[1].Dep)
	}
	if tokens[2].Dep != DepPrep || tokens[2].Head != 1 {
		t.Errorf("expected in->prep(head=1), got %q head=%d", tokens[2].Dep, tokens[2].Head)
	}
	if tokens[3].Dep != DepDet || tokens[3].Head != 4 {
		t.Errorf("expected the->det(head=4), got %q head=%d", tokens[3].Dep, tokens[3].Head)
	}
	if tokens[4].Dep != DepPrepObject || tokens[4].Head != 2 {
		t.Errorf("expected garden->pobj(head=2), got %q head=%d", tokens[4].Dep, tokens[4].Head)
	}
}

func TestLabelDependencies_VerblessFragmentHasNoRoot(t *testing.T) {
	// "with the" (the kind of fragment a broken cue ends on).
	tokens := []Token{
		mk("with", POSAdposition, "IN", 0),
		mk("the", POSDeterminer, "DT", 1),
	}
	labelDependencies(tokens)

	if HasDep(tokens, DepRoot) {
		t.Error("verbless fragment must have no root")
	}
	if tokens[0].Dep != DepPrep {
		t.Errorf("expected with->prep, got %q", tokens[0].Dep)
	}
}

func TestLabelDependencies_AuxAttachesToVerb(t *testing.T) {
	// "he had been waiting"
	tokens := []Token{
		mk("he", POSPronoun, "PRP", 0),
		mk("had", POSAux, "VBD", 1),
		mk("been", POSAux, "VBN", 2),
		mk("waiting", POSVerb, "VBG", 3),
	}
	labelDependencies(tokens)

	if tokens[3].Dep != DepRoot {
		t.Errorf("expected waiting to be root, got %q", tokens[3].Dep)
	}
	if tokens[1].Dep != DepAux || tokens[1].Head != 3 {
		t.Errorf("expected had->aux(head=3), got %q head=%d", tokens[1].Dep, tokens[1].Head)
	}
	if tokens[2].Dep != DepAux {
		t.Errorf("expected been->aux, got %q", tokens[2].Dep)
	}
}

func TestLabelDependencies_ObjectAndAttribute(t *testing.T) {
	// "she opened the door": dobj after a content verb.
	tokens := []Token{
		mk("she", POSPronoun, "PRP", 0),
		mk("opened", POSVerb, "VBD", 1),
		mk("the", POSDeterminer, "DT", 2),
		mk("door", POSNoun, "NN", 3),
	}
	labelDependencies(tokens)
	if tokens[3].Dep != DepDirectObject || tokens[3].Head != 1 {
		t.Errorf("expected door->dobj(head=1), got %q head=%d", tokens[3].Dep, tokens[3].Head)
	}

	// "it was a joke": attr after a copula root.
	tokens = []Token{
		mk("it", POSPronoun, "PRP", 0),
		mk("was", POSAux, "VBD", 1),
		mk("a", POSDeterminer, "DT", 2),
		mk("joke", POSNoun, "NN", 3),
	}
	labelDependencies(tokens)
	if tokens[1].Dep != DepRoot {
		t.Errorf("expected copula root, got %q", tokens[1].Dep)
	}
	if tokens[3].Dep != DepAttribute {
		t.Errorf("expected joke->attr, got %q", tokens[3].Dep)
	}
}

func TestLabelDependencies_SubordinatorIsMark(t *testing.T) {
	// "because we": clause opener with no clause body.
	tokens := []Token{
		mk("because", POSAdposition, "IN", 0),
		mk("we", POSPronoun, "PRP", 1),
	}
	labelDependencies(tokens)
	if tokens[0].Dep != DepMark {
		t.Errorf("expected because->mark, got %q", tokens[0].Dep)
	}
}

func TestProseAnnotator_EmptyText(t *testing.T) {
	a := NewProseAnnotator()
	tokens, err := a.Annotate("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens for whitespace, got %d", len(tokens))
	}
}

func TestProseAnnotator_TagsDeterminer(t *testing.T) {
	a := NewProseAnnotator()
	tokens, err := a.Annotate("I was walking with the")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
	last := tokens[len(tokens)-1]
	if last.POS != POSDeterminer {
		t.Errorf("expected trailing 'the' to be a determiner, got %q (tag %q)", last.POS, last.Tag)
	}
	for i, tok := range tokens {
		if tok.Index != i {
			t.Errorf("token %d has index %d", i, tok.Index)
		}
	}
}
