// Package annotate provides grammatical annotation of short text spans.
//
// The merge engine consumes Token sequences and never inspects raw text
// beyond simple punctuation/case predicates, so any backend that produces
// spaCy-compatible part-of-speech and dependency labels can drive it. Two
// backends are provided: an in-process tagger built on prose (the default)
// and an HTTP client for a spaCy-compatible sidecar service.
package annotate

// Coarse part-of-speech categories (Universal POS codes).
const (
	POSAdposition = "ADP"
	POSParticle   = "PART"
	POSDeterminer = "DET"
	POSCoordConj  = "CCONJ"
	POSVerb       = "VERB"
	POSAux        = "AUX"
	POSNoun       = "NOUN"
	POSProperNoun = "PROPN"
	POSPronoun    = "PRON"
	POSAdjective  = "ADJ"
	POSAdverb     = "ADV"
	POSNumeral    = "NUM"
	POSInterj     = "INTJ"
	POSPunct      = "PUNCT"
	POSOther      = "X"
)

// Fine-grained tags the merge rules care about (Penn Treebank).
const (
	TagPresentParticiple = "VBG"
	TagPastParticiple    = "VBN"
)

// Dependency relations (spaCy label set).
const (
	DepRoot         = "ROOT"
	DepMark         = "mark"
	DepPrep         = "prep"
	DepPrepObject   = "pobj"
	DepDirectObject = "dobj"
	DepAttribute    = "attr"
	DepAux          = "aux"
	DepDet          = "det"
	DepUnclassified = "dep"
)

// Token is one annotated word or punctuation unit. Head is the index of the
// governing token within the same annotation; a root token governs itself.
type Token struct {
	Text  string
	POS   string // coarse category (Universal POS)
	Tag   string // fine-grained tag (Penn Treebank)
	Dep   string // dependency relation to the head
	Head  int
	Index int // 0-based position within the annotated span
}

// Annotator produces an ordered token sequence for a text span. Annotation
// is deterministic and side-effect-free; a whitespace-only span yields an
// empty sequence.
type Annotator interface {
	Annotate(text string) ([]Token, error)
}

// HasDep reports whether any token in the sequence carries the given
// dependency relation.
func HasDep(tokens []Token, dep string) bool {
	for _, t := range tokens {
		if t.Dep == dep {
			return true
		}
	}
	return false
}
