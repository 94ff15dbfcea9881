package annotate

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseAnnotator tags text in-process using the prose NLP library. Prose
// supplies tokenization and Penn Treebank tags; coarse categories are mapped
// from the tags and dependency relations are assigned by a small rule-based
// labeler (no Go library performs full dependency parsing). The labels cover
// the relations the merge rules inspect: ROOT, mark, prep, pobj, dobj, attr,
// aux, det.
type ProseAnnotator struct{}

func NewProseAnnotator() *ProseAnnotator {
	return &ProseAnnotator{}
}

func (a *ProseAnnotator) Annotate(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}

	raw := doc.Tokens()
	tokens := make([]Token, 0, len(raw))
	for i, t := range raw {
		tokens = append(tokens, Token{
			Text:  t.Text,
			POS:   coarsePOS(t.Text, t.Tag),
			Tag:   t.Tag,
			Dep:   DepUnclassified,
			Head:  i,
			Index: i,
		})
	}
	labelDependencies(tokens)
	return tokens, nil
}

// auxiliaries distinguishes AUX from VERB for verb-tagged surface forms,
// mirroring the Universal POS convention.
var auxiliaries = map[string]bool{
	"am": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true,
	"will": true, "would": true, "shall": true, "should": true,
	"can": true, "could": true, "may": true, "might": true, "must": true,
}

// subordinators are adpositions that introduce a subordinate clause and are
// labeled mark rather than prep.
var subordinators = map[string]bool{
	"because": true, "although": true, "though": true, "while": true,
	"if": true, "since": true, "unless": true, "whereas": true,
	"whether": true, "that": true, "until": true, "after": true, "before": true,
}

// coarsePOS maps a Penn Treebank tag to its Universal POS category.
func coarsePOS(surface, tag string) string {
	lower := strings.ToLower(surface)
	switch {
	case strings.HasPrefix(tag, "VB"):
		if auxiliaries[lower] {
			return POSAux
		}
		return POSVerb
	case tag == "MD":
		return POSAux
	case tag == "DT" || tag == "PDT" || tag == "WDT":
		return POSDeterminer
	case tag == "IN":
		return POSAdposition
	case tag == "RP" || tag == "TO" || tag == "POS":
		return POSParticle
	case tag == "CC":
		return POSCoordConj
	case strings.HasPrefix(tag, "NNP"):
		return POSProperNoun
	case strings.HasPrefix(tag, "NN"):
		return POSNoun
	case tag == "PRP" || tag == "PRP$" || tag == "WP" || tag == "WP$" || tag == "EX":
		return POSPronoun
	case strings.HasPrefix(tag, "JJ"):
		return POSAdjective
	case strings.HasPrefix(tag, "RB") || tag == "WRB":
		return POSAdverb
	case tag == "CD":
		return POSNumeral
	case tag == "UH":
		return POSInterj
	case tag == "." || tag == "," || tag == ":" || tag == "(" || tag == ")" ||
		tag == "``" || tag == "''" || tag == "HYPH" || tag == "NFP":
		return POSPunct
	default:
		return POSOther
	}
}

// labelDependencies assigns dependency relations in place. It is a
// deliberately shallow approximation of a dependency parse: good enough for
// the boundary heuristics, which only ask whether certain relations exist
// and where a handful of heads point.
func labelDependencies(tokens []Token) {
	root := findRoot(tokens)
	if root >= 0 {
		tokens[root].Dep = DepRoot
		tokens[root].Head = root
	}

	for i := range tokens {
		if i == root {
			continue
		}
		switch tokens[i].POS {
		case POSAux:
			// Auxiliary attaches to the verb it supports.
			if v := nextOfPOS(tokens, i+1, POSVerb); v >= 0 {
				tokens[i].Dep = DepAux
				tokens[i].Head = v
			} else if root >= 0 {
				tokens[i].Dep = DepAux
				tokens[i].Head = root
			}
		case POSAdposition:
			if i == 0 && subordinators[strings.ToLower(tokens[i].Text)] {
				tokens[i].Dep = DepMark
			} else {
				tokens[i].Dep = DepPrep
			}
			if h := prevContentWord(tokens, i-1); h >= 0 {
				tokens[i].Head = h
			} else if root >= 0 {
				tokens[i].Head = root
			}
		case POSDeterminer:
			if n := nextNominal(tokens, i+1); n >= 0 {
				tokens[i].Dep = DepDet
				tokens[i].Head = n
			}
		case POSNoun, POSProperNoun, POSPronoun, POSNumeral:
			labelNominal(tokens, i, root)
		}
	}
}

// findRoot picks the first main verb as the sentence root. Verbless
// fragments have no root, which is exactly what the completeness checks in
// the merge rules need to see.
func findRoot(tokens []Token) int {
	for i, t := range tokens {
		if t.POS == POSVerb {
			return i
		}
	}
	// A lone auxiliary ("it is") still heads a complete clause.
	for i, t := range tokens {
		if t.POS == POSAux {
			return i
		}
	}
	return -1
}

// labelNominal attaches a nominal token: to a preceding adposition as pobj,
// or to the root verb as dobj/attr when it follows the verb.
func labelNominal(tokens []Token, i, root int) {
	if p := prevAdposition(tokens, i-1); p >= 0 {
		tokens[i].Dep = DepPrepObject
		tokens[i].Head = p
		return
	}
	if root >= 0 && i > root {
		if auxiliaries[strings.ToLower(tokens[root].Text)] {
			tokens[i].Dep = DepAttribute
		} else {
			tokens[i].Dep = DepDirectObject
		}
		tokens[i].Head = root
	}
}

// prevAdposition scans backwards from i over determiners and adjectives for
// the adposition heading a prepositional phrase.
func prevAdposition(tokens []Token, i int) int {
	for ; i >= 0; i-- {
		switch tokens[i].POS {
		case POSDeterminer, POSAdjective, POSAdverb, POSNumeral:
			continue
		case POSAdposition:
			return i
		default:
			return -1
		}
	}
	return -1
}

func prevContentWord(tokens []Token, i int) int {
	for ; i >= 0; i-- {
		switch tokens[i].POS {
		case POSVerb, POSAux, POSNoun, POSProperNoun, POSPronoun:
			return i
		}
	}
	return -1
}

func nextOfPOS(tokens []Token, i int, pos string) int {
	for ; i < len(tokens); i++ {
		if tokens[i].POS == pos {
			return i
		}
	}
	return -1
}

func nextNominal(tokens []Token, i int) int {
	for ; i < len(tokens); i++ {
		switch tokens[i].POS {
		case POSNoun, POSProperNoun, POSPronoun:
			return i
		case POSAdjective, POSAdverb, POSNumeral:
			continue
		default:
			return -1
		}
	}
	return -1
}
