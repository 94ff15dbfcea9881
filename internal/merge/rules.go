package merge

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"submend/internal/annotate"
)

// Pair is the decision context for one adjacent cue boundary: the candidate
// cue's text and annotation, and those of the cue that follows it. Both
// annotations are guaranteed non-empty when rules run.
type Pair struct {
	CurrentText string
	NextText    string
	Current     []annotate.Token
	Next        []annotate.Token
}

func (p Pair) lastToken() annotate.Token  { return p.Current[len(p.Current)-1] }
func (p Pair) firstToken() annotate.Token { return p.Next[0] }

// Rule is one independently testable boundary heuristic. Combine rules vote
// for a merge; veto rules override them.
type Rule struct {
	Name    string
	Applies func(p Pair) bool
}

// coordinators are the conjunctions that commonly open an independent
// clause; a cue ending (or beginning) with one of them is treated
// differently from rarer conjunctions like "nor" or "yet".
var coordinators = map[string]bool{"and": true, "or": true, "but": true}

// CombineRules vote for recombining a boundary. Any single match makes the
// pair a merge candidate.
var CombineRules = []Rule{
	{
		// The cue ends on a preposition or particle ("...came up with").
		Name: "dangling-adposition",
		Applies: func(p Pair) bool {
			pos := p.lastToken().POS
			return pos == annotate.POSAdposition || pos == annotate.POSParticle
		},
	},
	{
		// The cue ends on an article or determiner ("...with the").
		Name: "dangling-determiner",
		Applies: func(p Pair) bool {
			return p.lastToken().POS == annotate.POSDeterminer
		},
	},
	{
		// A trailing conjunction other than and/or/but rarely ends a sentence.
		Name: "uncommon-conjunction",
		Applies: func(p Pair) bool {
			last := p.lastToken()
			return last.POS == annotate.POSCoordConj && !coordinators[strings.ToLower(last.Text)]
		},
	},
	{
		// A clause opener with no root anywhere: the clause body was cut off.
		Name: "unrooted-clause-marker",
		Applies: func(p Pair) bool {
			dep := p.lastToken().Dep
			return (dep == annotate.DepMark || dep == annotate.DepPrep) &&
				!annotate.HasDep(p.Current, annotate.DepRoot)
		},
	},
	{
		// The next cue opens with a participle continuing an unfinished verb
		// group ("He was" / "running late").
		Name: "participle-continuation",
		Applies: func(p Pair) bool {
			tag := p.firstToken().Tag
			return (tag == annotate.TagPresentParticiple || tag == annotate.TagPastParticiple) &&
				!strings.HasSuffix(p.CurrentText, ".")
		},
	},
	{
		// No root verb means no complete predicate in the cue.
		Name: "missing-predicate",
		Applies: func(p Pair) bool {
			for _, t := range p.Current {
				if t.Dep == annotate.DepRoot && t.POS == annotate.POSVerb {
					return false
				}
			}
			return true
		},
	},
	{
		// No terminal punctuation and a lower-case continuation.
		Name: "lowercase-continuation",
		Applies: func(p Pair) bool {
			last, _ := utf8.DecodeLastRuneInString(p.CurrentText)
			if strings.ContainsRune(`.!?,"`, last) {
				return false
			}
			first, _ := utf8.DecodeRuneInString(p.NextText)
			return unicode.IsLower(first)
		},
	},
	{
		// An object or attribute in the next cue whose head sits at the end
		// of the current one: a phrase split across the boundary.
		Name: "split-phrase",
		Applies: func(p Pair) bool {
			boundary := len(p.Current) - 1
			for _, t := range p.Next {
				switch t.Dep {
				case annotate.DepPrepObject, annotate.DepDirectObject, annotate.DepAttribute:
					if t.Head == boundary {
						return true
					}
				}
			}
			return false
		},
	},
	{
		// A trailing verb with an auxiliary but no object, attribute, or
		// prepositional continuation: the verb phrase is incomplete.
		Name: "incomplete-verb-phrase",
		Applies: func(p Pair) bool {
			if p.lastToken().POS != annotate.POSVerb {
				return false
			}
			if !annotate.HasDep(p.Current, annotate.DepAux) {
				return false
			}
			for _, t := range p.Current {
				switch t.Dep {
				case annotate.DepDirectObject, annotate.DepAttribute, annotate.DepPrep:
					return false
				}
			}
			return true
		},
	},
}

// VetoRules override a merge candidate. Any single match blocks the merge.
var VetoRules = []Rule{
	{
		// "... sentence. And another": coordinated but independent.
		Name: "new-coordinated-sentence",
		Applies: func(p Pair) bool {
			return coordinators[strings.ToLower(p.firstToken().Text)] &&
				strings.HasSuffix(p.lastToken().Text, ".")
		},
	},
	{
		// Terminal period followed by an upper-case opener.
		Name: "new-sentence",
		Applies: func(p Pair) bool {
			first, _ := utf8.DecodeRuneInString(p.NextText)
			return unicode.IsUpper(first) && strings.HasSuffix(p.CurrentText, ".")
		},
	},
	{
		// Back-to-back quotations are separate lines of dialogue.
		Name: "quoted-dialogue",
		Applies: func(p Pair) bool {
			return strings.HasSuffix(p.CurrentText, `"`) && strings.HasPrefix(p.NextText, `"`)
		},
	},
	{
		// Both sides are rooted clauses and the first is terminated.
		Name: "two-complete-sentences",
		Applies: func(p Pair) bool {
			return strings.HasSuffix(p.CurrentText, ".") &&
				annotate.HasDep(p.Current, annotate.DepRoot) &&
				annotate.HasDep(p.Next, annotate.DepRoot)
		},
	},
}
