package nlp

import (
	"context"
	"strings"
	"unicode"
)

// RuleParser is an offline stand-in for a statistical dependency parser. It
// knows a closed list of verbs, determiners and prepositions and labels a
// sentence shaped like "<subject> <verb> <rest>" or "<verb> <object> <rest>".
// It is NOT a real parser; use it for demos, tests and deployments without a
// parser service.
type RuleParser struct{}

func NewRuleParser() *RuleParser { return &RuleParser{} }

func (p *RuleParser) Provider() string { return ProviderRules }

func (p *RuleParser) Ready(ctx context.Context) error { return nil }

func (p *RuleParser) Parse(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	for i := range tokens {
		tokens[i].Lemma = tokens[i].Text
		tokens[i].Dep = "dep"
		switch {
		case isPunct(tokens[i].Text):
			tokens[i].Dep = "punct"
		case determiners[tokens[i].Text]:
			tokens[i].Dep = "det"
		case possessives[tokens[i].Text]:
			tokens[i].Dep = "poss"
		case prepositions[tokens[i].Text]:
			tokens[i].Dep = "prep"
		}
	}

	first := -1
	for i := range tokens {
		if isVerb(tokens, i) {
			first = i
			break
		}
	}
	if first < 0 {
		return tokens, nil
	}

	// "are kept", "was left": the last verb of the group heads the clause
	root := first
	for root+1 < len(tokens) && isVerb(tokens, root+1) {
		tokens[root].Dep = "aux"
		tokens[root].Lemma = verbLemma(tokens[root].Text)
		root++
	}
	tokens[root].Dep = "ROOT"
	tokens[root].Lemma = verbLemma(tokens[root].Text)

	subject := -1
	for i := first - 1; i >= 0; i-- {
		if isNominal(tokens[i]) {
			subject = i
			break
		}
	}
	if subject >= 0 {
		tokens[subject].Dep = "nsubj"
		tokens[subject].Lemma = nounLemma(tokens[subject].Text)
		for i := 0; i < subject; i++ {
			if isNominal(tokens[i]) {
				tokens[i].Dep = "compound"
			}
		}
	}

	for i := root + 1; i < len(tokens); i++ {
		if tokens[i].Dep == "det" || tokens[i].Dep == "poss" {
			continue
		}
		if isNominal(tokens[i]) && !locatives[tokens[i].Text] {
			tokens[i].Dep = "dobj"
			tokens[i].Lemma = nounLemma(tokens[i].Text)
		}
		break
	}

	return tokens, nil
}

// tokenize splits text into words and single punctuation marks, keeping
// apostrophes inside words.
func tokenize(text string) []Token {
	var tokens []Token
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, Token{Index: len(tokens), Text: text[start:end], Start: start})
			start = -1
		}
	}
	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || (r == '\'' && start >= 0):
			if start < 0 {
				start = i
			}
		case unicode.IsSpace(r):
			flush(i)
		default:
			flush(i)
			tokens = append(tokens, Token{Index: len(tokens), Text: string(r), Start: i})
		}
	}
	flush(len(text))
	return tokens
}

func isPunct(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isNominal(t Token) bool {
	return t.Dep == "dep" || t.Dep == "compound"
}

func isVerb(tokens []Token, i int) bool {
	w := tokens[i].Text
	if tokens[i].Dep != "dep" {
		return false
	}
	afterDeterminer := i > 0 && (tokens[i-1].Dep == "det" || tokens[i-1].Dep == "poss")
	if lemma, ok := verbs[w]; ok {
		// "the store", "my place" are nouns; be/have forms never are
		return lemma == "be" || lemma == "have" || !afterDeterminer
	}
	// regular past participles, unless they modify a noun ("the locked drawer")
	return len(w) > 4 && strings.HasSuffix(w, "ed") && !afterDeterminer
}

func verbLemma(w string) string {
	if l, ok := verbs[w]; ok && l != "" {
		return l
	}
	stem, ok := strings.CutSuffix(w, "ed")
	if !ok || len(w) <= 4 {
		return w
	}
	// known stems: "parked" -> park, "stored" -> store
	for _, cand := range []string{stem, stem + "e"} {
		if l, ok := verbs[cand]; ok {
			if l == "" {
				return cand
			}
			return l
		}
	}
	n := len(stem)
	switch {
	case strings.HasSuffix(stem, "i"):
		// "carried" -> carry
		return stem[:n-1] + "y"
	case n > 2 && stem[n-1] == stem[n-2] && !strings.ContainsRune("aeiouylsz", rune(stem[n-1])):
		// "stopped" -> stop, but "filled" -> fill
		return stem[:n-1]
	case strings.HasSuffix(stem, "c"), strings.HasSuffix(stem, "v"), strings.HasSuffix(stem, "u"),
		strings.HasSuffix(stem, "z"), strings.HasSuffix(stem, "os"):
		// "placed" -> place, "moved" -> move, "closed" -> close
		return stem + "e"
	}
	return stem
}

func nounLemma(w string) string {
	if l, ok := irregularNouns[w]; ok {
		return l
	}
	if pronouns[w] {
		return w
	}
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "zes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case len(w) > 2 && strings.HasSuffix(w, "s"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var (
	determiners  = set("the", "a", "an", "this", "that", "these", "those", "some", "any", "every", "each")
	possessives  = set("my", "your", "his", "her", "its", "our", "their")
	pronouns     = set("i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them", "this", "that")
	locatives    = set("there", "here", "home", "upstairs", "downstairs", "inside", "outside", "away")
	prepositions = set("on", "in", "at", "under", "inside", "behind", "near", "beside", "by", "with",
		"next", "into", "onto", "above", "below", "over", "between", "from", "to", "for", "of",
		"underneath", "beneath", "around", "across", "through", "against", "along")

	irregularNouns = map[string]string{
		"children": "child", "people": "person", "men": "man", "women": "woman",
		"feet": "foot", "teeth": "tooth", "mice": "mouse", "glasses": "glass",
	}

	// verb form -> lemma; empty lemma keeps the form
	verbs = map[string]string{
		"is": "be", "are": "be", "was": "be", "were": "be", "am": "be", "be": "be", "been": "be",
		"has": "have", "have": "have", "had": "have",
		"keep": "", "keeps": "keep", "kept": "keep",
		"put": "", "puts": "put",
		"leave": "", "leaves": "leave", "left": "leave",
		"place": "", "places": "place",
		"store": "", "stores": "store",
		"hide": "", "hides": "hide", "hid": "hide", "hidden": "hide",
		"park": "", "parks": "park",
		"lie": "", "lies": "lie", "lay": "lie",
		"sit": "", "sits": "sit", "sat": "sit",
		"hang": "", "hangs": "hang", "hung": "hang",
		"live": "", "lives": "live",
		"stay": "", "stays": "stay",
		"remain": "", "remains": "remain",
		"belong": "", "belongs": "belong",
		"go": "", "goes": "go", "went": "go",
		"gave": "give", "give": "", "gives": "give",
		"lent": "lend", "lend": "", "lends": "lend",
		"bought": "buy", "buy": "", "buys": "buy",
	}
)
