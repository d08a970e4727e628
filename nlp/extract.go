package nlp

import (
	"context"
	"fmt"
	"strings"
)

// Extraction is what a sentence says about an item: "my keys are on the
// table" gives Item "key" and Value "on the table".
type Extraction struct {
	Item  string
	Value string
}

// Analyze applies the extraction rule to an already parsed sentence. text must
// be the exact string the tokens were parsed from.
//
// The item is the lemma of the first subject or direct object; the value is
// the rest of the sentence after the first root. Both must be non-empty or
// nothing is returned.
func Analyze(text string, tokens []Token) (Extraction, bool) {
	var item string
	for _, tok := range tokens {
		role := tok.Role()
		if role != RoleSubject && role != RoleObject {
			continue
		}
		if lemma := strings.ToLower(strings.TrimSpace(tok.Lemma)); lemma != "" {
			item = lemma
			break
		}
	}

	root := -1
	for i, tok := range tokens {
		if tok.Role() == RoleRoot {
			root = i
			break
		}
	}

	if item == "" || root < 0 || root >= len(tokens)-1 {
		return Extraction{}, false
	}

	start := tokens[root+1].Start
	if start < 0 || start > len(text) {
		return Extraction{}, false
	}
	value := strings.TrimSpace(text[start:])
	if value == "" {
		return Extraction{}, false
	}
	return Extraction{Item: item, Value: value}, true
}

type Extractor struct {
	parser Parser
}

func NewExtractor(p Parser) *Extractor {
	return &Extractor{parser: p}
}

func (e *Extractor) Parser() Parser { return e.parser }

// Extract lowercases sentence, parses it and applies Analyze. The error is
// only set when the engine itself failed; an unusable sentence is reported
// through the bool.
func (e *Extractor) Extract(ctx context.Context, sentence string) (Extraction, bool, error) {
	text := strings.ToLower(sentence)
	tokens, err := e.parser.Parse(ctx, text)
	if err != nil {
		return Extraction{}, false, fmt.Errorf("parse sentence: %w", err)
	}
	ext, ok := Analyze(text, tokens)
	return ext, ok, nil
}
