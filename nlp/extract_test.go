package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keysOnTable is how a statistical English parser labels
// "my keys are on the table".
func keysOnTable() (string, []Token) {
	text := "my keys are on the table"
	return text, []Token{
		{Index: 0, Text: "my", Lemma: "my", Dep: "poss", Start: 0},
		{Index: 1, Text: "keys", Lemma: "key", Dep: "nsubj", Start: 3},
		{Index: 2, Text: "are", Lemma: "be", Dep: "ROOT", Start: 8},
		{Index: 3, Text: "on", Lemma: "on", Dep: "prep", Start: 12},
		{Index: 4, Text: "the", Lemma: "the", Dep: "det", Start: 15},
		{Index: 5, Text: "table", Lemma: "table", Dep: "pobj", Start: 19},
	}
}

func TestAnalyze(t *testing.T) {
	text, tokens := keysOnTable()

	ext, ok := Analyze(text, tokens)
	require.True(t, ok)
	assert.Equal(t, Extraction{Item: "key", Value: "on the table"}, ext)
}

func TestAnalyze_NoSubjectOrObject(t *testing.T) {
	text := "hello there"
	tokens := []Token{
		{Index: 0, Text: "hello", Lemma: "hello", Dep: "intj", Start: 0},
		{Index: 1, Text: "there", Lemma: "there", Dep: "advmod", Start: 6},
	}
	_, ok := Analyze(text, tokens)
	assert.False(t, ok)

	_, ok = Analyze("", nil)
	assert.False(t, ok)
}

func TestAnalyze_RootIsLastToken(t *testing.T) {
	text := "keys are"
	tokens := []Token{
		{Index: 0, Text: "keys", Lemma: "key", Dep: "nsubj", Start: 0},
		{Index: 1, Text: "are", Lemma: "be", Dep: "ROOT", Start: 5},
	}
	_, ok := Analyze(text, tokens)
	assert.False(t, ok)
}

func TestAnalyze_NoRoot(t *testing.T) {
	text, tokens := keysOnTable()
	tokens[2].Dep = "aux"
	_, ok := Analyze(text, tokens)
	assert.False(t, ok)
}

func TestAnalyze_OnlyWhitespaceAfterRoot(t *testing.T) {
	text := "keys are ."
	tokens := []Token{
		{Index: 0, Text: "keys", Lemma: "key", Dep: "nsubj", Start: 0},
		{Index: 1, Text: "are", Lemma: "be", Dep: "ROOT", Start: 5},
		{Index: 2, Text: " ", Lemma: " ", Dep: "dep", Start: 8},
	}
	// the value is "." which is not empty
	ext, ok := Analyze(text, tokens)
	require.True(t, ok)
	assert.Equal(t, ".", ext.Value)

	tokens[2].Start = len(text)
	_, ok = Analyze(text, tokens)
	assert.False(t, ok)
}

func TestAnalyze_FirstMatchWins(t *testing.T) {
	text := "i put my keys on the table"
	tokens := []Token{
		{Index: 0, Text: "i", Lemma: "I", Dep: "nsubj", Start: 0},
		{Index: 1, Text: "put", Lemma: "put", Dep: "ROOT", Start: 2},
		{Index: 2, Text: "my", Lemma: "my", Dep: "poss", Start: 6},
		{Index: 3, Text: "keys", Lemma: "key", Dep: "dobj", Start: 9},
		{Index: 4, Text: "on", Lemma: "on", Dep: "prep", Start: 14},
		{Index: 5, Text: "the", Lemma: "the", Dep: "det", Start: 17},
		{Index: 6, Text: "table", Lemma: "table", Dep: "pobj", Start: 21},
	}
	ext, ok := Analyze(text, tokens)
	require.True(t, ok)
	assert.Equal(t, "i", ext.Item, "lemma is lowercased")
	assert.Equal(t, "my keys on the table", ext.Value)
}

func TestAnalyze_ObjectBeforeSecondRoot(t *testing.T) {
	text := "find wallet. it is in the car"
	tokens := []Token{
		{Index: 0, Text: "find", Lemma: "find", Dep: "ROOT", Start: 0},
		{Index: 1, Text: "wallet", Lemma: "wallet", Dep: "obj", Start: 5},
		{Index: 2, Text: ".", Lemma: ".", Dep: "punct", Start: 11},
		{Index: 3, Text: "it", Lemma: "it", Dep: "nsubj", Start: 13},
		{Index: 4, Text: "is", Lemma: "be", Dep: "ROOT", Start: 16},
		{Index: 5, Text: "in", Lemma: "in", Dep: "case", Start: 19},
		{Index: 6, Text: "the", Lemma: "the", Dep: "det", Start: 22},
		{Index: 7, Text: "car", Lemma: "car", Dep: "obl", Start: 26},
	}
	ext, ok := Analyze(text, tokens)
	require.True(t, ok)
	assert.Equal(t, "wallet", ext.Item)
	assert.Equal(t, "wallet. it is in the car", ext.Value)
}

func TestAnalyze_SkipsEmptyLemma(t *testing.T) {
	text, tokens := keysOnTable()
	tokens[1].Lemma = " "
	tokens[5].Dep = "dobj"

	ext, ok := Analyze(text, tokens)
	require.True(t, ok)
	assert.Equal(t, "table", ext.Item)
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, RoleSubject, RoleOf("nsubj"))
	assert.Equal(t, RoleObject, RoleOf("dobj"))
	assert.Equal(t, RoleObject, RoleOf("obj"))
	assert.Equal(t, RoleRoot, RoleOf("ROOT"))
	assert.Equal(t, RoleRoot, RoleOf("root"))
	assert.Equal(t, RoleOther, RoleOf("nsubj:pass"))
	assert.Equal(t, RoleOther, RoleOf("nsubjpass"))
	assert.Equal(t, "subject", RoleSubject.String())
}

type stubParser struct {
	got    string
	tokens []Token
	err    error
}

func (s *stubParser) Parse(ctx context.Context, text string) ([]Token, error) {
	s.got = text
	return s.tokens, s.err
}
func (s *stubParser) Ready(ctx context.Context) error { return nil }
func (s *stubParser) Provider() string                { return "stub" }

func TestExtractor_LowercasesBeforeParsing(t *testing.T) {
	_, tokens := keysOnTable()
	p := &stubParser{tokens: tokens}

	ext, ok, err := NewExtractor(p).Extract(context.Background(), "My Keys are ON the Table")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "my keys are on the table", p.got)
	assert.Equal(t, "on the table", ext.Value)
}

func TestExtractor_ParserFailure(t *testing.T) {
	p := &stubParser{err: ErrParserUnavailable}

	_, ok, err := NewExtractor(p).Extract(context.Background(), "my keys are on the table")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrParserUnavailable))
}

func TestNewParser(t *testing.T) {
	for provider, want := range map[string]string{
		"":        ProviderRules,
		"rules":   ProviderRules,
		"CoreNLP": ProviderCoreNLP,
		"udpipe":  ProviderUDPipe,
	} {
		p, err := NewParser(Config{Provider: provider})
		require.NoError(t, err)
		assert.Equal(t, want, p.Provider())
	}

	_, err := NewParser(Config{Provider: "spacy"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
