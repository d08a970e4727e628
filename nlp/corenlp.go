package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// CoreNLPParser calls a Stanford CoreNLP server.
type CoreNLPParser struct {
	client  *http.Client
	baseURL string
}

const coreNLPProperties = `{"annotators":"tokenize,ssplit,pos,lemma,depparse","outputFormat":"json"}`

type coreNLPResponse struct {
	Sentences []struct {
		Index             int `json:"index"`
		BasicDependencies []struct {
			Dep       string `json:"dep"`
			Governor  int    `json:"governor"`
			Dependent int    `json:"dependent"`
		} `json:"basicDependencies"`
		Tokens []struct {
			Index                int    `json:"index"`
			Word                 string `json:"word"`
			OriginalText         string `json:"originalText"`
			Lemma                string `json:"lemma"`
			CharacterOffsetBegin int    `json:"characterOffsetBegin"`
		} `json:"tokens"`
	} `json:"sentences"`
}

func NewCoreNLPParser(config Config) *CoreNLPParser {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	return &CoreNLPParser{
		client:  config.httpClient(),
		baseURL: baseURL,
	}
}

func (p *CoreNLPParser) Provider() string { return ProviderCoreNLP }

func (p *CoreNLPParser) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/ready", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParserUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: corenlp ready check returned %d", ErrParserUnavailable, resp.StatusCode)
	}
	return nil
}

func (p *CoreNLPParser) Parse(ctx context.Context, text string) ([]Token, error) {
	endpoint := p.baseURL + "/?properties=" + url.QueryEscape(coreNLPProperties)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParserUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: corenlp returned %d: %s", ErrParserUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out coreNLPResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode corenlp response: %w", err)
	}

	// CoreNLP offsets count UTF-16 code units
	offsets := charOffsets(text, true)

	var tokens []Token
	for _, s := range out.Sentences {
		deps := make(map[int]string, len(s.BasicDependencies))
		for _, d := range s.BasicDependencies {
			deps[d.Dependent] = d.Dep
		}
		for _, t := range s.Tokens {
			start, ok := byteOffset(offsets, t.CharacterOffsetBegin)
			if !ok {
				return nil, fmt.Errorf("corenlp token %q has offset %d outside the text", t.Word, t.CharacterOffsetBegin)
			}
			word := t.OriginalText
			if word == "" {
				word = t.Word
			}
			tokens = append(tokens, Token{
				Index: len(tokens),
				Text:  word,
				Lemma: t.Lemma,
				Dep:   deps[t.Index],
				Start: start,
			})
		}
	}
	return tokens, nil
}
