package nlp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// UDPipeParser calls a UDPipe 2 REST service. Model, when set, is sent with
// every request and must be served by the service for Ready to succeed.
type UDPipeParser struct {
	client  *http.Client
	baseURL string
	model   string
}

type udpipeProcessResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

type udpipeModelsResponse struct {
	Models       map[string][]string `json:"models"`
	DefaultModel string              `json:"default_model"`
}

func NewUDPipeParser(config Config) *UDPipeParser {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://lindat.mff.cuni.cz/services/udpipe/api"
	}
	return &UDPipeParser{
		client:  config.httpClient(),
		baseURL: baseURL,
		model:   config.Model,
	}
}

func (p *UDPipeParser) Provider() string { return ProviderUDPipe }

func (p *UDPipeParser) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParserUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: udpipe models returned %d", ErrParserUnavailable, resp.StatusCode)
	}

	var out udpipeModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode udpipe models: %w", err)
	}
	if p.model == "" {
		return nil
	}
	if _, ok := out.Models[p.model]; !ok {
		return fmt.Errorf("%w: model %q not served", ErrParserUnavailable, p.model)
	}
	return nil
}

func (p *UDPipeParser) Parse(ctx context.Context, text string) ([]Token, error) {
	form := url.Values{}
	form.Set("data", text)
	form.Set("tokenizer", "ranges")
	form.Set("tagger", "")
	form.Set("parser", "")
	if p.model != "" {
		form.Set("model", p.model)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/process", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParserUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: udpipe returned %d: %s", ErrParserUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out udpipeProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode udpipe response: %w", err)
	}
	return parseCoNLLU(text, out.Result)
}

// parseCoNLLU reads the word lines of a CoNLL-U document. Byte offsets come
// from the TokenRange MISC attribute (code points); words without one, such as
// the parts of a multiword token, are located by searching forward in text.
func parseCoNLLU(text, conllu string) ([]Token, error) {
	offsets := charOffsets(text, false)

	var tokens []Token
	cursor := 0
	// word ids covered by the current multiword token and where it ends
	multiFrom, multiTo, multiEnd := -1, -1, 0

	sc := bufio.NewScanner(strings.NewReader(conllu))
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 10 {
			return nil, fmt.Errorf("conllu: expected 10 columns, got %d in %q", len(fields), line)
		}

		id := fields[0]
		if strings.Contains(id, ".") {
			// empty node of an enhanced graph
			continue
		}
		if from, to, ok := strings.Cut(id, "-"); ok {
			a, errA := strconv.Atoi(from)
			b, errB := strconv.Atoi(to)
			if errA != nil || errB != nil {
				return nil, fmt.Errorf("conllu: bad multiword id %q", id)
			}
			multiFrom, multiTo = a, b
			if start, end, ok := tokenRange(fields[9], offsets); ok {
				cursor, multiEnd = start, end
			} else {
				multiEnd = cursor + len(fields[1])
			}
			continue
		}

		wordID, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("conllu: bad word id %q", id)
		}

		form := fields[1]
		inMultiword := wordID >= multiFrom && wordID <= multiTo
		start, end, ok := tokenRange(fields[9], offsets)
		switch {
		case ok:
		case inMultiword:
			start, end = cursor, multiEnd
		default:
			idx := strings.Index(text[cursor:], form)
			if idx < 0 {
				return nil, fmt.Errorf("conllu: word %q not found in text", form)
			}
			start, end = cursor+idx, cursor+idx+len(form)
		}
		if !inMultiword || wordID == multiTo {
			cursor = min(end, len(text))
		}

		lemma := fields[2]
		if lemma == "_" {
			lemma = form
		}
		tokens = append(tokens, Token{
			Index: len(tokens),
			Text:  form,
			Lemma: lemma,
			Dep:   fields[7],
			Start: start,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// tokenRange reads "TokenRange=start:end" (code points) from a MISC column.
func tokenRange(misc string, offsets []int) (int, int, bool) {
	for _, attr := range strings.Split(misc, "|") {
		v, ok := strings.CutPrefix(attr, "TokenRange=")
		if !ok {
			continue
		}
		from, to, _ := strings.Cut(v, ":")
		a, errA := strconv.Atoi(from)
		b, errB := strconv.Atoi(to)
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		start, okA := byteOffset(offsets, a)
		end, okB := byteOffset(offsets, b)
		if !okA || !okB {
			return 0, 0, false
		}
		return start, end, true
	}
	return 0, 0, false
}
