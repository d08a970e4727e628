// Package nlp turns a sentence into dependency-labelled tokens and pulls an
// (item, value) pair out of them.
package nlp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrParserUnavailable = errors.New("parser service unavailable")
	ErrUnknownProvider   = errors.New("unknown parser provider")
)

// Token is one word of a parsed sentence.
type Token struct {
	// Index is the position of the token in the parsed sequence.
	Index int
	Text  string
	Lemma string
	// Dep is the dependency label exactly as the engine reported it.
	Dep string
	// Start is the byte offset of the token in the parsed text.
	Start int
}

func (t Token) Role() Role { return RoleOf(t.Dep) }

type Role int

const (
	RoleOther Role = iota
	RoleSubject
	RoleObject
	RoleRoot
)

func (r Role) String() string {
	switch r {
	case RoleSubject:
		return "subject"
	case RoleObject:
		return "object"
	case RoleRoot:
		return "root"
	default:
		return "other"
	}
}

// RoleOf maps engine labels (spaCy/CoreNLP/Universal Dependencies) onto the
// roles extraction cares about. Subtyped labels such as "nsubj:pass" are
// deliberately RoleOther.
func RoleOf(dep string) Role {
	switch strings.ToLower(dep) {
	case "nsubj":
		return RoleSubject
	case "dobj", "obj":
		return RoleObject
	case "root":
		return RoleRoot
	default:
		return RoleOther
	}
}

// Parser is a dependency-parse engine.
type Parser interface {
	// Parse returns the tokens of text in order. Offsets refer to text as given.
	Parse(ctx context.Context, text string) ([]Token, error)

	// Ready reports whether the engine can serve Parse calls.
	Ready(ctx context.Context) error

	// Provider returns the engine name.
	Provider() string
}

const (
	ProviderRules   = "rules"
	ProviderCoreNLP = "corenlp"
	ProviderUDPipe  = "udpipe"
)

type Config struct {
	Provider string // "rules" (default), "corenlp", "udpipe"
	BaseURL  string
	// Model pins the engine model where the engine supports it (UDPipe).
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewParser builds the engine named by config.Provider.
func NewParser(config Config) (Parser, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderCoreNLP:
		return NewCoreNLPParser(config), nil
	case ProviderUDPipe:
		return NewUDPipeParser(config), nil
	case ProviderRules, "":
		return NewRuleParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Provider)
	}
}
