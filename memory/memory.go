package memory

import (
	"context"
	"errors"
	"time"

	"elderease/nlp"
	"elderease/storage"
)

var (
	ErrNotConfigured = errors.New("memory service is not configured")
	ErrMissingFields = errors.New("missing required fields")
	ErrNotUnderstood = errors.New("could not extract an item and a value")
	ErrNotFound      = errors.New("no memory for item")
)

// Memory stores and recalls what users tell it. The store and the parser are
// injected with options; without either one every operation fails with
// ErrNotConfigured.
type Memory struct {
	Config *Config

	Storage   *storage.Manager
	Extractor *nlp.Extractor

	now func() time.Time
}

type Option func(*Memory)

func New(opts ...Option) *Memory {
	m := &Memory{
		Config: newConfig(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	// Defaults
	if m.Storage == nil {
		m.Storage = storage.NewManager()
	}
	m.Config.Storage.Dialect = m.Storage.Dialect()
	if m.Extractor != nil {
		m.Config.Parser.Provider = m.Extractor.Parser().Provider()
	}
	return m
}

// WithStorage uses an already started storage manager.
func WithStorage(s *storage.Manager) Option {
	return func(m *Memory) {
		m.Storage = s
	}
}

// WithStorageConn starts a manager on conn. A connection no adapter accepts
// leaves the service unconfigured.
func WithStorageConn(conn any) Option {
	return func(m *Memory) {
		m.Storage = storage.NewManager()
		_ = m.Storage.Start(conn)
	}
}

// WithParser sets the dependency parser. A nil parser leaves the service
// unconfigured.
func WithParser(p nlp.Parser) Option {
	return func(m *Memory) {
		if p == nil {
			m.Extractor = nil
			return
		}
		m.Extractor = nlp.NewExtractor(p)
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(m *Memory) {
		if d > 0 {
			m.Config.Timeout = d
		}
	}
}

// Configured reports whether both the store and the parser are present.
func (m *Memory) Configured() bool {
	return m.StoreReady() && m.ParserReady()
}

func (m *Memory) StoreReady() bool {
	return m.Storage != nil && m.Storage.Driver() != nil
}

func (m *Memory) ParserReady() bool {
	return m.Extractor != nil
}

// Store extracts an item and a value from text and saves them for userID,
// replacing what was stored for the same item before.
func (m *Memory) Store(ctx context.Context, userID, text string) (Record, error) {
	return NewWriter(m).Execute(ctx, userID, text)
}

// Recall returns the record stored for userID under item. The item name is
// normalized with NormalizeItem first.
func (m *Memory) Recall(ctx context.Context, userID, item string) (*Record, error) {
	return NewRecall(m).Lookup(ctx, userID, item)
}

// List returns every record of userID, most recently updated first.
func (m *Memory) List(ctx context.Context, userID string) ([]Record, error) {
	return NewRecall(m).List(ctx, userID)
}

func (m *Memory) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.Config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.Config.Timeout)
}
