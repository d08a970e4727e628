package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"elderease/memory"
	"elderease/nlp"
)

func newTestMemory(t *testing.T, name string, opts ...memory.Option) *memory.Memory {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	opts = append([]memory.Option{
		memory.WithStorageConn(db),
		memory.WithParser(nlp.NewRuleParser()),
	}, opts...)
	m := memory.New(opts...)
	require.NoError(t, m.Storage.Build(context.Background()))
	return m
}

func newTestHandler(m *memory.Memory) http.Handler {
	return NewServer(m, zerolog.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := decode(t, rec)["error"].(string)
	return msg
}

func TestHome(t *testing.T) {
	h := newTestHandler(memory.New())

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, banner, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Request-Id"))

	rec = do(t, h, http.MethodGet, "/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(newTestMemory(t, "api_health")), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["store"])
	assert.Equal(t, true, body["parser"])
	assert.Equal(t, "sqlite", body["dialect"])
	assert.Equal(t, "rules", body["parserProvider"])

	rec = do(t, newTestHandler(memory.New(memory.WithParser(nlp.NewRuleParser()))), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["store"])
	assert.Equal(t, true, body["parser"])
}

func TestStoreAndRecall(t *testing.T) {
	h := newTestHandler(newTestMemory(t, "api_store_recall"))

	rec := do(t, h, http.MethodPost, "/memory", `{"userId":"u1","text":"My keys are on the table"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Got it! I'll remember that your 'key' is 'on the table'.", body["message"])

	rec = do(t, h, http.MethodGet, "/memory?userId=u1&item=key", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "key", body["itemKey"])
	assert.Equal(t, "on the table", body["itemValue"])
	assert.Equal(t, "My keys are on the table", body["originalQuery"])

	ts, ok := body["lastUpdatedAt"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())

	rec = do(t, h, http.MethodGet, "/memory?userId=u1&item=KEY%20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "on the table", decode(t, rec)["itemValue"])
}

func TestStore_BadRequests(t *testing.T) {
	h := newTestHandler(newTestMemory(t, "api_store_bad"))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing user", `{"text":"my keys are on the table"}`, msgStoreFields},
		{"missing text", `{"userId":"u1"}`, msgStoreFields},
		{"empty text", `{"userId":"u1","text":""}`, msgStoreFields},
		{"invalid json", `{"userId":`, msgStoreFields},
		{"no body", ``, msgStoreFields},
		{"wrong types", `{"userId":42,"text":true}`, msgStoreFields},
		{"not understood", `{"userId":"u1","text":"hello there"}`, msgNotUnderstood},
		{"root is last", `{"userId":"u1","text":"keys are"}`, msgNotUnderstood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/memory", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, errorOf(t, rec))
		})
	}
}

func TestRecall_Errors(t *testing.T) {
	h := newTestHandler(newTestMemory(t, "api_recall_errors"))

	for _, target := range []string{"/memory", "/memory?userId=u1", "/memory?item=key", "/memory?userId=&item=key"} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, msgRecallFields, errorOf(t, rec))
	}

	rec := do(t, h, http.MethodGet, "/memory?userId=u1&item=%20Umbrella", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Sorry, I don't have any information about 'umbrella' for you.", errorOf(t, rec))
}

func TestList(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	h := newTestHandler(newTestMemory(t, "api_list", memory.WithClock(func() time.Time { return now })))

	for _, text := range []string{"my keys are on the table", "my glasses are in the bathroom"} {
		rec := do(t, h, http.MethodPost, "/memory", `{"userId":"u1","text":"`+text+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		now = now.Add(time.Minute)
	}

	rec := do(t, h, http.MethodGet, "/memories?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []memory.Record `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "glass", out.Items[0].ItemKey)
	assert.Equal(t, "key", out.Items[1].ItemKey)

	rec = do(t, h, http.MethodGet, "/memories?userId=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/memories", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgListFields, errorOf(t, rec))
}

func TestNotConfigured(t *testing.T) {
	for name, m := range map[string]*memory.Memory{
		"nothing":   memory.New(),
		"no parser": newTestMemory(t, "api_no_parser", memory.WithParser(nil)),
		"no store":  memory.New(memory.WithParser(nlp.NewRuleParser())),
	} {
		t.Run(name, func(t *testing.T) {
			h := newTestHandler(m)

			for _, c := range []struct{ method, target, body string }{
				{http.MethodPost, "/memory", `{"userId":"u1","text":"my keys are on the table"}`},
				{http.MethodPost, "/memory", `{}`},
				{http.MethodGet, "/memory?userId=u1&item=key", ""},
				{http.MethodGet, "/memory", ""},
				{http.MethodGet, "/memories?userId=u1", ""},
			} {
				rec := do(t, h, c.method, c.target, c.body)
				assert.Equal(t, http.StatusInternalServerError, rec.Code, c.target)
				assert.Equal(t, msgNotConfigured, errorOf(t, rec))
			}

			rec := do(t, h, http.MethodGet, "/", "")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

type failingParser struct{}

func (failingParser) Parse(ctx context.Context, text string) ([]nlp.Token, error) {
	return nil, errors.Join(nlp.ErrParserUnavailable, errors.New("connection refused"))
}
func (failingParser) Ready(ctx context.Context) error { return nlp.ErrParserUnavailable }
func (failingParser) Provider() string                { return "failing" }

func TestStore_ParserFailureIsInternal(t *testing.T) {
	h := newTestHandler(newTestMemory(t, "api_parser_failure", memory.WithParser(failingParser{})))

	rec := do(t, h, http.MethodPost, "/memory", `{"userId":"u1","text":"my keys are on the table"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	msg := errorOf(t, rec)
	assert.Equal(t, msgInternalFailed, msg)
	assert.NotContains(t, msg, "connection refused")
}

func TestStore_OversizedBody(t *testing.T) {
	h := newTestHandler(newTestMemory(t, "api_store_oversized"))

	text := strings.Repeat("my keys are on the table ", 400)
	rec := do(t, h, http.MethodPost, "/memory", `{"userId":"u1","text":"`+text+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgStoreFields, errorOf(t, rec))

	rec = do(t, h, http.MethodGet, "/memories?userId=u1", "")
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}
