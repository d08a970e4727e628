package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"elderease/memory"
)

const (
	msgNotConfigured  = "Server is not configured correctly. Check logs."
	msgStoreFields    = "Request must include 'userId' and 'text'."
	msgNotUnderstood  = "I couldn't understand the item and its location from your sentence."
	msgRecallFields   = "Request must include 'userId' and 'item' as URL parameters."
	msgListFields     = "Request must include 'userId' as a URL parameter."
	msgInternalFailed = "Something went wrong while handling your request. Please try again."
)

// maxStoreBody caps POST /memory bodies; larger ones count as empty.
const maxStoreBody = 4 << 10

type storeRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type storeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type listResponse struct {
	Items []memory.Record `json:"items"`
}

type healthResponse struct {
	Status         string `json:"status"`
	Store          bool   `json:"store"`
	Parser         bool   `json:"parser"`
	Dialect        string `json:"dialect,omitempty"`
	ParserProvider string `json:"parserProvider,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(banner))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		Store:          s.memory.StoreReady(),
		Parser:         s.memory.ParserReady(),
		Dialect:        s.memory.Config.Storage.Dialect,
		ParserProvider: s.memory.Config.Parser.Provider,
	}
	status := http.StatusOK
	if !resp.Store || !resp.Parser {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, resp)
}

func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	body := http.MaxBytesReader(w, r.Body, maxStoreBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		// treated as an empty body
		req = storeRequest{}
	}

	rec, err := s.memory.Store(r.Context(), req.UserID, req.Text)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusCreated, storeResponse{
			Status:  "success",
			Message: fmt.Sprintf("Got it! I'll remember that your '%s' is '%s'.", rec.ItemKey, rec.ItemValue),
		})
	case errors.Is(err, memory.ErrMissingFields):
		writeError(w, r, http.StatusBadRequest, msgStoreFields)
	case errors.Is(err, memory.ErrNotUnderstood):
		writeError(w, r, http.StatusBadRequest, msgNotUnderstood)
	default:
		s.failed(w, r, err, "store memory")
	}
}

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, item := q.Get("userId"), q.Get("item")

	rec, err := s.memory.Recall(r.Context(), userID, item)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, rec)
	case errors.Is(err, memory.ErrMissingFields):
		writeError(w, r, http.StatusBadRequest, msgRecallFields)
	case errors.Is(err, memory.ErrNotFound):
		writeError(w, r, http.StatusNotFound,
			fmt.Sprintf("Sorry, I don't have any information about '%s' for you.", memory.NormalizeItem(item)))
	default:
		s.failed(w, r, err, "recall memory")
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.memory.List(r.Context(), r.URL.Query().Get("userId"))
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, listResponse{Items: recs})
	case errors.Is(err, memory.ErrMissingFields):
		writeError(w, r, http.StatusBadRequest, msgListFields)
	default:
		s.failed(w, r, err, "list memories")
	}
}

// failed answers 500. Configuration problems get their own message; store
// and parser failures are logged and reported generically.
func (s *Server) failed(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, memory.ErrNotConfigured) {
		hlog.FromRequest(r).Warn().Str("op", op).Msg("memory service is not configured")
		writeError(w, r, http.StatusInternalServerError, msgNotConfigured)
		return
	}
	hlog.FromRequest(r).Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, msgInternalFailed)
}
