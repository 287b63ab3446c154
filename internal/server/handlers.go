package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Milesbeckerle/mercado-livre-api/pkg/client"
	"github.com/Milesbeckerle/mercado-livre-api/pkg/logging"
)

// defaultLimit is applied when the limit query parameter is absent.
const defaultLimit = 10

// Searcher runs a catalog search with review enrichment.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (client.SearchResult, error)
}

// Handler serves the search API.
type Handler struct {
	searcher Searcher
	maxLimit int
	logger   zerolog.Logger
}

// NewHandler creates the API handler around a searcher.
func NewHandler(searcher Searcher, maxLimit int) *Handler {
	return &Handler{
		searcher: searcher,
		maxLimit: maxLimit,
		logger:   logging.NewLogger("api"),
	}
}

// Router builds the HTTP route table.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogging)

	router.HandleFunc("/search", h.handleSearch).Methods("GET")
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	result, err := h.searcher.Search(r.Context(), query, limit)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "query must not be empty")
		case errors.Is(err, client.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", h.maxLimit))
		default:
			h.logger.Error().Err(err).Str("query", query).Msg("Search failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
