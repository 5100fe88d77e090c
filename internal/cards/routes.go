package cards

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edgenotch/cardkeep/internal/docstore"
)

// RegisterRoutes mounts the card endpoints on the given router.
func RegisterRoutes(r chi.Router, ix *Index, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	r.Get("/api/cards", listHandler(ix))
	r.Get("/api/cards/filter-options", filterOptionsHandler(ix))
	r.Get("/api/cards/{id}", getHandler(ix, logger))
	r.Put("/api/cards/{id}/front", updateFrontHandler(ix, logger))
	r.Put("/api/cards/{id}/back", updateBackHandler(ix, logger))
	r.Put("/api/cards/{id}/complete", completeHandler(ix, logger))
}

func listHandler(ix *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := ListQuery{
			Q:            q.Get("q"),
			Occupation:   q.Get("occupation"),
			Organization: q.Get("organization"),
			Location:     q.Get("location"),
			HasBack:      parseBoolParam(q.Get("hasBack")),
			Complete:     parseBoolParam(q.Get("complete")),
			Page:         parseIntParam(q.Get("page")),
			PageSize:     parseIntParam(q.Get("pageSize")),
		}
		writeJSON(w, http.StatusOK, ix.List(query))
	}
}

func filterOptionsHandler(ix *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ix.FilterOptions())
	}
}

func getHandler(ix *Index, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		card, err := ix.Get(id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Card not found")
			return
		}
		if err != nil {
			logger.Error("getting card", "op", "get", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get card")
			return
		}
		writeJSON(w, http.StatusOK, card)
	}
}

func updateFrontHandler(ix *Index, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var data docstore.Doc
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ix.UpdateFront(id, data); err != nil {
			if IsValidation(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("updating front", "op", "updateFront", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update front data")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func updateBackHandler(ix *Index, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var data docstore.Doc
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ix.UpdateBack(id, data); err != nil {
			logger.Error("updating back", "op", "updateBack", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update back data")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func completeHandler(ix *Index, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var body struct {
			Complete bool `json:"complete"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		value, err := ix.SetComplete(id, body.Complete)
		if err != nil {
			logger.Error("toggling complete", "op", "setComplete", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to toggle complete")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "complete": value})
	}
}

// parseBoolParam maps "true"/"false" to a tri-state filter; anything else
// means "not filtered".
func parseBoolParam(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

// parseIntParam returns 0 for missing or non-numeric values; List coerces
// 0 to its default.
func parseIntParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
