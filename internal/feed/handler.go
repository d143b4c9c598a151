package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/calfeeds/ethglobal-ics/internal/ethglobal"
)

// Source queries the upstream events API and returns the raw response body.
type Source interface {
	Query(ctx context.Context) ([]byte, error)
}

// Handler serves the calendar feed. Each request triggers exactly one
// upstream query; nothing is cached or retried.
type Handler struct {
	source Source
}

// NewHandler creates the feed handler backed by source.
func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.source.Query(ctx)
	if err != nil {
		var statusErr *ethglobal.StatusError
		if errors.As(err, &statusErr) {
			slog.ErrorContext(ctx, "Events API returned an error status", "status", statusErr.Status)
			http.Error(w, "Error: "+statusErr.Status, http.StatusBadGateway)
			return
		}

		slog.ErrorContext(ctx, "Request to events API failed", "error", err)
		http.Error(w, "Request failed", http.StatusBadGateway)
		return
	}

	events, err := ethglobal.ParseEvents(body)
	if err != nil {
		slog.WarnContext(ctx, "Failed to parse events payload", "error", err)
		http.Error(w, "Unexpected response from events API", http.StatusBadRequest)
		return
	}

	slog.InfoContext(ctx, "Serving calendar feed", "events", len(events))

	header := w.Header()
	header.Set("Content-Type", "text/calendar; charset=utf-8")
	header.Set("Content-Disposition", `attachment; filename="ethglobal.ics"`)
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	header.Set("Access-Control-Allow-Origin", "*")

	if _, err := io.WriteString(w, BuildCalendar(events).Serialize()); err != nil {
		slog.ErrorContext(ctx, "Failed to write calendar response", "error", err)
	}
}
