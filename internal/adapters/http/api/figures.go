package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/agegap/internal/adapters/export"
)

type figureHandler struct {
	deps Dependencies
}

// HandleFigure handles GET /api/figure and returns the animated figure.
func (h *figureHandler) HandleFigure(w http.ResponseWriter, r *http.Request) {
	req, err := figureRequest(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	fig, err := h.deps.ComputeFrames(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fig)
}

// HandleAggregate handles GET /api/aggregate.
func (h *figureHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	req, err := figureRequest(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	rows, err := h.deps.Aggregate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

// HandleAggregateExport handles GET /api/aggregate/export?format=.
func (h *figureHandler) HandleAggregateExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandleAggregateExport"

	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	req, err := figureRequest(q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.ExportAggregates(r.Context(), &buf, format, req); err != nil {
		writeServiceError(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeAttachment(w, format.ContentType(), format.FileName("aggregates"), buf.Bytes())
}

// HandleSummary handles GET /api/summary.
func (h *figureHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	req, err := figureRequest(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := h.deps.Summary(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// HandleSnapshot handles GET /api/frames/{year}.png.
func (h *figureHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandleSnapshot"

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: year must be an integer", ErrBadRequest))
		return
	}
	req, err := figureRequest(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Snapshot(r.Context(), &buf, year, req); err != nil {
		writeServiceError(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// writeAttachment sends a fully rendered file as a download.
func writeAttachment(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
