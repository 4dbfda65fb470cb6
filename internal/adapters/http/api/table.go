package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/okian/agegap/internal/adapters/export"
)

type tableHandler struct {
	deps Dependencies
}

// HandleTable handles GET /api/table. Filter clauses that cannot be applied
// are reported in the response and leave the table unchanged; they never fail
// the request.
func (h *tableHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	req, err := tableRequest(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := h.deps.ApplyFilter(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

// HandleExport handles GET /api/table/export?format=csv|xlsx|parquet.
func (h *tableHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandleExport"

	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	req, err := tableRequest(q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Export(r.Context(), &buf, format, req); err != nil {
		writeServiceError(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeAttachment(w, format.ContentType(), format.FileName("medalists"), buf.Bytes())
}
