// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/okian/agegap/internal/adapters/export"
	rendering "github.com/okian/agegap/internal/adapters/render"
	service "github.com/okian/agegap/internal/app"
	"github.com/okian/agegap/internal/domain/aggregate"
	"github.com/okian/agegap/internal/domain/types"
	"github.com/okian/agegap/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Lookups describe the selectable years, countries, hosts and ages.
	Years() ([]int, error)
	Countries() ([]string, error)
	Hosts() (map[string]string, error)
	AgeRange() service.AgeRange
	AgeRangeLabel(lo, hi int) (string, error)

	// Figure computations.
	ComputeFrames(ctx context.Context, req service.FigureRequest) (types.Figure, error)
	Aggregate(ctx context.Context, req service.FigureRequest) ([]types.AggregateRow, error)
	Summary(ctx context.Context, req service.FigureRequest) ([]aggregate.YearSummary, error)
	Snapshot(ctx context.Context, w io.Writer, year int, req service.FigureRequest) error

	// Table operations.
	ApplyFilter(ctx context.Context, req service.TableRequest) (service.TablePage, error)
	Export(ctx context.Context, w io.Writer, format export.Format, req service.TableRequest) error
	ExportAggregates(ctx context.Context, w io.Writer, format export.Format, req service.FigureRequest) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	lookups       *lookupHandler
	figures       *figureHandler
	table         *tableHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		lookups:       &lookupHandler{deps: deps},
		figures:       &figureHandler{deps: deps},
		table:         &tableHandler{deps: deps},
		logger:        log.Named("api"),
	}
}

// Routes returns the chi router serving everything under /api.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/years", MetricsMiddleware(s.lookups.HandleYears, "years"))
		r.Get("/countries", MetricsMiddleware(s.lookups.HandleCountries, "countries"))
		r.Get("/hosts", MetricsMiddleware(s.lookups.HandleHosts, "hosts"))
		r.Get("/age-range", MetricsMiddleware(s.lookups.HandleAgeRange, "age_range"))

		r.Get("/figure", MetricsMiddleware(s.figures.HandleFigure, "figure"))
		r.Get("/aggregate", MetricsMiddleware(s.figures.HandleAggregate, "aggregate"))
		r.Get("/aggregate/export", MetricsMiddleware(s.figures.HandleAggregateExport, "aggregate_export"))
		r.Get("/summary", MetricsMiddleware(s.figures.HandleSummary, "summary"))
		r.Get("/frames/{year}.png", MetricsMiddleware(s.figures.HandleSnapshot, "snapshot"))

		r.Get("/table", MetricsMiddleware(s.table.HandleTable, "table"))
		r.Get("/table/export", MetricsMiddleware(s.table.HandleExport, "table_export"))

		r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	})
	return r
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/api/", s.Routes())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, r, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service error kinds to HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest), errors.Is(err, ErrBadRequest), errors.Is(err, export.ErrUnknownFormat):
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, rendering.ErrFrameNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrComputation):
		writeError(w, r, http.StatusUnprocessableEntity, "computation_failed", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, r, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal_error", err)
	}
}
