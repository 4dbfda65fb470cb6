// Package service is the request/response façade over the medalist
// dashboard domain: it owns the dataset loaded at startup and answers
// figure, aggregate, table and export requests synchronously.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/agegap/internal/adapters/export"
	"github.com/okian/agegap/internal/adapters/render"
	"github.com/okian/agegap/internal/adapters/repository"
	"github.com/okian/agegap/internal/domain/aggregate"
	"github.com/okian/agegap/internal/domain/frames"
	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/query"
	"github.com/okian/agegap/internal/domain/types"
	"github.com/okian/agegap/pkg/logger"
	"github.com/okian/agegap/pkg/metrics"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    repository.Source
	data      *model.Dataset
	agg       *aggregate.Aggregator
	renderer  *render.Renderer
	validator *validator.Validate

	// Configuration
	ageMin        int
	ageMax        int
	defaultAgeLo  int
	rosterStep    int
	frameDuration int
	pageSize      int
	maxPageSize   int
	showText      bool

	// State
	started   bool
	startedAt time.Time
	report    repository.Report

	figures atomic.Int64
	filters atomic.Int64
	failed  atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source:        repository.NewFileSource(),
		renderer:      render.New(),
		validator:     newValidator(),
		ageMin:        10,
		ageMax:        40,
		defaultAgeLo:  30,
		rosterStep:    6,
		frameDuration: frames.DefaultFrameDuration,
		pageSize:      10,
		maxPageSize:   500,
		showText:      true,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the reference data once. Calling it again is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "loading reference data...")

	data, rep, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	s.data = data
	s.report = rep
	s.agg = aggregate.New(data,
		aggregate.WithAgeMax(s.ageMax),
		aggregate.WithRosterLineStep(s.rosterStep),
	)
	s.started = true
	s.startedAt = time.Now()

	metrics.UpdateDataset(data.Len(), len(data.Years()), len(data.Countries()), rep.Skipped)

	s.logger.Info(ctx, "dashboard service started",
		logger.String("file", rep.MedalistsPath),
		logger.Int("records", rep.Records),
		logger.Int("skipped", rep.Skipped),
		logger.Int("years", len(data.Years())),
		logger.Int("countries", len(data.Countries())),
	)

	return nil
}

// Stop marks the service as stopped. The dataset is kept for in-flight requests.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// snapshot returns the immutable dataset and aggregator.
func (s *Service) snapshot() (*model.Dataset, *aggregate.Aggregator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, nil, ErrNotStarted
	}
	return s.data, s.agg, nil
}

// guard runs one computation and turns a panic into ErrComputation.
func (s *Service) guard(ctx context.Context, op string, fn func() error) (err error) {
	id := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			s.failed.Add(1)
			metrics.RecordComputationError()
			s.logger.Error(ctx, "computation panicked",
				logger.String("op", op),
				logger.String("computation_id", id),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%s: %w: %v", op, ErrComputation, r)
		}
	}()
	s.logger.Debug(ctx, "computation started", logger.String("op", op), logger.String("computation_id", id))
	return fn()
}

// Years returns the ascending distinct years.
func (s *Service) Years() ([]int, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return data.Years(), nil
}

// Countries returns the country options: "All" followed by the sorted countries.
func (s *Service) Countries() ([]string, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return append([]string{model.AllCountries}, data.Countries()...), nil
}

// Hosts returns host cities keyed by year.
func (s *Service) Hosts() (map[string]string, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for y, c := range data.Hosts() {
		out[strconv.Itoa(y)] = c
	}
	return out, nil
}

// AgeRange describes the age slider.
func (s *Service) AgeRange() AgeRange {
	return AgeRange{Min: s.ageMin, Max: s.ageMax, DefaultLo: s.defaultAgeLo, DefaultHi: s.ageMax}
}

// AgeRangeLabel renders the selected age range caption.
func (s *Service) AgeRangeLabel(lo, hi int) (string, error) {
	req := FigureRequest{AgeLo: lo, AgeHi: hi}
	if err := s.normalizeFigure(&req); err != nil {
		return "", err
	}
	return aggregate.AgeRangeLabel(req.AgeLo, req.AgeHi, s.ageMax), nil
}

// normalizeFigure fills defaults and checks the age range against the slider bounds.
func (s *Service) normalizeFigure(req *FigureRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}
	if req.AgeLo == 0 {
		req.AgeLo = s.defaultAgeLo
	}
	if req.AgeHi == 0 {
		req.AgeHi = s.ageMax
	}
	if err := s.params(*req).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if req.AgeLo < s.ageMin || req.AgeHi > s.ageMax {
		return fmt.Errorf("%w: age range [%d, %d] outside [%d, %d]",
			ErrBadRequest, req.AgeLo, req.AgeHi, s.ageMin, s.ageMax)
	}
	return nil
}

func (s *Service) params(req FigureRequest) aggregate.Params {
	return aggregate.Params{AgeLo: req.AgeLo, AgeHi: req.AgeHi, Countries: req.Countries}
}

// Aggregate returns the multi-year aggregate rows for a request.
func (s *Service) Aggregate(ctx context.Context, req FigureRequest) ([]types.AggregateRow, error) {
	const op = "service.Aggregate"

	data, agg, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.normalizeFigure(&req); err != nil {
		return nil, err
	}

	var rows []types.AggregateRow
	err = s.guard(ctx, op, func() error {
		rows = agg.Years(data.Years(), s.params(req))
		return nil
	})
	return rows, err
}

// ComputeFrames aggregates every year and builds the animated figure.
func (s *Service) ComputeFrames(ctx context.Context, req FigureRequest) (types.Figure, error) {
	const op = "service.ComputeFrames"

	data, agg, err := s.snapshot()
	if err != nil {
		return types.Figure{}, err
	}
	if err := s.normalizeFigure(&req); err != nil {
		return types.Figure{}, err
	}
	showText := s.showText
	if req.ShowText != nil {
		showText = *req.ShowText
	}

	var fig types.Figure
	err = s.guard(ctx, op, func() error {
		start := time.Now()
		years := data.Years()
		rows := agg.Years(years, s.params(req))
		fig = frames.Build(rows, years, frames.Options{
			ShowText:      showText,
			FrameDuration: s.frameDuration,
			Hosts:         data.Hosts(),
		})
		elapsed := time.Since(start)
		s.figures.Add(1)
		metrics.RecordFigureComputed(float64(elapsed.Microseconds())/1000, len(rows))
		s.logger.Debug(ctx, "figure computed",
			logger.Int("age_lo", req.AgeLo),
			logger.Int("age_hi", req.AgeHi),
			logger.Strings("countries", req.Countries),
			logger.Int("rows", len(rows)),
			logger.Int("frames", len(fig.Frames)),
			logger.Float64("latency_ms", float64(elapsed.Microseconds())/1000),
		)
		return nil
	})
	return fig, err
}

// Summary returns per-year age statistics for a request.
func (s *Service) Summary(ctx context.Context, req FigureRequest) ([]aggregate.YearSummary, error) {
	const op = "service.Summary"

	data, agg, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.normalizeFigure(&req); err != nil {
		return nil, err
	}

	var out []aggregate.YearSummary
	err = s.guard(ctx, op, func() error {
		out = agg.Summary(data.Years(), s.params(req))
		return nil
	})
	return out, err
}

// filterRows applies the filter and the sort order to the whole table.
func (s *Service) filterRows(ctx context.Context, op string, req TableRequest) ([]model.Medalist, []query.SortKey, query.Report, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return nil, nil, query.Report{}, err
	}
	if err := s.validate(&req); err != nil {
		return nil, nil, query.Report{}, err
	}
	keys, err := query.ParseSort(req.SortBy)
	if err != nil {
		return nil, nil, query.Report{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	var (
		rows []model.Medalist
		rep  query.Report
	)
	err = s.guard(ctx, op, func() error {
		rows, rep = query.Apply(data.Medalists(), query.Parse(req.FilterQuery))
		query.Sort(rows, keys)
		return nil
	})
	if err != nil {
		return nil, nil, query.Report{}, err
	}

	s.filters.Add(1)
	metrics.RecordFilterQuery(rep.Matched, len(rep.Skipped))
	for _, sk := range rep.Skipped {
		s.logger.Debug(ctx, "filter clause skipped",
			logger.String("clause", sk.Clause),
			logger.String("reason", sk.Reason),
		)
	}
	return rows, keys, rep, nil
}

// ApplyFilter filters, sorts and pages the medalist table. Clauses that
// cannot be applied leave the table unchanged and are listed in the report.
func (s *Service) ApplyFilter(ctx context.Context, req TableRequest) (TablePage, error) {
	const op = "service.ApplyFilter"

	rows, keys, rep, err := s.filterRows(ctx, op, req)
	if err != nil {
		return TablePage{}, err
	}

	size := req.PageSize
	if size == 0 {
		size = s.pageSize
	}
	size = min(size, s.maxPageSize)
	var page query.Page
	if err := s.guard(ctx, op, func() error {
		page = query.Paginate(rows, req.Page, size)
		return nil
	}); err != nil {
		return TablePage{}, err
	}

	out := TablePage{
		Rows:     make([]model.Row, 0, len(page.Rows)),
		Columns:  model.DisplayColumns,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
		Pages:    page.Pages,
		Sort:     keys,
		Report:   rep,
	}
	for _, m := range page.Rows {
		out.Rows = append(out.Rows, m.Row())
	}
	return out, nil
}

// Export writes every row matching the filter in the given format.
func (s *Service) Export(ctx context.Context, w io.Writer, format export.Format, req TableRequest) error {
	const op = "service.Export"

	rows, _, _, err := s.filterRows(ctx, op, req)
	if err != nil {
		return err
	}
	out := make([]model.Row, len(rows))
	for i, m := range rows {
		out[i] = m.Row()
	}
	if err := export.WriteTable(w, format, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordExport(string(format))
	return nil
}

// ExportAggregates writes the aggregate rows of a request in the given format.
func (s *Service) ExportAggregates(ctx context.Context, w io.Writer, format export.Format, req FigureRequest) error {
	const op = "service.ExportAggregates"

	rows, err := s.Aggregate(ctx, req)
	if err != nil {
		return err
	}
	if err := export.WriteAggregates(w, format, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordExport(string(format))
	return nil
}

// Snapshot renders the frame of one year as PNG.
func (s *Service) Snapshot(ctx context.Context, w io.Writer, year int, req FigureRequest) error {
	const op = "service.Snapshot"

	fig, err := s.ComputeFrames(ctx, req)
	if err != nil {
		return err
	}
	data, _, err := s.snapshot()
	if err != nil {
		return err
	}
	title := strconv.Itoa(year)
	if host := data.HostCity(year); host != "" {
		title += " " + host
	}
	if err := s.renderer.FramePNG(w, fig, year, title); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSnapshot()
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"figuresComputed":  s.figures.Load(),
		"filtersApplied":   s.filters.Load(),
		"computationFails": s.failed.Load(),
		"ageMin":           s.ageMin,
		"ageMax":           s.ageMax,
		"pageSize":         s.pageSize,
	}

	if s.data != nil {
		years := s.data.Years()
		stats["records"] = s.data.Len()
		stats["skippedRows"] = s.report.Skipped
		stats["years"] = len(years)
		stats["countries"] = len(s.data.Countries())
		stats["sports"] = len(s.data.Sports())
		stats["dataFile"] = s.report.MedalistsPath
		if len(years) > 0 {
			stats["firstYear"] = years[0]
			stats["lastYear"] = years[len(years)-1]
		}
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
