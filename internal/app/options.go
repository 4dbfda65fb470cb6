package service

import (
	"github.com/okian/agegap/internal/adapters/render"
	"github.com/okian/agegap/internal/adapters/repository"
	"github.com/okian/agegap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the reference data is loaded from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderer sets the PNG renderer used for snapshots.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithAgeBounds sets the age slider bounds. ageMax also acts as the
// open-ended upper bound.
func WithAgeBounds(ageMin, ageMax int) Option {
	return func(s *Service) {
		if ageMin > 0 && ageMax > ageMin {
			s.ageMin, s.ageMax = ageMin, ageMax
		}
	}
}

// WithDefaultAgeLo sets the lower age used when a request leaves it unset.
func WithDefaultAgeLo(age int) Option {
	return func(s *Service) {
		if age > 0 {
			s.defaultAgeLo = age
		}
	}
}

// WithRosterLineStep sets the number of roster entries per line.
func WithRosterLineStep(step int) Option {
	return func(s *Service) {
		if step > 0 {
			s.rosterStep = step
		}
	}
}

// WithFrameDuration sets the animation frame duration in milliseconds.
func WithFrameDuration(ms int) Option {
	return func(s *Service) {
		if ms > 0 {
			s.frameDuration = ms
		}
	}
}

// WithPageSize sets the default and maximum table page sizes.
func WithPageSize(size, maxSize int) Option {
	return func(s *Service) {
		if size > 0 && maxSize >= size {
			s.pageSize, s.maxPageSize = size, maxSize
		}
	}
}

// WithShowText sets whether bubble labels are drawn by default.
func WithShowText(show bool) Option {
	return func(s *Service) {
		s.showText = show
	}
}
