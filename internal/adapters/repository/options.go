package repository

import "github.com/okian/agegap/pkg/logger"

// Option applies a configuration option to the FileSource.
type Option func(*FileSource)

// WithDataDir sets the directory holding the data files. A relative
// directory is resolved against the executable first, then the working directory.
func WithDataDir(dir string) Option {
	return func(s *FileSource) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithMedalistsFile sets the medalist table file name (.csv or .xlsx).
func WithMedalistsFile(name string) Option {
	return func(s *FileSource) {
		if name != "" {
			s.medalistsFile = name
		}
	}
}

// WithHostCitiesFile sets the year -> host city JSON file name.
func WithHostCitiesFile(name string) Option {
	return func(s *FileSource) {
		if name != "" {
			s.hostCitiesFile = name
		}
	}
}

// WithSportCategoriesFile sets the sport -> category JSON file name.
func WithSportCategoriesFile(name string) Option {
	return func(s *FileSource) {
		if name != "" {
			s.sportCategoriesFile = name
		}
	}
}

// WithLogger sets the logger used to report skipped rows.
func WithLogger(l logger.Logger) Option {
	return func(s *FileSource) {
		if l != nil {
			s.logger = l
		}
	}
}
