package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/pkg/logger"
)

// Default file layout.
const (
	DefaultDataDir             = "data"
	DefaultMedalistsFile       = "olympic_medalists.csv"
	DefaultHostCitiesFile      = "hostcities.json"
	DefaultSportCategoriesFile = "sportcats.json"
)

// FileSource loads reference data from files on disk.
type FileSource struct {
	dataDir             string
	medalistsFile       string
	hostCitiesFile      string
	sportCategoriesFile string
	logger              logger.Logger
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a FileSource with the default file layout.
func NewFileSource(opts ...Option) *FileSource {
	s := &FileSource{
		dataDir:             DefaultDataDir,
		medalistsFile:       DefaultMedalistsFile,
		hostCitiesFile:      DefaultHostCitiesFile,
		sportCategoriesFile: DefaultSportCategoriesFile,
		logger:              logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*model.Dataset, Report, error) {
	dir := ResolveDir(s.dataDir)
	rep := Report{MedalistsPath: filepath.Join(dir, s.medalistsFile)}

	hosts, err := loadHosts(filepath.Join(dir, s.hostCitiesFile))
	if err != nil {
		return nil, rep, err
	}
	cats, err := loadCategories(filepath.Join(dir, s.sportCategoriesFile))
	if err != nil {
		return nil, rep, err
	}

	var t parsedTable
	switch ext := strings.ToLower(filepath.Ext(s.medalistsFile)); ext {
	case ".csv":
		t, err = readCSV(rep.MedalistsPath)
	case ".xlsx":
		t, err = readXLSX(rep.MedalistsPath)
	default:
		return nil, rep, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, rep, err
	}

	for _, row := range t.skippedRows {
		s.logger.Debug(ctx, "skipped medalist row", logger.Int("line", row))
	}
	if len(t.skippedRows) > 0 {
		s.logger.Warn(ctx, "medalist rows skipped",
			logger.Int("skipped", len(t.skippedRows)),
			logger.String("file", rep.MedalistsPath),
		)
	}

	rep.Records = len(t.medalists)
	rep.Skipped = len(t.skippedRows)
	rep.Hosts = len(hosts)
	rep.Categories = len(cats)
	return model.NewDataset(t.medalists, hosts, cats), rep, nil
}

// ResolveDir resolves a relative data directory against the executable's
// directory when it exists there, and against the working directory otherwise.
func ResolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidate := filepath.Join(filepath.Dir(exe), dir)
		if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
			return candidate
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, dir)
	}
	return dir
}

func loadHosts(path string) (map[int]string, error) {
	raw := map[string]string{}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	hosts := make(map[int]string, len(raw))
	for k, v := range raw {
		year, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: year key %q: %w", ErrLoad, path, k, err)
		}
		hosts[year] = v
	}
	return hosts, nil
}

func loadCategories(path string) (map[string]string, error) {
	cats := map[string]string{}
	if err := readJSON(path, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return nil
}
