package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/agegap/internal/adapters/export"
	"github.com/okian/agegap/internal/adapters/repository"
	service "github.com/okian/agegap/internal/app"
	"github.com/okian/agegap/internal/config"
	"github.com/okian/agegap/pkg/logger"
)

// formatTable prints an aligned table to the terminal instead of a file format.
const formatTable = "table"

// cli holds the state shared by the subcommands.
type cli struct {
	out      io.Writer
	cfgFile  string
	dataDir  string
	logLevel string

	cfg *config.Config
	log logger.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "medalctl",
		Short: "Olympic medalist age and gender dashboard, offline.",
		Long: `Compute what the dashboard serves without running the server.

Examples:
  # Aggregate rows for Kenya and Ethiopia, ages 25 and up
  medalctl aggregate --age-lo 25 --country Kenya --country Ethiopia

  # Filter the medalist table and export it
  medalctl filter --query '{Country} eq Kenya && {Age} ge 30' --format xlsx --out kenya.xlsx

  # Render the 2008 frame as PNG
  medalctl snapshot --year 2008 --out 2008.png

  # Verify a running server
  medalctl probe --url http://localhost:8055`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "YAML config file (same keys as AGEGAP_*)")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "directory holding the medalist table and lookups")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		c.aggregateCmd(),
		c.filterCmd(),
		c.framesCmd(),
		c.snapshotCmd(),
		c.probeCmd(),
	)
	return root
}

// setup loads the configuration and the logger. Logs go to stderr so that
// stdout stays clean for exported data.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.cfgFile != "" {
		if err := os.Setenv("AGEGAP_CONFIG", c.cfgFile); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	c.log = logger.Named("medalctl")
	return nil
}

// service loads the data files and starts a service over them.
func (c *cli) service(ctx context.Context) (*service.Service, error) {
	cfg := c.cfg
	svc := service.New(
		service.WithSource(repository.NewFileSource(
			repository.WithDataDir(cfg.DataDir),
			repository.WithMedalistsFile(cfg.MedalistsFile),
			repository.WithHostCitiesFile(cfg.HostCitiesFile),
			repository.WithSportCategoriesFile(cfg.SportCategoriesFile),
			repository.WithLogger(c.log),
		)),
		service.WithLogger(c.log),
		service.WithAgeBounds(cfg.AgeMin, cfg.AgeMax),
		service.WithDefaultAgeLo(cfg.DefaultAgeLo),
		service.WithRosterLineStep(cfg.RosterLineStep),
		service.WithFrameDuration(cfg.FrameDurationMS),
		service.WithPageSize(cfg.PageSize, cfg.MaxPageSize),
		service.WithShowText(cfg.ShowText),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// output opens the destination of a command: the named file, or stdout.
func (c *cli) output(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return c.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// fileFormat parses --format; "table" is only valid for terminal output.
func fileFormat(s string) (export.Format, bool, error) {
	if s == "" || s == formatTable {
		return "", true, nil
	}
	f, err := export.ParseFormat(s)
	return f, false, err
}

// figureFlags are the selection flags shared by aggregate, frames and snapshot.
type figureFlags struct {
	ageLo     int
	ageHi     int
	countries []string
}

func (f *figureFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.ageLo, "age-lo", 0, "lowest age (0 = configured default)")
	cmd.Flags().IntVar(&f.ageHi, "age-hi", 0, "highest age; the configured maximum means \"and older\" (0 = maximum)")
	cmd.Flags().StringSliceVar(&f.countries, "country", nil, "country to include, repeatable (default All)")
}

func (f *figureFlags) request() service.FigureRequest {
	return service.FigureRequest{AgeLo: f.ageLo, AgeHi: f.ageHi, Countries: f.countries}
}
