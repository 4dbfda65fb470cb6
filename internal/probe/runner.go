package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/okian/agegap/pkg/logger"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
)

// Run executes every check against the server at cfg.BaseURL and prints
// one line per check to out. It returns ErrCheckFailed when any check fails.
func Run(ctx context.Context, cfg Config, out io.Writer, log logger.Logger) (Stats, []Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	stats := Stats{StartTime: time.Now()}

	log.Info(ctx, "starting probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("samples", cfg.Samples),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Discover years, countries and ages
	env, err := discover(ctx, client)
	if err != nil {
		return stats, nil, fmt.Errorf("discovery failed: %w", err)
	}

	// Step 3: Run the checks concurrently
	checks := staticChecks(client, env)
	for _, sel := range randomSelections(env, cfg.Samples, cfg.Seed) {
		checks = append(checks, sampleCheck(client, env, sel))
	}
	results := runChecks(ctx, checks, cfg.Workers)

	// Step 4: Report
	for _, r := range results {
		stats.Checks++
		if r.Passed() {
			stats.Passed++
		} else {
			stats.Failed++
		}
		printResult(out, r, cfg.Verbose)
	}
	stats.Requests = client.requests.Load()
	stats.Duration = time.Since(stats.StartTime)
	printSummary(out, stats)

	log.Info(ctx, "probe finished",
		logger.Int("checks", stats.Checks),
		logger.Int("failed", stats.Failed),
		logger.Int("requests", int(stats.Requests)),
		logger.String("duration", stats.Duration.String()),
	)

	if stats.Failed > 0 {
		return stats, results, fmt.Errorf("%w: %d of %d", ErrCheckFailed, stats.Failed, stats.Checks)
	}
	return stats, results, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *HTTPClient) error {
	status, _, _, err := c.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// Any 200 is healthy; the endpoint serves Prometheus metrics.
	if status != http.StatusOK {
		return fmt.Errorf("status %d", status)
	}
	return nil
}

// runChecks runs the checks on a worker pool and returns the results in
// check order.
func runChecks(ctx context.Context, checks []check, workers int) []Result {
	results := make([]Result, len(checks))
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				err := ctx.Err()
				if err == nil {
					err = checks[i].run(ctx)
				}
				results[i] = Result{Name: checks[i].name, Err: err, Duration: time.Since(start)}
			}
		}()
	}

	for i := range checks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func printResult(out io.Writer, r Result, verbose bool) {
	if r.Passed() {
		if verbose {
			passColor.Fprint(out, "PASS ")
			fmt.Fprintf(out, "%s ", r.Name)
			dimColor.Fprintf(out, "(%s)\n", r.Duration.Round(time.Millisecond))
		}
		return
	}
	failColor.Fprint(out, "FAIL ")
	fmt.Fprintf(out, "%s: %v\n", r.Name, r.Err)
}

func printSummary(out io.Writer, s Stats) {
	c := passColor
	if s.Failed > 0 {
		c = failColor
	}
	c.Fprintf(out, "%d/%d checks passed", s.Passed, s.Checks)
	dimColor.Fprintf(out, " (%d requests in %s)\n", s.Requests, s.Duration.Round(time.Millisecond))
}
