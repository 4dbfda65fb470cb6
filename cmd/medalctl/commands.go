package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	service "github.com/okian/agegap/internal/app"
	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/types"
)

func (c *cli) aggregateCmd() *cobra.Command {
	var (
		sel    figureFlags
		year   int
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Print the per-sport aggregate rows for every year.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, toTable, err := fileFormat(format)
			if err != nil {
				return err
			}
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			w, closeFn, err := c.output(out)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			if !toTable {
				if err := svc.ExportAggregates(cmd.Context(), w, f, sel.request()); err != nil {
					return err
				}
				return closeFn()
			}
			rows, err := svc.Aggregate(cmd.Context(), sel.request())
			if err != nil {
				return err
			}
			if year != 0 {
				rows = rowsOfYear(rows, year)
			}
			return printAggregates(w, rows)
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "only print this year (table output)")
	cmd.Flags().StringVar(&format, "format", formatTable, "table, csv, xlsx or parquet")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) filterCmd() *cobra.Command {
	var (
		req    service.TableRequest
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter, sort and page the medalist table.",
		Long: `Filter the medalist table with the dashboard's filter language.

Clauses are joined with " && "; each is "{Column} op value" where op is one of
ge le lt gt ne eq (or >= <= < > != =), contains or datestartswith. Clauses
that cannot be applied are reported and ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, toTable, err := fileFormat(format)
			if err != nil {
				return err
			}
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			w, closeFn, err := c.output(out)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			if !toTable {
				if err := svc.Export(cmd.Context(), w, f, req); err != nil {
					return err
				}
				return closeFn()
			}
			page, err := svc.ApplyFilter(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printPage(w, page)
		},
	}
	cmd.Flags().StringVarP(&req.FilterQuery, "query", "q", "", "filter query")
	cmd.Flags().StringVar(&req.SortBy, "sort", "", `sort order, e.g. "Age desc, Player" (default Age desc)`)
	cmd.Flags().IntVar(&req.Page, "page", 0, "0-based page (table output)")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 0, "rows per page (table output, default configured)")
	cmd.Flags().StringVar(&format, "format", formatTable, "table, csv, xlsx or parquet")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) framesCmd() *cobra.Command {
	var (
		sel    figureFlags
		noText bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Write the animated figure as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			req := sel.request()
			if noText {
				show := false
				req.ShowText = &show
			}
			fig, err := svc.ComputeFrames(cmd.Context(), req)
			if err != nil {
				return err
			}
			w, closeFn, err := c.output(out)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(fig); err != nil {
				return fmt.Errorf("encode figure: %w", err)
			}
			return closeFn()
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&noText, "no-text", false, "hide bubble labels")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) snapshotCmd() *cobra.Command {
	var (
		sel  figureFlags
		year int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the frame of one year as PNG.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			w, closeFn, err := c.output(out)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			if err := svc.Snapshot(cmd.Context(), w, year, sel.request()); err != nil {
				return err
			}
			return closeFn()
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "year of the frame")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG file")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func rowsOfYear(rows []types.AggregateRow, year int) []types.AggregateRow {
	var out []types.AggregateRow
	for _, r := range rows {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

func formatNumber(n types.Number) string {
	if !n.Valid() {
		return "-"
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func printAggregates(w io.Writer, rows []types.AggregateRow) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Sport", "Category", "All", "Male", "Female", "FaM", "FoM", "AoAll"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.Year),
			r.Sport,
			r.Category,
			strconv.Itoa(r.All),
			strconv.Itoa(r.Male),
			strconv.Itoa(r.Female),
			strconv.Itoa(r.FaM),
			strconv.FormatFloat(r.FoM, 'f', -1, 64),
			formatNumber(r.AoAll),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func printPage(w io.Writer, page service.TablePage) error {
	table := tablewriter.NewWriter(w)
	table.Header(model.DisplayColumns)

	data := make([][]string, 0, len(page.Rows))
	for _, r := range page.Rows {
		data = append(data, r.Cells())
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "page %d/%d, %d rows\n", page.Page+1, max(page.Pages, 1), page.Total)
	for _, s := range page.Report.Skipped {
		if err != nil {
			break
		}
		_, err = fmt.Fprintf(w, "ignored %q: %s\n", s.Clause, s.Reason)
	}
	return err
}
