package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/datasource"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/pipeline"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// tableReport is the inspection result for one table.
type tableReport struct {
	dataset string
	rows    int
	total   int64
	min     int64
	max     int64
	span    string
	err     error
}

func (r tableReport) passed() bool { return r.err == nil }

func newInspectCmd(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load and validate every table and print a summary",
		Long: `Load the heatmap, by_month, and by_hour tables through the same loader the
dashboard uses, then print row counts, violation totals, and ranges. With
--top, also list the streets with the most violations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := datasource.Open(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = source.Close() }()

			loader := pipeline.NewLoader(source, a.logger, observability.NewMetricsWithRegistry(prometheus.NewRegistry()))
			reports, geo := inspectTables(cmd.Context(), loader)

			out := cmd.OutOrStdout()
			if err := printSummary(out, reports); err != nil {
				return err
			}
			if top > 0 && geo != nil {
				if err := printTopStreets(out, geo, top); err != nil {
					return err
				}
			}

			failed := 0
			for _, r := range reports {
				if !r.passed() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tables failed validation", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "List the N streets with the most violations")
	return cmd
}

// inspectTables loads every table, collecting failures instead of stopping
// at the first one. The geo records are returned for the street ranking.
func inspectTables(ctx context.Context, loader *pipeline.Loader) ([]tableReport, []domain.ViolationGeoRecord) {
	reports := make([]tableReport, 0, 3)

	geo, err := loader.LoadGeo(ctx)
	r := tableReport{dataset: domain.DatasetGeo, err: err}
	if err == nil {
		counts := make([]int64, len(geo))
		streets := map[string]struct{}{}
		for i, g := range geo {
			counts[i] = g.Violations
			streets[g.Street] = struct{}{}
		}
		r.summarize(counts)
		r.span = strconv.Itoa(len(streets)) + " streets"
	}
	reports = append(reports, r)

	monthly, err := loader.LoadMonthly(ctx)
	r = tableReport{dataset: domain.DatasetMonthly, err: err}
	if err == nil {
		counts := make([]int64, len(monthly))
		months := make([]string, len(monthly))
		for i, m := range monthly {
			counts[i] = m.Violations
			months[i] = domain.FormatMonthYear(m.MonthYear)
		}
		r.summarize(counts)
		if len(months) > 0 {
			r.span = slices.Min(months) + " .. " + slices.Max(months)
		}
	}
	reports = append(reports, r)

	hourly, err := loader.LoadHourly(ctx)
	r = tableReport{dataset: domain.DatasetHourly, err: err}
	if err == nil {
		counts := make([]int64, len(hourly))
		for i, h := range hourly {
			counts[i] = h.Violations
		}
		r.summarize(counts)
		r.span = strconv.Itoa(len(hourly)) + " of 24 hours"
	}
	reports = append(reports, r)

	if reports[0].err != nil {
		geo = nil
	}
	return reports, geo
}

func (r *tableReport) summarize(counts []int64) {
	r.rows = len(counts)
	if len(counts) == 0 {
		return
	}
	r.min, r.max = slices.Min(counts), slices.Max(counts)
	for _, c := range counts {
		r.total += c
	}
}

func printSummary(w io.Writer, reports []tableReport) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Rows", "Violations", "Min", "Max", "Span", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(reports))
	for _, r := range reports {
		if !r.passed() {
			data = append(data, []string{r.dataset, "-", "-", "-", "-", "-", "FAIL: " + r.err.Error()})
			continue
		}
		data = append(data, []string{
			r.dataset,
			strconv.Itoa(r.rows),
			strconv.FormatInt(r.total, 10),
			strconv.FormatInt(r.min, 10),
			strconv.FormatInt(r.max, 10),
			r.span,
			"ok",
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func printTopStreets(w io.Writer, geo []domain.ViolationGeoRecord, n int) error {
	totals := map[string]int64{}
	for _, g := range geo {
		totals[g.Street] += g.Violations
	}
	type streetTotal struct {
		street string
		count  int64
	}
	ranked := make([]streetTotal, 0, len(totals))
	for s, c := range totals {
		ranked = append(ranked, streetTotal{s, c})
	}
	slices.SortFunc(ranked, func(a, b streetTotal) int {
		return cmp.Or(cmp.Compare(b.count, a.count), cmp.Compare(a.street, b.street))
	})
	ranked = ranked[:min(n, len(ranked))]

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Street", "Violations", "Log Violations"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.street,
			strconv.FormatInt(r.count, 10),
			strconv.FormatFloat(domain.LogViolations(r.count), 'f', 3, 64),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
