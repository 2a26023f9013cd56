package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

type importOptions struct {
	geo     string
	monthly string
	hourly  string
}

func newImportCmd(a *app) *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load precomputed CSV exports of the three tables into the configured source",
		Long: `Read CSV exports of the precomputed tables and write them to the configured
data source. Headers must match the stored column names:

  heatmap:  street,lat,long,violations
  by_month: Month-Year,Violations
  by_hour:  hour,Violations

Rows are validated with the same rules the dashboard applies on load.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			geo, err := readGeoCSV(opts.geo)
			if err != nil {
				return err
			}
			monthly, err := readMonthlyCSV(opts.monthly)
			if err != nil {
				return err
			}
			hourly, err := readHourlyCSV(opts.hourly)
			if err != nil {
				return err
			}
			if err := validateTables(geo, monthly, hourly); err != nil {
				return err
			}
			if err := writeTables(cmd.Context(), a.cfg, geo, monthly, hourly); err != nil {
				return err
			}
			a.logger.Info("tables imported",
				"source", a.cfg.DataSource,
				"geo_rows", len(geo),
				"monthly_rows", len(monthly),
				"hourly_rows", len(hourly),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.geo, "geo", "", "CSV export of the heatmap table")
	cmd.Flags().StringVar(&opts.monthly, "monthly", "", "CSV export of the by_month table")
	cmd.Flags().StringVar(&opts.hourly, "hourly", "", "CSV export of the by_hour table")
	for _, name := range []string{"geo", "monthly", "hourly"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// csvTable is a CSV file indexed by header name.
type csvTable struct {
	dataset string
	colIdx  map[string]int
	rows    [][]string
}

func readCSVTable(path, dataset string, required ...string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingDataFile, dataset, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read csv: %w", domain.ErrMalformedRecord, dataset, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: no header row", domain.ErrMalformedRecord, dataset)
	}

	t := &csvTable{dataset: dataset, colIdx: map[string]int{}, rows: rows[1:]}
	for i, h := range rows[0] {
		t.colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := t.colIdx[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", domain.ErrMalformedRecord, dataset, col)
		}
	}
	return t, nil
}

func (t *csvTable) get(row []string, col string) string {
	i := t.colIdx[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *csvTable) parseFloat(i int, row []string, col string) (float64, error) {
	v, err := strconv.ParseFloat(t.get(row, col), 64)
	if err != nil {
		return 0, &domain.RecordError{Dataset: t.dataset, Row: i, Field: col, Err: err}
	}
	return v, nil
}

func (t *csvTable) parseInt(i int, row []string, col string) (int64, error) {
	v, err := strconv.ParseInt(t.get(row, col), 10, 64)
	if err != nil {
		return 0, &domain.RecordError{Dataset: t.dataset, Row: i, Field: col, Err: err}
	}
	return v, nil
}

func readGeoCSV(path string) ([]domain.RawGeoRow, error) {
	t, err := readCSVTable(path, domain.DatasetGeo, "street", "lat", "long", "violations")
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawGeoRow, 0, len(t.rows))
	for i, row := range t.rows {
		r := domain.RawGeoRow{Street: t.get(row, "street")}
		if r.Lat, err = t.parseFloat(i, row, "lat"); err != nil {
			return nil, err
		}
		if r.Long, err = t.parseFloat(i, row, "long"); err != nil {
			return nil, err
		}
		if r.Violations, err = t.parseInt(i, row, "violations"); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func readMonthlyCSV(path string) ([]domain.RawMonthlyRow, error) {
	t, err := readCSVTable(path, domain.DatasetMonthly, "Month-Year", "Violations")
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawMonthlyRow, 0, len(t.rows))
	for i, row := range t.rows {
		r := domain.RawMonthlyRow{MonthYear: t.get(row, "Month-Year")}
		if r.Violations, err = t.parseInt(i, row, "Violations"); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func readHourlyCSV(path string) ([]domain.RawHourlyRow, error) {
	t, err := readCSVTable(path, domain.DatasetHourly, "hour", "Violations")
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawHourlyRow, 0, len(t.rows))
	for i, row := range t.rows {
		var r domain.RawHourlyRow
		if r.Hour, err = t.parseInt(i, row, "hour"); err != nil {
			return nil, err
		}
		if r.Violations, err = t.parseInt(i, row, "Violations"); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
