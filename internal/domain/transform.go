package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// MonthYearLayout is the storage and display layout of month labels.
const MonthYearLayout = "2006-01"

// HoursPerDay bounds the hourly table.
const HoursPerDay = 24

var (
	errNegativeCount  = errors.New("violation count is negative")
	errNonFinite      = errors.New("coordinate is not a finite number")
	errOutOfRange     = errors.New("value out of range")
	errDuplicateMonth = errors.New("duplicate month")
	errDuplicateHour  = errors.New("duplicate hour")
)

// LogViolations returns ln(1 + violations), the metric used for map coloring.
func LogViolations(violations int64) float64 {
	return math.Log1p(float64(violations))
}

// ParseMonthYear parses a "YYYY-MM" label into the first of that month at 00:00 UTC.
func ParseMonthYear(s string) (time.Time, error) {
	t, err := time.Parse(MonthYearLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// FormatMonthYear renders a month back to its "YYYY-MM" label.
func FormatMonthYear(t time.Time) string {
	return t.UTC().Format(MonthYearLayout)
}

// NewGeoRecords validates heatmap rows and derives log_violations for each.
func NewGeoRecords(rows []RawGeoRow) ([]ViolationGeoRecord, error) {
	records := make([]ViolationGeoRecord, 0, len(rows))
	for i, row := range rows {
		if err := checkCoordinate(row.Lat, 90); err != nil {
			return nil, &RecordError{Dataset: DatasetGeo, Row: i, Field: "lat", Err: err}
		}
		if err := checkCoordinate(row.Long, 180); err != nil {
			return nil, &RecordError{Dataset: DatasetGeo, Row: i, Field: "long", Err: err}
		}
		if row.Violations < 0 {
			return nil, &RecordError{Dataset: DatasetGeo, Row: i, Field: "violations", Err: errNegativeCount}
		}
		records = append(records, ViolationGeoRecord{
			Street:        row.Street,
			Lat:           row.Lat,
			Long:          row.Long,
			Violations:    row.Violations,
			LogViolations: LogViolations(row.Violations),
		})
	}
	return records, nil
}

// NewMonthlyRecords parses month labels and rejects duplicate months.
// Row order is preserved; chronological ordering is the chart's job.
func NewMonthlyRecords(rows []RawMonthlyRow) ([]MonthlyViolationRecord, error) {
	records := make([]MonthlyViolationRecord, 0, len(rows))
	seen := make(map[time.Time]struct{}, len(rows))
	for i, row := range rows {
		month, err := ParseMonthYear(row.MonthYear)
		if err != nil {
			return nil, &RecordError{Dataset: DatasetMonthly, Row: i, Field: "Month-Year", Err: err}
		}
		if _, dup := seen[month]; dup {
			return nil, &RecordError{Dataset: DatasetMonthly, Row: i, Field: "Month-Year", Err: errDuplicateMonth}
		}
		seen[month] = struct{}{}
		if row.Violations < 0 {
			return nil, &RecordError{Dataset: DatasetMonthly, Row: i, Field: "Violations", Err: errNegativeCount}
		}
		records = append(records, MonthlyViolationRecord{MonthYear: month, Violations: row.Violations})
	}
	return records, nil
}

// NewHourlyRecords checks hours are within 0-23 and unique.
func NewHourlyRecords(rows []RawHourlyRow) ([]HourlyViolationRecord, error) {
	records := make([]HourlyViolationRecord, 0, len(rows))
	var seen [HoursPerDay]bool
	for i, row := range rows {
		if row.Hour < 0 || row.Hour >= HoursPerDay {
			return nil, &RecordError{Dataset: DatasetHourly, Row: i, Field: "hour", Err: fmt.Errorf("%w: %d", errOutOfRange, row.Hour)}
		}
		if seen[row.Hour] {
			return nil, &RecordError{Dataset: DatasetHourly, Row: i, Field: "hour", Err: errDuplicateHour}
		}
		seen[row.Hour] = true
		if row.Violations < 0 {
			return nil, &RecordError{Dataset: DatasetHourly, Row: i, Field: "Violations", Err: errNegativeCount}
		}
		records = append(records, HourlyViolationRecord{Hour: int(row.Hour), Violations: row.Violations})
	}
	return records, nil
}

func checkCoordinate(v, limit float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errNonFinite
	}
	if v < -limit || v > limit {
		return fmt.Errorf("%w: %g", errOutOfRange, v)
	}
	return nil
}
