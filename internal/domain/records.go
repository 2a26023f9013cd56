package domain

import "time"

// Dataset names, used in errors, logs, and metric labels.
const (
	DatasetGeo     = "geo"
	DatasetMonthly = "monthly"
	DatasetHourly  = "hourly"
)

// RawGeoRow is one row of the heatmap table as stored.
type RawGeoRow struct {
	Street     string  `parquet:"street"`
	Lat        float64 `parquet:"lat"`
	Long       float64 `parquet:"long"`
	Violations int64   `parquet:"violations"`
}

// RawMonthlyRow is one row of the by_month table as stored.
type RawMonthlyRow struct {
	MonthYear  string `parquet:"Month-Year"`
	Violations int64  `parquet:"Violations"`
}

// RawHourlyRow is one row of the by_hour table as stored.
type RawHourlyRow struct {
	Hour       int64 `parquet:"hour"`
	Violations int64 `parquet:"Violations"`
}

// ViolationGeoRecord is a street segment with its violation count and derived log metric.
type ViolationGeoRecord struct {
	Street        string  `json:"street"`
	Lat           float64 `json:"lat"`
	Long          float64 `json:"long"`
	Violations    int64   `json:"violations"`
	LogViolations float64 `json:"log_violations"`
}

// MonthlyViolationRecord is the violation total for one calendar month.
type MonthlyViolationRecord struct {
	MonthYear  time.Time `json:"month_year"` // first of the month, UTC
	Violations int64     `json:"violations"`
}

// HourlyViolationRecord is the violation total for one hour-of-day bucket.
type HourlyViolationRecord struct {
	Hour       int   `json:"hour"`
	Violations int64 `json:"violations"`
}
