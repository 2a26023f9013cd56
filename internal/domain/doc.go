// Package domain models the precomputed NYC alternate side parking violation
// tables that feed the dashboard.
//
// # Data Source
//
// The tables were aggregated upstream from the NYC Open Data "Open Parking and
// Camera Violations" dataset (FY24), joined to street centerlines from the NYC
// LION GeoDatabase. This service never recomputes the aggregates; it only reads
// them and applies two render-time transforms.
//
// # Tables
//
//	heatmap:  street, lat, long, violations   one row per street segment
//	by_month: Month-Year, Violations          one row per calendar month
//	by_hour:  hour, Violations                one row per hour of day (0-23)
//
// # Render-time transforms
//
// Log-scaled metric:
//
//	log_violations = ln(1 + violations)
//
//	Recomputed from the raw count on every load so a stale stored value can
//	never disagree with its count. ln(1+0) = 0, so the metric is always >= 0.
//
// Month labels:
//
//	"YYYY-MM" strings are parsed into a time.Time at 00:00 UTC on the first of
//	the month. Any other shape is a malformed record.
//
// # Errors
//
// Failures are classified by the sentinels [ErrMissingDataFile],
// [ErrMalformedRecord] and [ErrEmptyDataset]. None are retried: the data is
// static, so a retry cannot change the outcome.
package domain
