package pipeline

import (
	"context"
	"fmt"
)

// load runs one extract-transform pass for a single table. Failures are
// fatal for the caller's render path; nothing is retried.
func load[R, T any](
	ctx context.Context,
	l *Loader,
	dataset string,
	extract func(context.Context) ([]R, error),
	transform func([]R) ([]T, error),
) ([]T, error) {
	start := l.clock.Now()

	rows, err := extract(ctx)
	if err != nil {
		return nil, l.fail(ctx, dataset, "extract", err)
	}

	records, err := transform(rows)
	if err != nil {
		return nil, l.fail(ctx, dataset, "transform", err)
	}

	elapsed := l.clock.Since(start)
	l.metrics.DatasetLoadDuration.WithLabelValues(dataset).Observe(elapsed.Seconds())
	l.metrics.DatasetRows.WithLabelValues(dataset).Set(float64(len(records)))
	l.logger.Debug("dataset loaded", "dataset", dataset, "rows", len(records), "duration", elapsed)
	return records, nil
}

func (l *Loader) fail(ctx context.Context, dataset, stage string, err error) error {
	// A cancelled request is not a data problem.
	if ctx.Err() == nil {
		l.metrics.DatasetLoadErrors.WithLabelValues(dataset).Inc()
		l.logger.Error("dataset load failed", "dataset", dataset, "stage", stage, "error", err)
	}
	return fmt.Errorf("load %s: %w", dataset, err)
}
