// Command datatool manages the tables behind the parking violations
// dashboard: it seeds sample data, imports precomputed CSV exports, migrates
// SQL schemas, inspects stored tables, and renders the page to a static file.
//
// Usage:
//
//	go run ./cmd/datatool seed --source parquet --data-dir data
//	go run ./cmd/datatool inspect --top 10
//	go run ./cmd/datatool render --out dashboard.html
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
