package ingest

import "context"

// Store is the write side used by ingestion.
type Store interface {
	// EnsureSchema creates missing tables; it is a no-op when they exist.
	EnsureSchema(ctx context.Context) error
	// MergeBatch upserts every present entity of every tuple, in order, in
	// one transaction. It returns the number of rows upserted per table.
	MergeBatch(ctx context.Context, batch []Entities) (map[string]int, error)
	// DanglingReferences counts rows whose foreign key does not resolve,
	// keyed by reference name (e.g. "interest.member_id").
	DanglingReferences(ctx context.Context) (map[string]int64, error)
	// RecordCompletedRun stores the marker of a successful run.
	RecordCompletedRun(ctx context.Context, run CompletedRun) error
	// HasCompletedRun reports whether any run ever finished successfully.
	HasCompletedRun(ctx context.Context) (bool, error)
}
