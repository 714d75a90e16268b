package domain

import "context"

// ReviewStore is the persistence port for review records. Implementations
// must rely on conditional writes for concurrency safety; the service layer
// never locks
type ReviewStore interface {
	// Put creates a record, failing with a conditional error if the id exists
	Put(ctx context.Context, rec ReviewRecord) error

	// ByStatus returns up to limit records for a status, newest first
	ByStatus(ctx context.Context, status ReviewStatus, limit int) ([]ReviewRecord, error)

	// Moderate transitions an existing record and returns the updated row.
	// A missing id surfaces as a conditional error
	Moderate(ctx context.Context, id string, decision ReviewStatus, moderatedBy, note, at string) (ReviewRecord, error)
}
