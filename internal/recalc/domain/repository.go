package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Progress is the counter state written on every terminal transition.
type Progress struct {
	Processed int
	Failed    int
	Errors    []ErrorDetail
}

// Repository persists recalculation jobs. All status transitions are
// conditional updates so concurrent workers cannot double-claim or overwrite
// a terminal status.
type Repository interface {
	Insert(ctx context.Context, job *RecalculationJob) error
	FindByID(ctx context.Context, id snowflake.ID) (*RecalculationJob, error)
	List(ctx context.Context, limit int) ([]RecalculationJob, error)

	// CancelRunning marks every running job cancelled and returns how many
	// rows changed. Zero means no processing loop is alive.
	CancelRunning(ctx context.Context, now time.Time) (int64, error)

	// FetchLatestPending returns the most recent pending job, or nil.
	FetchLatestPending(ctx context.Context) (*RecalculationJob, error)

	// CancelOtherPending marks pending jobs other than keepID cancelled.
	CancelOtherPending(ctx context.Context, keepID snowflake.ID, now time.Time) error

	// ClaimPending transitions one job pending -> running. False means
	// another worker or a supersession got there first.
	ClaimPending(ctx context.Context, id snowflake.ID, now time.Time) (bool, error)

	// HasNewerPending reports whether a pending job newer than id exists.
	HasNewerPending(ctx context.Context, id snowflake.ID) (bool, error)

	SetTotalProducts(ctx context.Context, id snowflake.ID, total int) error

	// Terminal transitions. Each only applies while the job is running.
	MarkCompleted(ctx context.Context, id snowflake.ID, p Progress, now time.Time) error
	MarkCancelled(ctx context.Context, id snowflake.ID, p Progress, now time.Time) error
	MarkFailed(ctx context.Context, id snowflake.ID, p Progress, now time.Time) error
}
