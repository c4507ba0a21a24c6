package domain

import "context"

// Repository loads the master data snapshot. One snapshot is fetched per
// computation cycle; callers never write through this interface.
type Repository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}
