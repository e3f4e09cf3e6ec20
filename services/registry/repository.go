package registry

import "context"

// SequenceRepo defines the persistence interface for ID sequences
type SequenceRepo interface {
	NextValue(ctx context.Context, entity string) (int64, error)
	EnsureAtLeast(ctx context.Context, entity string, value int64) error
	MaxAssignedSuffix(ctx context.Context, table, column, prefix string) (int64, error)
}
