package domain

import "context"

// LedgerRepository persists pools and contributions. Implementations must
// apply a contribution and its pool total increment in one transaction.
type LedgerRepository interface {
	// Migrate ensures the schema exists.
	Migrate(ctx context.Context) error
	// EnsurePool inserts the pool if no pool with its ID exists and reports
	// whether a row was created.
	EnsurePool(ctx context.Context, pool Pool) (bool, error)
	ListPools(ctx context.Context) ([]Pool, error)
	// ApplyContribution increments the owning pool's total and inserts the
	// contribution atomically. It returns ErrNotFound when the pool is absent
	// and fills ID and CreatedAt on success.
	ApplyContribution(ctx context.Context, contribution *Contribution) error
	ListContributions(ctx context.Context, poolID int64) ([]Contribution, error)
	PoolBalances(ctx context.Context) ([]PoolBalance, error)
	Ping(ctx context.Context) error
	Close() error
}
