package domain

import "time"

const (
	// SeedPoolID identifies the pool created at bootstrap.
	SeedPoolID int64 = 1
	// SeedPoolName is the display name of the bootstrap pool.
	SeedPoolName = "Elite Gaming Pool"
)

// Pool is the shared fund contributions accumulate into. TotalAmount is kept
// equal to the sum of the pool's contribution amounts by the ledger write path.
type Pool struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PoolBalance pairs a pool's stored total with the sum recomputed from its
// contributions.
type PoolBalance struct {
	Pool              Pool
	ContributionSum   int64
	ContributionCount int64
}

// Drift reports how far the stored total is from the recomputed sum.
func (b PoolBalance) Drift() int64 {
	return b.Pool.TotalAmount - b.ContributionSum
}
