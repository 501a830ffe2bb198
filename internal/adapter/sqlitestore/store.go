// Package sqlitestore keeps the ledger in a single-file SQLite database via gorm.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"poolledger/internal/domain"
)

// Store implements domain.LedgerRepository on top of gorm.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&poolRow{}, &contributionRow{}); err != nil {
		return storageErr("migrate", err)
	}
	return nil
}

func (s *Store) EnsurePool(ctx context.Context, pool domain.Pool) (bool, error) {
	now := time.Now().UTC()
	row := poolRow{ID: pool.ID, Name: pool.Name, CreatedAt: now, UpdatedAt: now}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return false, storageErr("ensure pool", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) ListPools(ctx context.Context) ([]domain.Pool, error) {
	var rows []poolRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, storageErr("list pools", err)
	}
	pools := make([]domain.Pool, 0, len(rows))
	for _, row := range rows {
		pools = append(pools, row.toDomain())
	}
	return pools, nil
}

// ApplyContribution increments the pool total in SQL and inserts the
// contribution inside one transaction. The increment runs first so the write
// lock is taken before the insert.
func (s *Store) ApplyContribution(ctx context.Context, c *domain.Contribution) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		// SQLite silently turns an overflowing integer sum into a REAL.
		res := tx.Model(&poolRow{}).
			Where("id = ? AND total_amount <= ?", c.PoolID, math.MaxInt64-c.Amount).
			Updates(map[string]any{
				"total_amount": gorm.Expr("total_amount + ?", c.Amount),
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&poolRow{}).Where("id = ?", c.PoolID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrTotalOverflow
			}
			return domain.ErrNotFound
		}
		row := contributionRow{
			UserName:  c.UserName,
			Phone:     c.Phone,
			Amount:    c.Amount,
			PoolID:    c.PoolID,
			CreatedAt: now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		c.ID = row.ID
		c.CreatedAt = row.CreatedAt
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return err
		}
		return storageErr("apply contribution", err)
	}
	return nil
}

func (s *Store) ListContributions(ctx context.Context, poolID int64) ([]domain.Contribution, error) {
	var rows []contributionRow
	if err := s.db.WithContext(ctx).Where("pool_id = ?", poolID).Order("id").Find(&rows).Error; err != nil {
		return nil, storageErr("list contributions", err)
	}
	out := make([]domain.Contribution, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) PoolBalances(ctx context.Context) ([]domain.PoolBalance, error) {
	var rows []balanceRow
	err := s.db.WithContext(ctx).Raw(`
SELECT p.id, p.name, p.total_amount,
       COALESCE(SUM(c.amount), 0) AS contribution_sum,
       COUNT(c.id) AS contribution_count
FROM pools p
LEFT JOIN contributions c ON c.pool_id = p.id
GROUP BY p.id, p.name, p.total_amount
ORDER BY p.id`).Scan(&rows).Error
	if err != nil {
		return nil, storageErr("pool balances", err)
	}
	out := make([]domain.PoolBalance, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PoolBalance{
			Pool:              domain.Pool{ID: row.ID, Name: row.Name, TotalAmount: row.TotalAmount},
			ContributionSum:   row.ContributionSum,
			ContributionCount: row.ContributionCount,
		})
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

var _ domain.LedgerRepository = (*Store)(nil)
