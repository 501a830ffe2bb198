package repo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"poolledger/internal/domain"
	"poolledger/internal/infra"
	"poolledger/internal/sqlinline"
)

// SchemaMigrator applies the Postgres schema.
type SchemaMigrator interface {
	Migrate(ctx context.Context) error
}

// LedgerRepositoryPG implements domain.LedgerRepository using PostgreSQL.
type LedgerRepositoryPG struct {
	db       infra.TxRunner
	migrator SchemaMigrator
	close    func()
}

// NewLedgerRepository creates a Postgres ledger repository. closeFn releases
// the underlying pool and may be nil.
func NewLedgerRepository(db infra.TxRunner, migrator SchemaMigrator, closeFn func()) *LedgerRepositoryPG {
	return &LedgerRepositoryPG{db: db, migrator: migrator, close: closeFn}
}

// Migrate applies pending schema migrations.
func (r *LedgerRepositoryPG) Migrate(ctx context.Context) error {
	if r.migrator == nil {
		return nil
	}
	if err := r.migrator.Migrate(ctx); err != nil {
		return storageErr("migrate", err)
	}
	return nil
}

// EnsurePool inserts the pool unless its id is taken, then keeps the id
// sequence ahead of the seeded id.
func (r *LedgerRepositoryPG) EnsurePool(ctx context.Context, pool domain.Pool) (bool, error) {
	var created bool
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		tag, err := tx.Exec(ctx, sqlinline.QSeedPool, pool.ID, pool.Name)
		if err != nil {
			return err
		}
		created = tag.RowsAffected() == 1
		var next int64
		return tx.QueryRow(ctx, sqlinline.QSyncPoolSequence).Scan(&next)
	})
	if err != nil {
		return false, storageErr("ensure pool", err)
	}
	return created, nil
}

// ListPools returns all pools ordered by id.
func (r *LedgerRepositoryPG) ListPools(ctx context.Context) ([]domain.Pool, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListPools)
	if err != nil {
		return nil, storageErr("list pools", err)
	}
	defer rows.Close()

	items := []domain.Pool{}
	for rows.Next() {
		var p domain.Pool
		if err := rows.Scan(&p.ID, &p.Name, &p.TotalAmount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storageErr("scan pool", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list pools", err)
	}
	return items, nil
}

// ApplyContribution increments the pool total and inserts the contribution in
// one transaction. The UPDATE holds the pool row lock until commit. An amount
// that would overflow the total yields domain.ErrTotalOverflow.
func (r *LedgerRepositoryPG) ApplyContribution(ctx context.Context, c *domain.Contribution) error {
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		var poolID int64
		err := tx.QueryRow(ctx, sqlinline.QIncrementPoolTotal, c.PoolID, c.Amount, math.MaxInt64-c.Amount).Scan(&poolID)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, sqlinline.QPoolExists, c.PoolID).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return domain.ErrTotalOverflow
			}
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, sqlinline.QInsertContribution, poolID, c.UserName, c.Phone, c.Amount).
			Scan(&c.ID, &c.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return err
		}
		return storageErr("apply contribution", err)
	}
	return nil
}

// ListContributions returns the contributions of one pool ordered by id.
func (r *LedgerRepositoryPG) ListContributions(ctx context.Context, poolID int64) ([]domain.Contribution, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListContributionsByPool, poolID)
	if err != nil {
		return nil, storageErr("list contributions", err)
	}
	defer rows.Close()

	items := []domain.Contribution{}
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.ID, &c.PoolID, &c.UserName, &c.Phone, &c.Amount, &c.CreatedAt); err != nil {
			return nil, storageErr("scan contribution", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list contributions", err)
	}
	return items, nil
}

// PoolBalances returns stored totals next to recomputed contribution sums.
func (r *LedgerRepositoryPG) PoolBalances(ctx context.Context) ([]domain.PoolBalance, error) {
	rows, err := r.db.Query(ctx, sqlinline.QPoolBalances)
	if err != nil {
		return nil, storageErr("pool balances", err)
	}
	defer rows.Close()

	items := []domain.PoolBalance{}
	for rows.Next() {
		var b domain.PoolBalance
		if err := rows.Scan(&b.Pool.ID, &b.Pool.Name, &b.Pool.TotalAmount, &b.ContributionSum, &b.ContributionCount); err != nil {
			return nil, storageErr("scan balance", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("pool balances", err)
	}
	return items, nil
}

func (r *LedgerRepositoryPG) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

func (r *LedgerRepositoryPG) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

var _ domain.LedgerRepository = (*LedgerRepositoryPG)(nil)
