// Package ledger holds the contribution write path and the pool read path.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"poolledger/internal/domain"
)

// PoolCache stores the pool listing between reads. A miss is reported with
// ok=false and a nil error.
type PoolCache interface {
	GetPools(ctx context.Context) ([]domain.Pool, bool, error)
	SetPools(ctx context.Context, pools []domain.Pool) error
	InvalidatePools(ctx context.Context) error
}

// Service validates contributions, folds them into pool totals and lists pools.
type Service struct {
	repo   domain.LedgerRepository
	cache  PoolCache
	logger zerolog.Logger

	// cacheMu orders cache refills against invalidations. generation counts
	// invalidations so a listing read before a commit is never cached after it.
	cacheMu    sync.Mutex
	generation uint64
}

// NewService builds a Service. cache may be nil.
func NewService(repo domain.LedgerRepository, cache PoolCache, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger.With().Str("component", "ledger").Logger()}
}

// Bootstrap ensures the schema exists and seeds the default pool if missing.
func (s *Service) Bootstrap(ctx context.Context) error {
	if err := s.repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	created, err := s.repo.EnsurePool(ctx, domain.Pool{ID: domain.SeedPoolID, Name: domain.SeedPoolName})
	if err != nil {
		return fmt.Errorf("seed pool: %w", err)
	}
	if created {
		s.logger.Info().Int64("pool_id", domain.SeedPoolID).Str("name", domain.SeedPoolName).Msg("seed pool created")
		s.invalidate(ctx)
	}
	return nil
}

// Submit validates the input and records the contribution. It returns an
// error wrapping domain.ErrValidation or domain.ErrNotFound for client
// mistakes and domain.ErrStorage for store failures.
func (s *Service) Submit(ctx context.Context, in domain.ContributionInput) (*domain.Contribution, error) {
	v, err := validate(in)
	if err != nil {
		return nil, err
	}
	contribution := &domain.Contribution{
		PoolID:   v.PoolID,
		UserName: v.UserName,
		Phone:    v.Phone,
		Amount:   v.Amount,
	}
	if err := s.repo.ApplyContribution(ctx, contribution); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("pool %d: %w", v.PoolID, domain.ErrNotFound)
		}
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Debug().
		Int64("pool_id", contribution.PoolID).
		Int64("contribution_id", contribution.ID).
		Int64("amount", contribution.Amount).
		Msg("contribution recorded")
	return contribution, nil
}

// ListPools returns every pool in id order.
func (s *Service) ListPools(ctx context.Context) ([]domain.Pool, error) {
	if s.cache != nil {
		pools, ok, err := s.cache.GetPools(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("pool cache read failed")
		} else if ok {
			return pools, nil
		}
	}
	gen := s.currentGeneration()
	pools, err := s.repo.ListPools(ctx)
	if err != nil {
		return nil, err
	}
	if pools == nil {
		pools = []domain.Pool{}
	}
	s.refill(ctx, gen, pools)
	return pools, nil
}

func (s *Service) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// refill caches pools unless an invalidation happened since gen was read.
func (s *Service) refill(ctx context.Context, gen uint64, pools []domain.Pool) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return
	}
	if err := s.cache.SetPools(ctx, pools); err != nil {
		s.logger.Warn().Err(err).Msg("pool cache write failed")
	}
}

// Contributions lists the contributions recorded against a pool.
func (s *Service) Contributions(ctx context.Context, poolID int64) ([]domain.Contribution, error) {
	return s.repo.ListContributions(ctx, poolID)
}

// Audit recomputes every pool's contribution sum next to its stored total.
func (s *Service) Audit(ctx context.Context) ([]domain.PoolBalance, error) {
	return s.repo.PoolBalances(ctx)
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if err := s.cache.InvalidatePools(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("pool cache invalidation failed")
	}
}
