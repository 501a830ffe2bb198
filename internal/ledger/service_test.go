package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"poolledger/internal/domain"
)

type memoryRepo struct {
	mu            sync.Mutex
	pools         []domain.Pool
	contributions []domain.Contribution
	applyErr      error
	migrations    int
	// afterList runs once, after ListPools copied its result.
	afterList func()
}

func (m *memoryRepo) Migrate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.migrations++
	return nil
}

func (m *memoryRepo) EnsurePool(_ context.Context, pool domain.Pool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pools {
		if p.ID == pool.ID {
			return false, nil
		}
	}
	m.pools = append(m.pools, pool)
	return true, nil
}

func (m *memoryRepo) ListPools(context.Context) ([]domain.Pool, error) {
	m.mu.Lock()
	pools := append([]domain.Pool(nil), m.pools...)
	hook := m.afterList
	m.afterList = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return pools, nil
}

func (m *memoryRepo) ApplyContribution(_ context.Context, c *domain.Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return m.applyErr
	}
	for i := range m.pools {
		if m.pools[i].ID == c.PoolID {
			m.pools[i].TotalAmount += c.Amount
			c.ID = int64(len(m.contributions) + 1)
			m.contributions = append(m.contributions, *c)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memoryRepo) ListContributions(_ context.Context, poolID int64) ([]domain.Contribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Contribution
	for _, c := range m.contributions {
		if c.PoolID == poolID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) PoolBalances(context.Context) ([]domain.PoolBalance, error) {
	return nil, nil
}

func (m *memoryRepo) Ping(context.Context) error { return nil }

func (m *memoryRepo) Close() error { return nil }

type memoryCache struct {
	pools       []domain.Pool
	filled      bool
	invalidated int
	getErr      error
}

func (c *memoryCache) GetPools(context.Context) ([]domain.Pool, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.pools, c.filled, nil
}

func (c *memoryCache) SetPools(_ context.Context, pools []domain.Pool) error {
	c.pools = pools
	c.filled = true
	return nil
}

func (c *memoryCache) InvalidatePools(context.Context) error {
	c.pools = nil
	c.filled = false
	c.invalidated++
	return nil
}

func newTestService(t *testing.T, cache PoolCache) (*Service, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{}
	svc := NewService(repo, cache, zerolog.Nop())
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return svc, repo
}

func payment(poolID, userName, phone, amount string) domain.ContributionInput {
	return domain.ContributionInput{
		PoolID:   json.RawMessage(poolID),
		UserName: userName,
		Phone:    phone,
		Amount:   json.RawMessage(amount),
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t, nil)
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second Bootstrap() error = %v", err)
	}
	if len(repo.pools) != 1 {
		t.Fatalf("pools = %d, want 1", len(repo.pools))
	}
	if repo.pools[0].ID != domain.SeedPoolID || repo.pools[0].Name != domain.SeedPoolName {
		t.Fatalf("seed pool = %+v", repo.pools[0])
	}
	if repo.migrations != 2 {
		t.Fatalf("migrations = %d, want 2", repo.migrations)
	}
}

func TestSubmitScenario(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil)

	c, err := svc.Submit(ctx, payment(`1`, "Alice", "555", `50`))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if c.Amount != 50 || c.PoolID != 1 || c.UserName != "Alice" {
		t.Fatalf("contribution = %+v", c)
	}

	if _, err := svc.Submit(ctx, payment(`1`, "", "555", `10`)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank name error = %v, want ErrValidation", err)
	}
	if _, err := svc.Submit(ctx, payment(`99`, "Bob", "555", `10`)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing pool error = %v, want ErrNotFound", err)
	}

	pools, err := svc.ListPools(ctx)
	if err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if len(pools) != 1 || pools[0].TotalAmount != 50 {
		t.Fatalf("pools = %+v, want total 50", pools)
	}
	if len(repo.contributions) != 1 {
		t.Fatalf("contributions = %d, want 1", len(repo.contributions))
	}
}

func TestSubmitPassesStorageErrorsThrough(t *testing.T) {
	svc, repo := newTestService(t, nil)
	storeErr := errors.Join(domain.ErrStorage, errors.New("disk full"))
	repo.applyErr = storeErr

	_, err := svc.Submit(context.Background(), payment(`1`, "Alice", "555", `5`))
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("Submit() error = %v, want ErrStorage", err)
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("storage error misclassified: %v", err)
	}
}

func TestListPoolsUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := &memoryCache{}
	svc, _ := newTestService(t, cache)

	if _, err := svc.ListPools(ctx); err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if !cache.filled {
		t.Fatal("expected cache to be filled after a miss")
	}

	cache.pools = []domain.Pool{{ID: 1, Name: "cached", TotalAmount: 9}}
	pools, err := svc.ListPools(ctx)
	if err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if pools[0].Name != "cached" {
		t.Fatalf("expected cached listing, got %+v", pools)
	}

	before := cache.invalidated
	if _, err := svc.Submit(ctx, payment(`1`, "Alice", "555", `5`)); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if cache.invalidated != before+1 {
		t.Fatalf("invalidated = %d, want %d", cache.invalidated, before+1)
	}
	pools, err = svc.ListPools(ctx)
	if err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if pools[0].TotalAmount != 5 {
		t.Fatalf("total = %d, want 5 after invalidation", pools[0].TotalAmount)
	}
}

func TestListPoolsFallsBackOnCacheError(t *testing.T) {
	cache := &memoryCache{getErr: errors.New("redis down")}
	svc, _ := newTestService(t, cache)

	pools, err := svc.ListPools(context.Background())
	if err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if len(pools) != 1 {
		t.Fatalf("pools = %d, want 1", len(pools))
	}
}

func TestListPoolsDoesNotCacheListingOlderThanCommit(t *testing.T) {
	ctx := context.Background()
	cache := &memoryCache{}
	svc, repo := newTestService(t, cache)

	repo.afterList = func() {
		if _, err := svc.Submit(ctx, payment(`1`, "Alice", "555", `50`)); err != nil {
			t.Errorf("Submit() error = %v", err)
		}
	}

	pools, err := svc.ListPools(ctx)
	if err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if pools[0].TotalAmount != 0 {
		t.Fatalf("read total = %d, want the pre-commit 0", pools[0].TotalAmount)
	}
	if cache.filled {
		t.Fatalf("listing read before the commit was cached: %+v", cache.pools)
	}

	pools, err = svc.ListPools(ctx)
	if err != nil {
		t.Fatalf("ListPools() error = %v", err)
	}
	if pools[0].TotalAmount != 50 {
		t.Fatalf("total = %d, want 50", pools[0].TotalAmount)
	}
	if !cache.filled || cache.pools[0].TotalAmount != 50 {
		t.Fatalf("cache = %+v, want refilled with total 50", cache.pools)
	}
}
