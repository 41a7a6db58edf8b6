package audit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
)

func TestMemoryRepositoryAppendAndQuery(t *testing.T) {
	repo := audit.NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)

	entries := []audit.AuditLog{
		{Timestamp: base, BadgeID: "BX1", EmployeeID: "E1", ResourceID: "R1", Decision: audit.DecisionAllow, ReasonCode: "ALLOW"},
		{Timestamp: base.Add(time.Hour), BadgeID: "BX1", EmployeeID: "E1", ResourceID: "R2", Decision: audit.DecisionDeny, ReasonCode: "NO_PERMISSION"},
		{Timestamp: base.Add(2 * time.Hour), BadgeID: "BX2", EmployeeID: "E2", ResourceID: "R1", Decision: audit.DecisionAllow, ReasonCode: "ALLOW"},
	}
	for _, e := range entries {
		require.NoError(t, repo.LogAccess(ctx, e))
	}

	all, err := repo.QueryLogs(ctx, audit.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Insertion order and monotonic sequence
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Sequence, all[i-1].Sequence)
	}

	byEmployee, err := repo.QueryLogs(ctx, audit.Query{EmployeeID: "E1"})
	require.NoError(t, err)
	assert.Len(t, byEmployee, 2)

	allows, err := repo.QueryLogs(ctx, audit.Query{EmployeeID: "E1", Decision: audit.DecisionAllow})
	require.NoError(t, err)
	assert.Len(t, allows, 1)
	assert.Equal(t, "R1", allows[0].ResourceID)

	windowed, err := repo.QueryLogs(ctx, audit.Query{
		From: base.Add(30 * time.Minute),
		To:   base.Add(90 * time.Minute),
	})
	require.NoError(t, err)
	assert.Len(t, windowed, 1)
	assert.Equal(t, "R2", windowed[0].ResourceID)
}

func TestMemoryRepositoryAssignsIDs(t *testing.T) {
	repo := audit.NewMemoryRepository()
	require.NoError(t, repo.LogAccess(context.Background(), audit.AuditLog{BadgeID: "B1"}))

	all, err := repo.QueryLogs(context.Background(), audit.Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID)
	assert.Equal(t, uint64(1), all[0].Sequence)
}

func TestMemoryRepositoryConcurrentAppends(t *testing.T) {
	repo := audit.NewMemoryRepository()
	ctx := context.Background()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = repo.LogAccess(ctx, audit.AuditLog{
					Timestamp: time.Now().UTC(),
					BadgeID:   "B",
					Decision:  audit.DecisionAllow,
				})
				// concurrent reads must not block appends
				_, _ = repo.QueryLogs(ctx, audit.Query{Decision: audit.DecisionAllow})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, repo.Len())
}
