package allocation

import (
	"context"
	"testing"

	testingpkg "github.com/praxos/vaults/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, "vaults")
	t.Cleanup(cleanup)
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepository_SaveAndLoad(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	engine := newTestEngine()
	first, err := engine.Generate(testingpkg.NewSignatureFixtures(), nil)
	require.NoError(t, err)
	require.Len(t, first, 5)

	require.NoError(t, repo.SaveBatch(ctx, "batch-1", first))
	require.NoError(t, repo.SaveBatch(ctx, "batch-2", first[:1]))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 6)
	assert.Equal(t, first, loaded[:5])
	assert.Equal(t, first[0], loaded[5])
}

func TestRepository_SaveEmptyBatch(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveBatch(context.Background(), "empty", nil))

	loaded, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRepository_CountByStrategy(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	older := VaultStrategy{StrategyID: "startup-exposure", Name: "old", Assets: []string{"0xA"}, Weights: []int{10000}}
	newer := VaultStrategy{StrategyID: "startup-exposure", Name: "new", Assets: []string{"0xB"}, Weights: []int{10000}}
	require.NoError(t, repo.SaveBatch(ctx, "b1", []VaultStrategy{older}))
	require.NoError(t, repo.SaveBatch(ctx, "b2", []VaultStrategy{newer}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "old", loaded[0].Name)
	assert.Equal(t, []string{"0xB"}, loaded[1].Assets)

	counts, err := repo.CountByStrategy(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"startup-exposure": 2}, counts)
}

func TestNoopHistoryStore(t *testing.T) {
	var store HistoryStore = NoopHistoryStore{}
	require.NoError(t, store.SaveBatch(context.Background(), "x", []VaultStrategy{{StrategyID: "a"}}))

	loaded, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
