package di

import (
	"context"
	"testing"

	"github.com/praxos/vaults/internal/config"
	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/modules/metadata"
	testingpkg "github.com/praxos/vaults/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, persist bool) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:        t.TempDir(),
		Port:           8001,
		LogLevel:       "info",
		PersistHistory: persist,
		ExportSchedule: "0 0 * * * *",
		Export:         &config.ExportConfig{},
	}
}

func TestWire_InMemory(t *testing.T) {
	cfg := testConfig(t, false)

	container, jobs, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.Nil(t, container.DB)
	assert.IsType(t, allocation.NoopHistoryStore{}, container.HistoryStore)
	assert.IsType(t, &metadata.MemoryStore{}, container.MetadataStore)
	assert.NotNil(t, container.AllocationService)
	assert.NotNil(t, container.Ranker)
	assert.NotNil(t, container.Metrics)
	assert.Nil(t, container.ExportService)
	assert.NotNil(t, container.Scheduler)
	assert.Empty(t, jobs.All())
}

func TestWire_Persistent_RestoresHistory(t *testing.T) {
	cfg := testConfig(t, true)
	ctx := context.Background()

	container, jobs, err := Wire(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container.DB)
	assert.Contains(t, jobs.All(), "database_maintenance")

	generated, err := container.AllocationService.GenerateFromSignatures(ctx, testingpkg.NewSignatureFixtures(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, generated)
	require.NoError(t, container.Close())

	reopened, _, err := Wire(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	history := reopened.AllocationService.Strategies()
	require.Len(t, history, len(generated))
	for i := range generated {
		assert.Equal(t, generated[i].StrategyID, history[i].StrategyID)
		assert.Equal(t, generated[i].Weights, history[i].Weights)
	}
}

func TestWire_WithExport(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Export = &config.ExportConfig{
		Bucket:          "vaults",
		Endpoint:        "http://127.0.0.1:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}

	container, jobs, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.ExportService)
	assert.Contains(t, jobs.All(), "strategy_export")
}

func TestContainer_CloseNil(t *testing.T) {
	var c *Container
	assert.NoError(t, c.Close())
	assert.NoError(t, (&Container{}).Close())
}
