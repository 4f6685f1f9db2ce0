package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDataTypes(t *testing.T) {
	tests := []struct {
		data     EventData
		expected EventType
	}{
		{&StrategyGeneratedData{}, StrategyGenerated},
		{&GenerationCompletedData{}, GenerationCompleted},
		{&StrategiesExportedData{}, StrategiesExported},
		{&MetadataUpdatedData{}, MetadataUpdated},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.data.EventType())
			assert.Contains(t, AllTypes(), tt.expected)
		})
	}
}

func TestManager_EmitTyped(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.Nop())

	var got *Event
	bus.Subscribe(StrategyGenerated, func(e *Event) { got = e })

	manager.EmitTyped("allocation", &StrategyGeneratedData{
		BatchID:    "batch-1",
		StrategyID: "balanced-diversified",
		RiskTier:   3,
		Assets:     []string{"0xB"},
		Weights:    []int{10000},
	})

	require.NotNil(t, got)
	assert.Equal(t, StrategyGenerated, got.Type)
	assert.Equal(t, "allocation", got.Module)
	assert.Equal(t, "balanced-diversified", got.Data["strategy_id"])
	assert.Equal(t, float64(3), got.Data["risk_tier"])
	assert.Equal(t, []interface{}{"0xB"}, got.Data["assets"])
}
