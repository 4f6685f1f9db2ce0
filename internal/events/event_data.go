package events

import (
	"encoding/json"
	"fmt"
)

// EventData is implemented by typed event payloads
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// StrategyGeneratedData describes one freshly generated vault strategy
type StrategyGeneratedData struct {
	BatchID              string   `json:"batch_id"`
	StrategyID           string   `json:"strategy_id"`
	Name                 string   `json:"name"`
	RiskTier             int      `json:"risk_tier"`
	Assets               []string `json:"assets"`
	Weights              []int    `json:"weights"`
	ExpectedYield        float64  `json:"expected_yield"`
	DiversificationScore float64  `json:"diversification_score"`
}

// EventType returns the event type for StrategyGeneratedData
func (d *StrategyGeneratedData) EventType() EventType {
	return StrategyGenerated
}

// GenerationCompletedData summarises a generation request
type GenerationCompletedData struct {
	BatchID    string `json:"batch_id"`
	PoolSize   int    `json:"pool_size"`
	Requested  int    `json:"requested"`
	Generated  int    `json:"generated"`
	DurationMs int64  `json:"duration_ms"`
}

// EventType returns the event type for GenerationCompletedData
func (d *GenerationCompletedData) EventType() EventType {
	return GenerationCompleted
}

// StrategiesExportedData describes an uploaded history snapshot
type StrategiesExportedData struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Bytes int    `json:"bytes"`
}

// EventType returns the event type for StrategiesExportedData
func (d *StrategiesExportedData) EventType() EventType {
	return StrategiesExported
}

// MetadataUpdatedData identifies the vault whose metadata changed
type MetadataUpdatedData struct {
	VaultAddress string `json:"vault_address"`
	AssetCount   int    `json:"asset_count"`
}

// EventType returns the event type for MetadataUpdatedData
func (d *MetadataUpdatedData) EventType() EventType {
	return MetadataUpdated
}

// toMap flattens a typed payload into the generic map carried by Event.
func toMap(data EventData) (map[string]interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", data.EventType(), err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to flatten %s payload: %w", data.EventType(), err)
	}
	return out, nil
}
