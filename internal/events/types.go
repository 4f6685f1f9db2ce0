// Package events provides the in-process event bus used to fan out vault
// lifecycle notifications.
package events

import "time"

// EventType identifies a kind of event
type EventType string

const (
	// StrategyGenerated fires once per strategy produced by a generation request
	StrategyGenerated EventType = "STRATEGY_GENERATED"
	// GenerationCompleted fires after a generation request finishes
	GenerationCompleted EventType = "GENERATION_COMPLETED"
	// StrategiesExported fires after a history snapshot is uploaded
	StrategiesExported EventType = "STRATEGIES_EXPORTED"
	// MetadataUpdated fires when vault metadata is written
	MetadataUpdated EventType = "METADATA_UPDATED"
)

// AllTypes lists every event type the bus carries.
func AllTypes() []EventType {
	return []EventType{
		StrategyGenerated,
		GenerationCompleted,
		StrategiesExported,
		MetadataUpdated,
	}
}

// Event is a single notification on the bus
type Event struct {
	Type      EventType              `json:"type"`
	Module    string                 `json:"module"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
