package events

import (
	"time"

	"github.com/rs/zerolog"
)

// Manager stamps and publishes events on behalf of modules
type Manager struct {
	bus *Bus
	now func() time.Time
	log zerolog.Logger
}

// NewManager creates a manager publishing on bus
func NewManager(bus *Bus, log zerolog.Logger) *Manager {
	return &Manager{
		bus: bus,
		now: time.Now,
		log: log.With().Str("component", "event_manager").Logger(),
	}
}

// Emit publishes an event of eventType originating from module
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	if m == nil || m.bus == nil {
		return
	}

	m.log.Debug().
		Str("event_type", string(eventType)).
		Str("module", module).
		Msg("Emitting event")

	m.bus.Publish(&Event{
		Type:      eventType,
		Module:    module,
		Timestamp: m.now().UTC(),
		Data:      data,
	})
}

// Bus returns the underlying bus
func (m *Manager) Bus() *Bus {
	return m.bus
}

// EmitTyped publishes a typed payload. The event type comes from the payload.
func (m *Manager) EmitTyped(module string, data EventData) {
	if m == nil || m.bus == nil {
		return
	}

	payload, err := toMap(data)
	if err != nil {
		m.log.Error().Err(err).Str("module", module).Msg("Failed to encode event payload")
		return
	}
	m.Emit(data.EventType(), module, payload)
}
