package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/metrics"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Common event types
const (
	// DamageDealt is the low-priority notification other gameplay modules
	// (kill feeds, combat music, aggro tables) listen for. Its publication
	// is throttled; the damage itself never is.
	DamageDealt Type = "combat.damage_dealt"

	// EquipmentChanged fires when a combatant equips or unequips an item.
	// The damage calculator subscribes to it for cache invalidation.
	EquipmentChanged Type = "equipment.changed"

	// CombatantDisconnected fires when a combatant leaves the simulation.
	CombatantDisconnected Type = "combatant.disconnected"
)

// Typed event payloads for type safety

// DamageDealtPayloadV1 is the typed payload for damage notifications
type DamageDealtPayloadV1 struct {
	AttackerID domain.CombatantID `json:"attacker_id"`
	TargetID   domain.CombatantID `json:"target_id"`
	Amount     float64            `json:"amount"`
	Timestamp  int64              `json:"timestamp"`
}

// EquipmentChangedPayloadV1 is the typed payload for equip/unequip events
type EquipmentChangedPayloadV1 struct {
	CombatantID domain.CombatantID  `json:"combatant_id"`
	Item        domain.EquippedItem `json:"item"`
	Equipped    bool                `json:"equipped"`
}

// CombatantDisconnectedPayloadV1 is the typed payload for disconnect events
type CombatantDisconnectedPayloadV1 struct {
	CombatantID domain.CombatantID `json:"combatant_id"`
}

// Type-safe event constructors

// NewDamageDealtEvent creates a new damage notification event
func NewDamageDealtEvent(attacker, target domain.CombatantID, amount float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DamageDealt,
		Payload: DamageDealtPayloadV1{
			AttackerID: attacker,
			TargetID:   target,
			Amount:     amount,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// NewEquipmentChangedEvent creates a new equipment change event
func NewEquipmentChangedEvent(combatant domain.CombatantID, item domain.EquippedItem, equipped bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EquipmentChanged,
		Payload: EquipmentChangedPayloadV1{
			CombatantID: combatant,
			Item:        item,
			Equipped:    equipped,
		},
	}
}

// NewCombatantDisconnectedEvent creates a new disconnect event
func NewCombatantDisconnectedEvent(combatant domain.CombatantID) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CombatantDisconnected,
		Payload: CombatantDisconnectedPayloadV1{
			CombatantID: combatant,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously; a failing handler is recorded but does not stop the
// remaining handlers.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
