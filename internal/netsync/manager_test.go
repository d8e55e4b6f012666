package netsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/event"
	"github.com/emberhost/skirmish/internal/testing/leaktest"
)

// recordingBroadcaster captures broadcast payloads for assertions.
type recordingBroadcaster struct {
	payloads [][]byte
	origins  []domain.Position
	radii    []float64
}

func (b *recordingBroadcaster) Broadcast(payload []byte, origin domain.Position, radius float64) int {
	// Copy: the manager's buffer goes back to the pool after Broadcast.
	b.payloads = append(b.payloads, append([]byte(nil), payload...))
	b.origins = append(b.origins, origin)
	b.radii = append(b.radii, radius)
	return 1
}

// recordingApplier captures applied damage entries.
type recordingApplier struct {
	applied map[domain.CombatantID]float32
	fail    map[domain.CombatantID]bool
}

func newRecordingApplier() *recordingApplier {
	return &recordingApplier{
		applied: make(map[domain.CombatantID]float32),
		fail:    make(map[domain.CombatantID]bool),
	}
}

func (a *recordingApplier) ApplyDamage(target domain.CombatantID, amount float32) error {
	if a.fail[target] {
		return assert.AnError
	}
	a.applied[target] += amount
	return nil
}

func newTestManager(batching bool, bus event.Bus) (*Manager, *recordingBroadcaster, *recordingApplier) {
	broadcaster := &recordingBroadcaster{}
	applier := newRecordingApplier()
	m := NewManager(Config{
		BatchingEnabled: batching,
		FlushInterval:   100 * time.Millisecond,
		SyncRadius:      64,
	}, broadcaster, applier, bus)
	return m, broadcaster, applier
}

func TestManagerBatchedFlush(t *testing.T) {
	m, broadcaster, _ := newTestManager(true, nil)

	origin := domain.Position{X: 10, Y: 20, Z: 0}
	m.Enqueue(100, 1, 10, origin)
	m.Enqueue(100, 2, 5, origin)
	m.Enqueue(101, 1, 7, origin)

	require.Equal(t, 2, m.Pending())
	require.Empty(t, broadcaster.payloads, "nothing is sent before the flush")

	m.Flush()

	require.Len(t, broadcaster.payloads, 1, "one buffer per flush regardless of batch size")
	assert.Equal(t, origin, broadcaster.origins[0])
	assert.Equal(t, 64.0, broadcaster.radii[0])
	assert.Zero(t, m.Pending(), "ledger empty immediately after flush")

	entries, err := DecodeBatch(broadcaster.payloads[0])
	require.NoError(t, err)

	got := map[domain.CombatantID]float32{}
	for _, e := range entries {
		got[e.TargetID] = e.Damage
	}
	assert.Equal(t, map[domain.CombatantID]float32{1: 17, 2: 5}, got)
}

func TestManagerTickHonorsInterval(t *testing.T) {
	m, broadcaster, _ := newTestManager(true, nil)

	clock := time.Unix(1000, 0)
	m.now = func() time.Time { return clock }

	// Establish the window baseline.
	m.Tick()
	m.Enqueue(100, 1, 10, domain.Position{})

	clock = clock.Add(50 * time.Millisecond)
	m.Tick()
	assert.Empty(t, broadcaster.payloads, "interval not yet elapsed")

	clock = clock.Add(60 * time.Millisecond)
	m.Tick()
	assert.Len(t, broadcaster.payloads, 1, "flush fires once the interval elapsed")
}

func TestManagerEmptyFlushSendsNothing(t *testing.T) {
	m, broadcaster, _ := newTestManager(true, nil)
	m.Flush()
	assert.Empty(t, broadcaster.payloads)
}

func TestManagerImmediateMode(t *testing.T) {
	m, broadcaster, _ := newTestManager(false, nil)

	m.Enqueue(100, 1, 28, domain.Position{X: 1})
	m.Enqueue(100, 2, 5, domain.Position{X: 2})

	require.Len(t, broadcaster.payloads, 2, "batching disabled sends each hit immediately")
	assert.Zero(t, m.Pending())

	entries, err := DecodeBatch(broadcaster.payloads[0])
	require.NoError(t, err)
	require.Len(t, entries, 1, "immediate sends use a single-entry batch")
	assert.Equal(t, Entry{TargetID: 1, Damage: 28}, entries[0])
}

func TestManagerDropsNonPositiveDamage(t *testing.T) {
	m, broadcaster, _ := newTestManager(true, nil)

	m.Enqueue(100, 1, 0, domain.Position{})
	m.Enqueue(100, 1, -4, domain.Position{})

	assert.Zero(t, m.Pending())
	m.Flush()
	assert.Empty(t, broadcaster.payloads)
}

func TestManagerHandleBatch(t *testing.T) {
	m, broadcaster, applier := newTestManager(true, nil)

	m.Enqueue(100, 1, 17, domain.Position{})
	m.Enqueue(100, 2, 5, domain.Position{})
	m.Flush()
	require.Len(t, broadcaster.payloads, 1)

	// Receiving our own serialized batch reproduces the drained set.
	require.NoError(t, m.HandleBatch(context.Background(), broadcaster.payloads[0]))
	assert.Equal(t, map[domain.CombatantID]float32{1: 17, 2: 5}, applier.applied)
}

func TestManagerHandleBatchMalformed(t *testing.T) {
	m, _, applier := newTestManager(true, nil)

	err := m.HandleBatch(context.Background(), []byte{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedBatch)
	assert.Empty(t, applier.applied)
}

func TestManagerHandleBatchEntryIsolation(t *testing.T) {
	m, broadcaster, applier := newTestManager(true, nil)
	applier.fail[1] = true

	m.Enqueue(100, 1, 17, domain.Position{})
	m.Enqueue(100, 2, 5, domain.Position{})
	m.Flush()

	require.NoError(t, m.HandleBatch(context.Background(), broadcaster.payloads[0]),
		"a failing entry must not fail the batch")
	assert.Equal(t, float32(5), applier.applied[2], "sibling entries still apply")
	assert.Zero(t, applier.applied[1])
}

func TestManagerPublishesThrottledNotification(t *testing.T) {
	bus := event.NewMemoryBus()

	var notifications []event.DamageDealtPayloadV1
	bus.Subscribe(event.DamageDealt, func(ctx context.Context, e event.Event) error {
		notifications = append(notifications, e.Payload.(event.DamageDealtPayloadV1))
		return nil
	})

	throttled := event.NewThrottledPublisher(bus, time.Hour)
	m, _, _ := newTestManager(true, throttled)

	for i := 0; i < 10; i++ {
		m.Enqueue(100, 1, 10, domain.Position{})
	}

	require.Len(t, notifications, 1, "notification is rate-limited")
	assert.Equal(t, domain.CombatantID(100), notifications[0].AttackerID)

	// Throttling never drops damage units: all ten hits are in the ledger.
	m.Flush()
	assert.Zero(t, m.Pending())
}

func TestManagerRunStopsCleanly(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	broadcaster := &recordingBroadcaster{}
	m := NewManager(Config{
		BatchingEnabled: true,
		FlushInterval:   time.Hour,
		SyncRadius:      64,
	}, broadcaster, newRecordingApplier(), event.NewMemoryBus())

	m.Enqueue(1, 2, 10, domain.Position{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	<-done

	// Cancellation flushes the remaining window before Run returns.
	require.Len(t, broadcaster.payloads, 1)
	assert.Zero(t, m.Pending())

	checker.Check(0)
}
