package netsync

import (
	"context"
	"sync"
	"time"

	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/event"
	"github.com/emberhost/skirmish/internal/logger"
	"github.com/emberhost/skirmish/internal/metrics"
)

// Broadcaster fans a payload out to peers within radius of origin and
// reports how many were reached. Implementations must not retain the
// payload slice after returning; the backing buffer goes back to the
// pool.
type Broadcaster interface {
	Broadcast(payload []byte, origin domain.Position, radius float64) int
}

// Applier is the host engine's damage-application path, invoked for each
// entry of a received batch.
type Applier interface {
	ApplyDamage(target domain.CombatantID, amount float32) error
}

// Config tunes the sync manager.
type Config struct {
	// BatchingEnabled aggregates hits per flush window; disabled, every
	// hit is sent immediately as a single-entry batch.
	BatchingEnabled bool
	// FlushInterval is the batch window length.
	FlushInterval time.Duration
	// SyncRadius bounds the spatial fan-out in meters.
	SyncRadius float64
}

// Manager composes the ledger, buffer pool and broadcaster into the
// damage sync pipeline: hits are queued during a batch window, drained on
// a periodic tick, serialized into one pooled buffer and broadcast to
// in-range peers.
type Manager struct {
	cfg         Config
	ledger      *Ledger
	pool        *BufferPool
	broadcaster Broadcaster
	applier     Applier
	notifier    event.Bus
	now         func() time.Time

	mu        sync.Mutex
	lastFlush time.Time
	origin    domain.Position
}

// NewManager creates a sync manager. notifier carries the low-priority
// damage-dealt notification and is expected to be throttled by the
// caller; the manager never drops damage through it.
func NewManager(cfg Config, broadcaster Broadcaster, applier Applier, notifier event.Bus) *Manager {
	return &Manager{
		cfg:         cfg,
		ledger:      NewLedger(),
		pool:        NewBufferPool(),
		broadcaster: broadcaster,
		applier:     applier,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Enqueue records computed damage for delivery. With batching enabled the
// hit joins the current window; otherwise it is sent immediately.
// Implements the damage.Sink interface.
func (m *Manager) Enqueue(attacker, target domain.CombatantID, amount float64, origin domain.Position) {
	if amount <= 0 {
		return
	}

	if m.cfg.BatchingEnabled {
		m.ledger.Queue(target, float32(amount))
		// Hits inside one 100ms window are near-coincident at combat
		// range, so the window shares the most recent origin.
		m.mu.Lock()
		m.origin = origin
		m.mu.Unlock()
	} else {
		m.sendImmediate(target, float32(amount), origin)
	}

	if m.notifier != nil {
		// Throttling happens inside the notifier; the damage itself is
		// already committed above.
		if err := m.notifier.Publish(context.Background(), event.NewDamageDealtEvent(attacker, target, amount)); err != nil {
			logger.Warn("damage notification failed", "error", err)
		}
	}
}

// Tick advances the batch window. It is invoked once per simulation step
// and flushes when the interval has elapsed. All expensive work happens
// outside the ledger lock so producers are never blocked by
// serialization or sends.
func (m *Manager) Tick() {
	if !m.cfg.BatchingEnabled {
		return
	}

	now := m.now()

	m.mu.Lock()
	if now.Sub(m.lastFlush) < m.cfg.FlushInterval {
		m.mu.Unlock()
		return
	}
	m.lastFlush = now
	m.mu.Unlock()

	m.Flush()
}

// Flush drains the ledger and broadcasts the batch regardless of the
// deadline. Used by Tick and by shutdown.
func (m *Manager) Flush() {
	drained := m.ledger.Drain()
	if len(drained) == 0 {
		return
	}

	m.mu.Lock()
	origin := m.origin
	m.mu.Unlock()

	entries := make([]Entry, 0, len(drained))
	for target, amount := range drained {
		entries = append(entries, Entry{TargetID: target, Damage: amount})
	}

	m.send(entries, origin)

	metrics.FlushesTotal.Inc()
	metrics.FlushBatchSize.Observe(float64(len(entries)))
}

// sendImmediate ships one hit as a single-entry batch on the shared wire
// format.
func (m *Manager) sendImmediate(target domain.CombatantID, amount float32, origin domain.Position) {
	m.send([]Entry{{TargetID: target, Damage: amount}}, origin)
	metrics.ImmediateSends.Inc()
}

// send serializes entries into exactly one pooled buffer and broadcasts
// it. The buffer returns to the pool on every exit path.
func (m *Manager) send(entries []Entry, origin domain.Position) {
	buf := m.pool.Get()
	defer m.pool.Put(buf)

	EncodeBatch(buf, entries)

	reached := m.broadcaster.Broadcast(buf.Bytes(), origin, m.cfg.SyncRadius)
	metrics.PeersReached.Add(float64(reached))
}

// HandleBatch applies a batch received from a peer: the inverse of the
// flush serialization. A malformed frame is dropped whole; a failing
// entry is logged and skipped without affecting its siblings.
func (m *Manager) HandleBatch(ctx context.Context, payload []byte) error {
	entries, err := DecodeBatch(payload)
	if err != nil {
		metrics.BatchesMalformed.Inc()
		logger.FromContext(ctx).Error("dropping malformed damage batch",
			"error", err,
			"bytes", len(payload))
		return err
	}

	metrics.BatchesReceived.Inc()

	for _, e := range entries {
		if err := m.applier.ApplyDamage(e.TargetID, e.Damage); err != nil {
			logger.FromContext(ctx).Warn("failed to apply damage entry",
				"target", e.TargetID,
				"amount", e.Damage,
				"error", err)
		}
	}
	return nil
}

// Pending returns the number of targets awaiting flush. Exposed for
// observability and tests.
func (m *Manager) Pending() int {
	return m.ledger.Len()
}

// Run drives Tick on a ticker until the context is cancelled, then
// flushes whatever remains. The tick cadence deliberately outpaces the
// flush interval so a flush is never late by more than one tick.
func (m *Manager) Run(ctx context.Context) {
	interval := m.cfg.FlushInterval / 4
	if interval <= 0 {
		interval = 25 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick()
		case <-ctx.Done():
			m.Flush()
			return
		}
	}
}
