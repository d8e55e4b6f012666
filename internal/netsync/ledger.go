package netsync

import (
	"sync"

	"github.com/emberhost/skirmish/internal/domain"
)

// Ledger accumulates pending damage per target within the current batch
// window. It is an explicit object with its own lock rather than package
// state, so independent instances can run in parallel tests. All
// producers in the process share one instance; the lock is held only long
// enough to mutate the map, never across serialization or I/O.
type Ledger struct {
	mu      sync.Mutex
	pending map[domain.CombatantID]float32
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		pending: make(map[domain.CombatantID]float32),
	}
}

// Queue adds amount to the running sum for the target. Safe for
// concurrent callers. Non-positive amounts are dropped: the ledger never
// holds zero-length or negative sums.
func (l *Ledger) Queue(target domain.CombatantID, amount float32) {
	if amount <= 0 {
		return
	}

	l.mu.Lock()
	l.pending[target] += amount
	l.mu.Unlock()
}

// Drain atomically removes and returns all accumulated sums, leaving the
// ledger empty. Returns nil when nothing is pending so callers can skip
// the flush cheaply.
func (l *Ledger) Drain() map[domain.CombatantID]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		return nil
	}

	drained := l.pending
	l.pending = make(map[domain.CombatantID]float32)
	return drained
}

// Len returns the number of targets with pending damage.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
