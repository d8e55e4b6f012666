package damage

import (
	"context"

	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/logger"
	"github.com/emberhost/skirmish/internal/metrics"
)

// Sink receives computed damage for aggregation and delivery. Implemented
// by the netsync manager.
type Sink interface {
	Enqueue(attacker, target domain.CombatantID, amount float64, origin domain.Position)
}

// HitResolver adapts the host engine's hit-resolution callback to the
// calculator and the sync pipeline. The engine hands it a mutable damage
// breakdown per hit; the resolver overwrites it with the computed total.
type HitResolver struct {
	calc    Service
	sink    Sink
	verbose bool
}

// NewHitResolver creates a HitResolver.
func NewHitResolver(calc Service, sink Sink, verbose bool) *HitResolver {
	return &HitResolver{calc: calc, sink: sink, verbose: verbose}
}

// ResolveHit computes the damage for one hit, overwrites the breakdown
// (all sub-type fields zeroed, the aggregate set to the total) and
// enqueues the result for sync.
func (r *HitResolver) ResolveHit(ctx context.Context, attacker, target domain.CombatantID, item domain.EquippedItem, origin domain.Position, bd *domain.DamageBreakdown) {
	amount := r.calc.ComputeDamage(ctx, attacker, item)
	bd.SetTotal(amount)

	metrics.HitsResolved.Inc()
	if r.verbose {
		logger.FromContext(ctx).Debug("hit resolved",
			"attacker", attacker,
			"target", target,
			"kind", item.Kind,
			"material", item.Material,
			"quality", item.Quality.String(),
			"damage", amount)
	}

	r.sink.Enqueue(attacker, target, amount, origin)
}
