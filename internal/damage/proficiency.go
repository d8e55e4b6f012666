package damage

import (
	"context"

	"github.com/emberhost/skirmish/internal/domain"
)

// ProficiencyStrategy supplies the per-combatant proficiency bonus term
// of the damage formula. The skill-progression subsystem owns the actual
// proficiency value; this interface keeps the coupling one-directional
// and lets the curve change without touching the calculator.
type ProficiencyStrategy interface {
	BonusFor(ctx context.Context, attacker domain.CombatantID) float64
}

// FlatBonus is a ProficiencyStrategy returning a constant bonus for every
// combatant. The production default is FlatBonus(0): proficiency does not
// yet contribute to damage, pending the skill-value integration.
type FlatBonus float64

// BonusFor returns the constant bonus.
func (f FlatBonus) BonusFor(context.Context, domain.CombatantID) float64 {
	return float64(f)
}
