package damage

import (
	"math"

	"github.com/emberhost/skirmish/internal/domain"
)

// MaxProficiencyBonus bounds the proficiency term. Whatever curve a
// strategy produces, the bonus is clamped to [0, MaxProficiencyBonus] so
// the final damage stays finite and non-negative for any finite input.
const MaxProficiencyBonus = 3.0

// Formula combines the damage terms in their fixed evaluation order:
//
//	1. quality bonus is added to the base damage
//	2. the sum is scaled by the material factor
//	3. the product is scaled by (1 + proficiency bonus)
//
// The order is deliberate: addition before multiplication means a quality
// enchantment is worth more on a high-tier material, and the operators do
// not commute with each other.
func Formula(baseDamage float64, quality domain.QualityTier, materialFactor, proficiencyBonus float64) float64 {
	withQuality := baseDamage + quality.Bonus()
	withMaterial := withQuality * materialFactor
	return withMaterial * (1 + clampProficiencyBonus(proficiencyBonus))
}

// clampProficiencyBonus bounds a strategy-supplied bonus. NaN collapses
// to zero rather than poisoning the pipeline.
func clampProficiencyBonus(bonus float64) float64 {
	if math.IsNaN(bonus) || bonus < 0 {
		return 0
	}
	if bonus > MaxProficiencyBonus {
		return MaxProficiencyBonus
	}
	return bonus
}
