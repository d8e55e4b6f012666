package domain

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// QualityTier represents the quality enchantment rank of an item instance.
// A tier is assigned once when the concrete item is created and is
// immutable afterwards.
type QualityTier int

const (
	QualityNone QualityTier = iota
	QualityTier1
	QualityTier2
	QualityTier3
	QualityTier4
	QualityTier5
)

// qualityBonus maps each tier to its flat additive damage bonus.
// The bonuses are additive, not multiplicative.
var qualityBonus = [...]float64{0, 3, 6, 9, 12, 15}

// Bonus returns the flat damage bonus contributed by the tier.
// Out-of-range tiers contribute nothing.
func (q QualityTier) Bonus() float64 {
	if q < QualityNone || int(q) >= len(qualityBonus) {
		return 0
	}
	return qualityBonus[q]
}

// Valid reports whether q is one of the defined tiers.
func (q QualityTier) Valid() bool {
	return q >= QualityNone && int(q) < len(qualityBonus)
}

func (q QualityTier) String() string {
	switch q {
	case QualityNone:
		return "none"
	case QualityTier1:
		return "tier1"
	case QualityTier2:
		return "tier2"
	case QualityTier3:
		return "tier3"
	case QualityTier4:
		return "tier4"
	case QualityTier5:
		return "tier5"
	}
	return "unknown"
}

// EquippedItem is a transient snapshot of a combatant's equipped weapon,
// derived by the host engine each combat tick.
type EquippedItem struct {
	Kind       string      `json:"kind"`
	Material   string      `json:"material"`
	Quality    QualityTier `json:"quality"`
	InstanceID uuid.UUID   `json:"instance_id"`
}

// Hash returns an identity hash of the concrete item instance. Two
// snapshots hash equal iff they describe the same instance with the same
// kind, material and quality, which is the staleness test for cached
// damage factors.
func (e EquippedItem) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(e.Kind))
	h.Write([]byte{0})
	h.Write([]byte(e.Material))
	h.Write([]byte{0, byte(e.Quality)})
	h.Write(e.InstanceID[:])
	return h.Sum64()
}

// IsZero reports whether the snapshot describes no equipped item.
func (e EquippedItem) IsZero() bool {
	return e.Kind == "" && e.InstanceID == uuid.Nil
}
