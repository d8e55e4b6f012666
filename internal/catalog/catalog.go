package catalog

import (
	"fmt"
)

// QualityTierCount is the number of enchantable quality tiers a profile
// carries damage values for (tier1 through tier5).
const QualityTierCount = 5

// Profile describes one (weapon kind, material) entry of the weapon
// catalog. Profiles are immutable after load.
//
// TierDamageMin and TierDamageMax hold the per-quality-tier damage values
// at the lower and upper proficiency endpoints; MaxProficiencyScale is the
// damage multiplier at the upper endpoint. They are catalog data consumed
// by the proficiency extension point and carried through verbatim.
type Profile struct {
	Kind                string                   `json:"kind" validate:"required"`
	Material            string                   `json:"material" validate:"required"`
	DisplayName         string                   `json:"display_name" validate:"required"`
	Description         string                   `json:"description"`
	BaseDamage          float64                  `json:"base_damage" validate:"gte=0"`
	TierDamageMin       [QualityTierCount]float64 `json:"tier_damage_min"`
	TierDamageMax       [QualityTierCount]float64 `json:"tier_damage_max"`
	MaxProficiencyScale float64                  `json:"max_proficiency_scale" validate:"gte=1"`
}

// Key returns the lookup key for the profile.
func (p *Profile) Key() string {
	return profileKey(p.Kind, p.Material)
}

func profileKey(kind, material string) string {
	return kind + "/" + material
}

// Table is the read-only weapon profile catalog. It is populated once by
// the Loader and never mutated afterwards, so Lookup is safe for
// concurrent readers without locking.
type Table struct {
	profiles map[string]*Profile
}

// NewTable builds a table from already-validated profiles. Used by the
// loader and by tests that construct fixtures directly.
func NewTable(profiles []Profile) (*Table, error) {
	t := &Table{profiles: make(map[string]*Profile, len(profiles))}
	for i := range profiles {
		p := profiles[i]
		key := p.Key()
		if _, exists := t.profiles[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProfile, key)
		}
		t.profiles[key] = &p
	}
	return t, nil
}

// Lookup returns the profile for (kind, material), or false when the
// catalog has no such entry. Callers fall back to the host engine's
// default damage on a miss.
func (t *Table) Lookup(kind, material string) (*Profile, bool) {
	p, ok := t.profiles[profileKey(kind, material)]
	return p, ok
}

// Len returns the number of loaded profiles.
func (t *Table) Len() int {
	return len(t.profiles)
}
