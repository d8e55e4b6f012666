package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile(kind, material string, base float64) Profile {
	return Profile{
		Kind:                kind,
		Material:            material,
		DisplayName:         kind + " of " + material,
		BaseDamage:          base,
		TierDamageMin:       [QualityTierCount]float64{1, 2, 3, 4, 5},
		TierDamageMax:       [QualityTierCount]float64{2, 4, 6, 8, 10},
		MaxProficiencyScale: 1.5,
	}
}

func TestTableLookup(t *testing.T) {
	table, err := NewTable([]Profile{
		testProfile("blade", "iron", 25),
		testProfile("axe", "iron", 32),
	})
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	p, ok := table.Lookup("blade", "iron")
	require.True(t, ok)
	assert.Equal(t, 25.0, p.BaseDamage)

	_, ok = table.Lookup("blade", "blackrock")
	assert.False(t, ok, "absent (kind, material) pair must miss")

	_, ok = table.Lookup("bladeiron", "")
	assert.False(t, ok, "kind/material keys must not collide across the separator")
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Profile{
		testProfile("blade", "iron", 25),
		testProfile("blade", "iron", 30),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateProfile)
}

func TestMaterialMultiplier(t *testing.T) {
	tests := []struct {
		material string
		want     float64
		known    bool
	}{
		{"iron", 1.0, true},
		{"steel", 1.3, true},
		{"blackrock", 4.0, true},
		{"driftwood", 1.0, false},
		{"", 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			got, known := MaterialMultiplier(tt.material)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

// Factors must increase with material tier and stay inside [1.0, 4.0].
func TestMaterialMultipliersMonotonic(t *testing.T) {
	ordered := []string{"iron", "steel", "cobalt", "obsidian", "meteoric", "adamant", "valerite", "blackrock"}

	prev := 0.0
	for _, material := range ordered {
		m, known := MaterialMultiplier(material)
		require.True(t, known, material)
		assert.Greater(t, m, prev, "factor for %s must exceed the previous tier", material)
		assert.GreaterOrEqual(t, m, 1.0)
		assert.LessOrEqual(t, m, 4.0)
		prev = m
	}
}
