package catalog

// materialMultipliers maps a crafting material to its multiplicative
// damage factor. Factors are monotonically increasing with material tier
// and bounded to [1.0, 4.0]. The table is static: material balance is
// data the designers tune at build time, not runtime state.
var materialMultipliers = map[string]float64{
	"iron":      1.0,
	"steel":     1.3,
	"cobalt":    1.6,
	"obsidian":  2.0,
	"meteoric":  2.5,
	"adamant":   3.0,
	"valerite":  3.5,
	"blackrock": 4.0,
}

// MaterialMultiplier returns the damage factor for a material. Unknown
// materials report false and callers apply the neutral 1.0 factor with a
// warning log.
func MaterialMultiplier(material string) (float64, bool) {
	m, ok := materialMultipliers[material]
	if !ok {
		return 1.0, false
	}
	return m, true
}
