package domain

// DamageBreakdown is the mutable per-hit value handed to us by the host
// engine's hit-resolution callback. This subsystem overwrites it: every
// sub-type field is zeroed and the aggregate carries the computed total.
type DamageBreakdown struct {
	Slash     float64 `json:"slash"`
	Pierce    float64 `json:"pierce"`
	Blunt     float64 `json:"blunt"`
	Elemental float64 `json:"elemental"`
	Total     float64 `json:"total"`
}

// SetTotal zeroes all sub-type damage fields and records v as the
// aggregate damage for the hit.
func (b *DamageBreakdown) SetTotal(v float64) {
	b.Slash = 0
	b.Pierce = 0
	b.Blunt = 0
	b.Elemental = 0
	b.Total = v
}
