package domain

import "math"

// CombatantID identifies any entity that can deal or receive damage.
// It is opaque to this subsystem and matches the 64-bit identifier used
// on the wire.
type CombatantID uint64

// Position is a world-space coordinate owned by the host engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceSq returns the squared distance between two positions.
// Callers compare against radius*radius to avoid the sqrt.
func (p Position) DistanceSq(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the euclidean distance between two positions.
func (p Position) Distance(o Position) float64 {
	return math.Sqrt(p.DistanceSq(o))
}
