package damage

import (
	"context"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/emberhost/skirmish/internal/catalog"
	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/logger"
	"github.com/emberhost/skirmish/internal/metrics"
)

// Service is the public entry point for per-hit damage computation.
type Service interface {
	// ComputeDamage derives the final damage value for a hit by the
	// attacker with the equipped item snapshot. Results for an unchanged
	// item are served from cache in O(1). Failures degrade to the host
	// engine's default damage; ComputeDamage never panics out of hit
	// resolution and never returns a negative or non-finite value.
	ComputeDamage(ctx context.Context, attacker domain.CombatantID, item domain.EquippedItem) float64

	// Invalidate removes the attacker's cached factors. The equip/unequip
	// collaborator must call this on every equipment change; the cache has
	// zero staleness tolerance and no time-based expiry.
	Invalidate(attacker domain.CombatantID)

	// Clear removes the attacker's cache entry on disconnect.
	Clear(attacker domain.CombatantID)

	// ClearAll empties the cache on shutdown.
	ClearAll()
}

// Config tunes the calculator.
type Config struct {
	// CacheEnabled toggles factor caching; disabled, every call runs the
	// full formula.
	CacheEnabled bool
	// CacheSize caps the number of per-combatant cache entries.
	CacheSize int
	// DefaultDamage is the host engine's fallback damage for missing
	// items and catalog misses.
	DefaultDamage float64
}

// cacheEntry holds the multiplicative factors of the last computation and
// the item identity they were derived from. The entry is valid only while
// itemHash equals the live equipped-item hash.
type cacheEntry struct {
	damageWithQuality float64
	materialFactor    float64
	proficiencyBonus  float64
	itemHash          uint64
}

type service struct {
	table       *catalog.Table
	proficiency ProficiencyStrategy
	cfg         Config
	cache       *lru.Cache[domain.CombatantID, cacheEntry]
}

// NewService creates a new damage calculator backed by the given catalog
// table and proficiency strategy.
func NewService(table *catalog.Table, proficiency ProficiencyStrategy, cfg Config) (Service, error) {
	s := &service{
		table:       table,
		proficiency: proficiency,
		cfg:         cfg,
	}

	if cfg.CacheEnabled {
		// LRU eviction is safe here: evicting a live entry only forces a
		// recomputation. Correctness depends solely on the proactive
		// Invalidate call on equipment changes.
		cache, err := lru.New[domain.CombatantID, cacheEntry](cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	return s, nil
}

func (s *service) ComputeDamage(ctx context.Context, attacker domain.CombatantID, item domain.EquippedItem) float64 {
	if item.IsZero() {
		logger.FromContext(ctx).Debug("no equipped item, using default damage", "attacker", attacker)
		return s.cfg.DefaultDamage
	}

	hash := item.Hash()

	if s.cache != nil {
		if entry, ok := s.cache.Get(attacker); ok && entry.itemHash == hash {
			metrics.DamageCacheHits.Inc()
			return s.finalize(entry.damageWithQuality * entry.materialFactor * (1 + entry.proficiencyBonus))
		}
	}
	metrics.DamageCacheMisses.Inc()

	profile, ok := s.table.Lookup(item.Kind, item.Material)
	if !ok {
		metrics.CatalogMisses.WithLabelValues(item.Kind).Inc()
		logger.FromContext(ctx).Warn("weapon profile missing from catalog, using default damage",
			"attacker", attacker,
			"kind", item.Kind,
			"material", item.Material)
		return s.cfg.DefaultDamage
	}

	materialFactor, known := catalog.MaterialMultiplier(item.Material)
	if !known {
		logger.FromContext(ctx).Warn("unknown material, using neutral multiplier",
			"attacker", attacker,
			"material", item.Material)
	}

	proficiencyBonus := clampProficiencyBonus(s.proficiency.BonusFor(ctx, attacker))

	final := Formula(profile.BaseDamage, item.Quality, materialFactor, proficiencyBonus)

	if s.cache != nil {
		s.cache.Add(attacker, cacheEntry{
			damageWithQuality: profile.BaseDamage + item.Quality.Bonus(),
			materialFactor:    materialFactor,
			proficiencyBonus:  proficiencyBonus,
			itemHash:          hash,
		})
	}

	return s.finalize(final)
}

// finalize guards the hit-resolution contract: the returned value is
// always finite and non-negative.
func (s *service) finalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		logger.Warn("damage computation produced an invalid value, using default damage", "value", v)
		return s.cfg.DefaultDamage
	}
	return v
}

func (s *service) Invalidate(attacker domain.CombatantID) {
	if s.cache != nil {
		s.cache.Remove(attacker)
	}
}

func (s *service) Clear(attacker domain.CombatantID) {
	if s.cache != nil {
		s.cache.Remove(attacker)
	}
}

func (s *service) ClearAll() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
