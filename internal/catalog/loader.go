package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/emberhost/skirmish/internal/logger"
)

// Sentinel errors for the profile loader
var (
	ErrDuplicateProfile   = errors.New("duplicate profile key")
	ErrInvalidProfile     = errors.New("invalid profile definition")
	ErrUnsupportedVersion = errors.New("unsupported profile document version")
)

// SupportedDocumentVersion is the profile document schema version this
// loader understands.
const SupportedDocumentVersion = "1.0"

// ProfileDocument is the JSON document produced by the external catalog
// import pipeline. This subsystem only reads it.
type ProfileDocument struct {
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Profiles    []Profile `json:"profiles" validate:"required,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads, validates and indexes the weapon profile document at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile document: %w", err)
	}

	var doc ProfileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile document: %w", err)
	}

	if doc.Version != SupportedDocumentVersion {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnsupportedVersion, doc.Version, SupportedDocumentVersion)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	for i := range doc.Profiles {
		if err := validateTierCurve(&doc.Profiles[i]); err != nil {
			return nil, err
		}
	}

	table, err := NewTable(doc.Profiles)
	if err != nil {
		return nil, err
	}

	// Content hash ties a running process to the exact catalog revision it
	// loaded, the same way recipe config changes are traced.
	hash := sha256.Sum256(data)
	logger.Info("loaded weapon profile catalog",
		"path", path,
		"profiles", table.Len(),
		"content_hash", hex.EncodeToString(hash[:8]))

	return table, nil
}

// validateTierCurve enforces the shape constraints validator tags cannot
// express: tier damage values must be non-negative and the upper
// proficiency endpoint must dominate the lower one.
func validateTierCurve(p *Profile) error {
	for tier := 0; tier < QualityTierCount; tier++ {
		min, max := p.TierDamageMin[tier], p.TierDamageMax[tier]
		if min < 0 || max < 0 {
			return fmt.Errorf("%w: %s tier %d has negative damage", ErrInvalidProfile, p.Key(), tier+1)
		}
		if max < min {
			return fmt.Errorf("%w: %s tier %d max endpoint below min", ErrInvalidProfile, p.Key(), tier+1)
		}
	}
	return nil
}
