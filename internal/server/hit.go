package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/emberhost/skirmish/internal/damage"
	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/event"
	"github.com/emberhost/skirmish/internal/logger"
)

var validate = validator.New()

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HitRequest is the host engine's hit-resolution call. The item fields
// are the attacker's equipped-weapon snapshot at the moment of the hit.
type HitRequest struct {
	AttackerID uint64 `json:"attacker_id" validate:"required"`
	TargetID   uint64 `json:"target_id" validate:"required"`
	Kind       string `json:"kind"`
	Material   string `json:"material"`
	Quality    int    `json:"quality" validate:"gte=0,lte=5"`
	InstanceID string `json:"instance_id"`
	Origin     struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"origin"`
}

// HitResponse reports the computed damage back to the engine.
type HitResponse struct {
	Damage float64 `json:"damage"`
}

// EquipmentRequest notifies the service that a combatant equipped or
// unequipped an item, so cached damage factors can be dropped.
type EquipmentRequest struct {
	CombatantID uint64 `json:"combatant_id" validate:"required"`
	Kind        string `json:"kind"`
	Material    string `json:"material"`
	Quality     int    `json:"quality" validate:"gte=0,lte=5"`
	InstanceID  string `json:"instance_id"`
	Equipped    bool   `json:"equipped"`
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error("Failed to decode request", "error", err)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return err
	}

	if err := validate.Struct(req); err != nil {
		log.Warn("Request validation failed", "error", err)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return err
	}

	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func parsedItem(kind, material string, quality int, instanceID string) domain.EquippedItem {
	id, err := uuid.Parse(instanceID)
	if err != nil {
		id = uuid.Nil
	}
	return domain.EquippedItem{
		Kind:       kind,
		Material:   material,
		Quality:    domain.QualityTier(quality),
		InstanceID: id,
	}
}

// HandleResolveHit runs one hit through the damage pipeline: compute the
// total, overwrite the breakdown, queue it for sync.
func HandleResolveHit(resolver *damage.HitResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HitRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			return
		}

		item := parsedItem(req.Kind, req.Material, req.Quality, req.InstanceID)
		origin := domain.Position{X: req.Origin.X, Y: req.Origin.Y, Z: req.Origin.Z}

		var bd domain.DamageBreakdown
		resolver.ResolveHit(r.Context(),
			domain.CombatantID(req.AttackerID),
			domain.CombatantID(req.TargetID),
			item, origin, &bd)

		respondJSON(w, http.StatusOK, HitResponse{Damage: bd.Total})
	}
}

// HandleEquipmentChanged publishes the equipment-change event that drives
// cache invalidation.
func HandleEquipmentChanged(bus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EquipmentRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			return
		}

		item := parsedItem(req.Kind, req.Material, req.Quality, req.InstanceID)
		evt := event.NewEquipmentChangedEvent(domain.CombatantID(req.CombatantID), item, req.Equipped)
		if err := bus.Publish(r.Context(), evt); err != nil {
			logger.FromContext(r.Context()).Error("Failed to publish equipment change", "error", err)
			respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "publish failed"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
