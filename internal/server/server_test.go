package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhost/skirmish/internal/catalog"
	"github.com/emberhost/skirmish/internal/damage"
	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/event"
)

type recordingSink struct {
	attacker domain.CombatantID
	target   domain.CombatantID
	amount   float64
	calls    int
}

func (s *recordingSink) Enqueue(attacker, target domain.CombatantID, amount float64, origin domain.Position) {
	s.attacker = attacker
	s.target = target
	s.amount = amount
	s.calls++
}

func newTestResolver(t *testing.T, sink damage.Sink) *damage.HitResolver {
	t.Helper()

	table, err := catalog.NewTable([]catalog.Profile{{
		Kind:                "blade",
		Material:            "iron",
		DisplayName:         "Iron Blade",
		BaseDamage:          25,
		MaxProficiencyScale: 4,
	}})
	require.NoError(t, err)

	calc, err := damage.NewService(table, damage.FlatBonus(0), damage.Config{
		CacheEnabled:  true,
		CacheSize:     16,
		DefaultDamage: 5,
	})
	require.NoError(t, err)

	return damage.NewHitResolver(calc, sink, false)
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	HandleHealthz()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleVersion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	HandleVersion()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var info VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestLoggingMiddlewareCapturesStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
	rec := httptest.NewRecorder()

	loggingMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestLoggingMiddlewareSkipsWebsocketPath(t *testing.T) {
	var sawWrapper bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawWrapper = w.(*responseWriter)
		w.WriteHeader(http.StatusSwitchingProtocols)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()

	loggingMiddleware(next).ServeHTTP(rec, req)

	assert.False(t, sawWrapper, "websocket path must see the raw writer")
	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)
}

func TestHandleResolveHit(t *testing.T) {
	sink := &recordingSink{}
	handler := HandleResolveHit(newTestResolver(t, sink))

	body := `{
		"attacker_id": 7,
		"target_id": 9,
		"kind": "blade",
		"material": "iron",
		"quality": 1,
		"instance_id": "` + uuid.NewString() + `",
		"origin": {"x": 1, "y": 2, "z": 3}
	}`

	req := httptest.NewRequest(http.MethodPost, "/engine/hit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 28.0, resp.Damage, 1e-9)

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, domain.CombatantID(7), sink.attacker)
	assert.Equal(t, domain.CombatantID(9), sink.target)
	assert.InDelta(t, 28.0, sink.amount, 1e-9)
}

func TestHandleResolveHitRejectsBadBody(t *testing.T) {
	sink := &recordingSink{}
	handler := HandleResolveHit(newTestResolver(t, sink))

	req := httptest.NewRequest(http.MethodPost, "/engine/hit", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, sink.calls)
}

func TestHandleEquipmentChangedPublishes(t *testing.T) {
	bus := event.NewMemoryBus()

	var invalidated []domain.CombatantID
	bus.Subscribe(event.EquipmentChanged, func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.EquipmentChangedPayloadV1)
		require.True(t, ok)
		invalidated = append(invalidated, payload.CombatantID)
		return nil
	})

	body := `{"combatant_id": 42, "kind": "blade", "material": "iron", "quality": 2, "equipped": true}`
	req := httptest.NewRequest(http.MethodPost, "/engine/equipment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleEquipmentChanged(bus)(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, invalidated, 1)
	assert.Equal(t, domain.CombatantID(42), invalidated[0])
}

func TestResponseWriterDoubleWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusNotFound, rw.statusCode)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
