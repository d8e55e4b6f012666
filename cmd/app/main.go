package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberhost/skirmish/internal/catalog"
	"github.com/emberhost/skirmish/internal/config"
	"github.com/emberhost/skirmish/internal/damage"
	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/event"
	"github.com/emberhost/skirmish/internal/netsync"
	"github.com/emberhost/skirmish/internal/peer"
	"github.com/emberhost/skirmish/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	slog.Info("Starting damage sync service",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"batching", cfg.BatchingEnabled,
		"flush_interval", cfg.FlushInterval,
		"sync_radius", cfg.SyncRadius)

	table, err := catalog.Load(cfg.ProfilePath)
	if err != nil {
		slog.Error("Failed to load weapon profiles", "path", cfg.ProfilePath, "error", err)
		os.Exit(1)
	}

	bus := event.NewMemoryBus()
	notifier := event.NewThrottledPublisher(bus, cfg.NotifyCooldown)

	calc, err := damage.NewService(table, damage.FlatBonus(0), damage.Config{
		CacheEnabled:  cfg.CacheEnabled,
		CacheSize:     cfg.CacheSize,
		DefaultDamage: cfg.DefaultDamage,
	})
	if err != nil {
		slog.Error("Failed to create damage calculator", "error", err)
		os.Exit(1)
	}

	registerEventHandlers(bus, calc)

	// The manager broadcasts through the hub and the hub hands received
	// batches back to the manager. The indirection breaks the construction
	// cycle; the hub is set before anything runs.
	broadcaster := &hubBroadcaster{}
	manager := netsync.NewManager(netsync.Config{
		BatchingEnabled: cfg.BatchingEnabled,
		FlushInterval:   cfg.FlushInterval,
		SyncRadius:      cfg.SyncRadius,
	}, broadcaster, &engineApplier{}, notifier)

	hub := peer.NewHub(manager, func(id domain.CombatantID) {
		if err := bus.Publish(context.Background(), event.NewCombatantDisconnectedEvent(id)); err != nil {
			slog.Error("Disconnect event failed", "combatant", id, "error", err)
		}
	})
	broadcaster.hub = hub

	resolver := damage.NewHitResolver(calc, manager, cfg.VerboseLogging)
	srv := server.NewServer(cfg.Port, hub, resolver, bus)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go manager.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server forced shutdown", "error", err)
	}

	// Final flush so damage queued in the last batch window is not lost.
	manager.Flush()
	calc.ClearAll()

	slog.Info("Server stopped")
}

// registerEventHandlers wires cache invalidation to the equipment and
// lifecycle events.
func registerEventHandlers(bus event.Bus, calc damage.Service) {
	bus.Subscribe(event.EquipmentChanged, func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.EquipmentChangedPayloadV1)
		if !ok {
			return errors.New("unexpected equipment change payload")
		}
		calc.Invalidate(payload.CombatantID)
		return nil
	})

	bus.Subscribe(event.CombatantDisconnected, func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.CombatantDisconnectedPayloadV1)
		if !ok {
			return errors.New("unexpected disconnect payload")
		}
		calc.Clear(payload.CombatantID)
		return nil
	})
}

// hubBroadcaster defers the hub reference until after construction.
type hubBroadcaster struct {
	hub *peer.Hub
}

func (b *hubBroadcaster) Broadcast(payload []byte, origin domain.Position, radius float64) int {
	return b.hub.Broadcast(payload, origin, radius)
}

// engineApplier is the host engine's damage-application seam. The
// standalone service has no embedded engine, so received damage is
// surfaced in the logs for the integration layer to consume.
type engineApplier struct{}

func (engineApplier) ApplyDamage(target domain.CombatantID, amount float32) error {
	slog.Debug("Damage applied", "target", target, "amount", amount)
	return nil
}
