package peer

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/logger"
	"github.com/emberhost/skirmish/internal/metrics"
)

// BatchHandler consumes damage batches received from peers. Implemented
// by the netsync manager.
type BatchHandler interface {
	HandleBatch(ctx context.Context, payload []byte) error
}

// DisconnectFunc is notified when an identified peer disconnects, so the
// damage calculator can drop its cached state.
type DisconnectFunc func(domain.CombatantID)

// Hub tracks all connected peers and fans damage broadcasts out to those
// within range.
type Hub struct {
	mu         sync.RWMutex
	peers      map[*Peer]bool
	register   chan *Peer
	unregister chan *Peer

	batches      BatchHandler
	onDisconnect DisconnectFunc
}

// NewHub creates a Hub. onDisconnect may be nil.
func NewHub(batches BatchHandler, onDisconnect DisconnectFunc) *Hub {
	return &Hub{
		peers:        make(map[*Peer]bool),
		register:     make(chan *Peer, 64),
		unregister:   make(chan *Peer, 64),
		batches:      batches,
		onDisconnect: onDisconnect,
	}
}

// Run processes register/unregister events until the context is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case p := <-h.register:
			h.mu.Lock()
			h.peers[p] = true
			h.mu.Unlock()
			metrics.ConnectedPeers.Inc()

		case p := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.peers[p]; ok {
				delete(h.peers, p)
				close(p.send)
			}
			h.mu.Unlock()
			metrics.ConnectedPeers.Dec()

			if id := p.CombatantID(); id != 0 && h.onDisconnect != nil {
				h.onDisconnect(id)
			}

		case <-ctx.Done():
			return
		}
	}
}

// Broadcast forwards the damage batch to every peer whose last-known
// position lies within radius of origin, and returns how many peers were
// reached. A peer at exactly radius is included. The scan is linear:
// at tens of peers a spatial index would cost more than it saves.
//
// The payload is framed (and thereby copied) once per flush, so callers
// may reuse their buffer as soon as Broadcast returns. A failure to
// reach one peer is isolated and never aborts delivery to the rest.
func (h *Hub) Broadcast(payload []byte, origin domain.Position, radius float64) int {
	frame, err := EncodeDamageFrame(payload)
	if err != nil {
		logger.Error("failed to frame damage broadcast", "error", err)
		return 0
	}

	radiusSq := radius * radius

	h.mu.RLock()
	defer h.mu.RUnlock()

	reached := 0
	for p := range h.peers {
		pos, known := p.Position()
		if !known || pos.DistanceSq(origin) > radiusSq {
			continue
		}
		if p.trySend(frame) {
			reached++
		} else {
			metrics.PeerSendFailures.Inc()
			logger.Warn("peer send queue full, dropping damage frame", "combatant", p.CombatantID())
		}
	}
	return reached
}

// PeerCount returns the number of connected peers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Peer connections come from other simulation hosts, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a peer connection and starts its
// pumps.
func ServeWS(ctx context.Context, h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.FromContext(r.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}

	p := newPeer(h, conn)
	h.register <- p

	go p.writePump()
	go p.readPump(ctx)
}
