package peer

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberhost/skirmish/internal/domain"
	"github.com/emberhost/skirmish/internal/logger"
	"github.com/emberhost/skirmish/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufSize    = 256
)

// Peer is one connected simulation host.
type Peer struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu          sync.RWMutex
	combatantID domain.CombatantID
	name        string
	position    domain.Position
	hasPosition bool
}

func newPeer(hub *Hub, conn *websocket.Conn) *Peer {
	return &Peer{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
}

// CombatantID returns the identity announced in the peer's hello frame.
func (p *Peer) CombatantID() domain.CombatantID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.combatantID
}

// Position returns the peer's last-known world position and whether one
// has been reported yet. Peers with no reported position are never inside
// any broadcast radius.
func (p *Peer) Position() (domain.Position, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position, p.hasPosition
}

// SetPosition updates the peer's last-known position.
func (p *Peer) SetPosition(pos domain.Position) {
	p.mu.Lock()
	p.position = pos
	p.hasPosition = true
	p.mu.Unlock()
}

// trySend queues payload for delivery without blocking. A full queue
// counts as a send failure for this peer only.
func (p *Peer) trySend(payload []byte) bool {
	select {
	case p.send <- payload:
		return true
	default:
		return false
	}
}

// readPump reads frames until the connection dies, dispatching them to
// the hub's handlers.
func (p *Peer) readPump(ctx context.Context) {
	defer func() {
		p.hub.unregister <- p
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.FromContext(ctx).Warn("peer connection error", "error", err)
			}
			return
		}
		p.handleFrame(ctx, message)
	}
}

// handleFrame dispatches one incoming frame. A frame that fails to
// decode is dropped and logged; it never tears down the connection or
// affects other frames.
func (p *Peer) handleFrame(ctx context.Context, message []byte) {
	env, err := DecodeFrame(message)
	if err != nil {
		logger.FromContext(ctx).Warn("dropping undecodable peer frame", "error", err)
		return
	}

	switch env.T {
	case FrameHello:
		var hello HelloMsg
		if err := DecodePayload(env, &hello); err != nil {
			logger.FromContext(ctx).Warn("dropping malformed hello frame", "error", err)
			return
		}
		p.mu.Lock()
		p.combatantID = hello.CombatantID
		p.name = hello.Name
		p.mu.Unlock()
		logger.FromContext(ctx).Info("peer identified", "combatant", hello.CombatantID, "name", hello.Name)

	case FramePosition:
		var pos PositionMsg
		if err := DecodePayload(env, &pos); err != nil {
			logger.FromContext(ctx).Warn("dropping malformed position frame", "error", err)
			return
		}
		p.SetPosition(domain.Position{X: pos.X, Y: pos.Y, Z: pos.Z})

	case FrameDamage:
		var batch []byte
		if err := DecodePayload(env, &batch); err != nil {
			logger.FromContext(ctx).Warn("dropping malformed damage frame", "error", err)
			return
		}
		// Decode/apply errors are already logged and counted inside the
		// batch handler; a bad batch must not affect this connection.
		_ = p.hub.batches.HandleBatch(ctx, batch)

	default:
		logger.FromContext(ctx).Debug("ignoring unknown frame type", "type", env.T)
	}
}

// writePump drains the send queue onto the connection and keeps the
// connection alive with pings.
func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case message, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				metrics.PeerSendFailures.Inc()
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
