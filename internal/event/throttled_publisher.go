package event

import (
	"context"
	"sync"
	"time"

	"github.com/emberhost/skirmish/internal/metrics"
)

// ThrottledPublisher wraps an Event Bus to rate-limit publication per
// event type. A publish inside the cooldown window is suppressed, not
// queued: the notification channel is advisory and listeners only need
// to know that damage is flowing, never every individual hit. Nothing
// but the notification is dropped by this mechanism.
type ThrottledPublisher struct {
	inner    Bus
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[Type]time.Time
}

// NewThrottledPublisher creates a ThrottledPublisher with the given
// per-type cooldown. A cooldown of zero disables throttling.
func NewThrottledPublisher(inner Bus, cooldown time.Duration) *ThrottledPublisher {
	return &ThrottledPublisher{
		inner:    inner,
		cooldown: cooldown,
		now:      time.Now,
		lastSent: make(map[Type]time.Time),
	}
}

// Publish forwards the event to the inner bus unless a publish of the
// same type happened within the cooldown window.
func (p *ThrottledPublisher) Publish(ctx context.Context, event Event) error {
	if !p.allow(event.Type) {
		metrics.NotificationsSuppressed.WithLabelValues(string(event.Type)).Inc()
		return nil
	}
	return p.inner.Publish(ctx, event)
}

// Subscribe delegates to the inner bus.
func (p *ThrottledPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ThrottledPublisher) allow(t Type) bool {
	if p.cooldown <= 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if last, ok := p.lastSent[t]; ok && now.Sub(last) < p.cooldown {
		return false
	}
	p.lastSent[t] = now
	return true
}
