package agent

import (
	"sync"

	"github.com/rs/zerolog"
)

// StreamEvent is pushed to connected clients when fresh interventions are
// generated for them.
type StreamEvent struct {
	Type          string         `json:"type"`
	Interventions []Intervention `json:"interventions"`
}

// Broadcaster fans intervention events out to per-user subscribers. Slow
// subscribers drop events rather than block the publisher.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan StreamEvent]struct{}
	log  zerolog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[string]map[chan StreamEvent]struct{}),
		log:  log.With().Str("service", "intervention_stream").Logger(),
	}
}

// Subscribe registers a listener for one user. The returned cancel func must
// be called when the client disconnects.
func (b *Broadcaster) Subscribe(userID string) (<-chan StreamEvent, func()) {
	ch := make(chan StreamEvent, 8)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan StreamEvent]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, userID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the user. Non-blocking.
func (b *Broadcaster) Publish(userID string, event StreamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[userID] {
		select {
		case ch <- event:
		default:
			b.log.Warn().Str("user_id", userID).Msg("Dropping stream event for slow subscriber")
		}
	}
}
