package spectate

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/memory/internal/memory"
)

// Feed turns game notifications into snapshot messages. The observer runs
// on the goroutine that owns the game; everything it hands on is a copy.
type Feed struct {
	hub    *Hub
	logger *log.Logger

	mu     sync.RWMutex
	latest []byte
}

// NewFeed creates a feed that broadcasts through hub.
func NewFeed(hub *Hub, logger *log.Logger) *Feed {
	return &Feed{hub: hub, logger: logger}
}

// Attach subscribes the feed to g and its players and publishes the current
// state. Players replaced by a restart or a load are followed. It must be
// called from the goroutine that owns g.
func (f *Feed) Attach(g *memory.Game) (detach func()) {
	var (
		watching [2]*memory.Player
		unwatch  []func()
	)
	publish := func() { f.Publish(g.Snapshot(false)) }

	watchPlayers := func() {
		players := g.Players()
		if players == watching {
			return
		}
		for _, unsubscribe := range unwatch {
			unsubscribe()
		}
		unwatch = unwatch[:0]
		watching = players
		for _, p := range players {
			unwatch = append(unwatch, p.Subscribe(func(*memory.Player) { publish() }))
		}
	}

	unsubscribe := g.Subscribe(func(g *memory.Game) {
		if g == nil {
			return
		}
		watchPlayers()
		publish()
	})
	watchPlayers()
	publish()

	return func() {
		unsubscribe()
		for _, u := range unwatch {
			u()
		}
	}
}

// Publish stores s as the latest state and sends it to every spectator.
func (f *Feed) Publish(s memory.Snapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		f.logger.Error("Failed to marshal snapshot", "error", err)
		return
	}

	f.mu.Lock()
	f.latest = data
	f.mu.Unlock()

	f.hub.Broadcast(data)
}

// Latest returns the most recent snapshot JSON, or nil before the first
// publish.
func (f *Feed) Latest() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest
}
