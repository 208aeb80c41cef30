package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/warden-bot/warden/automod/event"
)

// Engine is the automod decision engine: it routes platform events to
// per-community workers, each owning its own ledger, spam-wave, and cooldown
// state. Communities are loaded lazily on first event and discarded on
// unload; there is no shared mutable state between them.
type Engine struct {
	Logger *slog.Logger
	Deps   Deps

	mu          sync.Mutex
	communities map[string]*Community
	shutdown    bool
}

func NewEngine(logger *slog.Logger, deps Deps) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Logger:      logger,
		Deps:        deps,
		communities: make(map[string]*Community),
	}
}

// ProcessEvent is the sole entry point. All results are observed through the
// engine's collaborator interfaces; callers get an error only when the event
// could not even be enqueued.
func (eng *Engine) ProcessEvent(ctx context.Context, evt *event.Event) error {
	if evt == nil || evt.CommunityID == "" {
		return fmt.Errorf("event without community id")
	}
	c, err := eng.community(evt.CommunityID)
	if err != nil {
		return err
	}
	if err := c.Enqueue(evt); err != nil {
		eventDroppedCount.Inc()
		return fmt.Errorf("enqueueing event for community %s: %w", evt.CommunityID, err)
	}
	return nil
}

// Load eagerly constructs the worker for a community (normally it happens on
// first event).
func (eng *Engine) Load(communityID string) (*Community, error) {
	return eng.community(communityID)
}

func (eng *Engine) community(id string) (*Community, error) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.shutdown {
		return nil, ErrCommunityDown
	}
	c, ok := eng.communities[id]
	if !ok {
		c = NewCommunity(id, eng.Logger, eng.Deps)
		eng.communities[id] = c
	}
	return c, nil
}

// Unload stops the community's worker, waiting for the in-flight event, and
// drops all of its in-memory state. A later event for the same community
// starts fresh.
func (eng *Engine) Unload(communityID string) {
	eng.mu.Lock()
	c, ok := eng.communities[communityID]
	delete(eng.communities, communityID)
	eng.mu.Unlock()
	if ok {
		c.Unload()
		eng.Logger.Info("community unloaded", "community", communityID)
	}
}

// Shutdown unloads every community and refuses further events.
func (eng *Engine) Shutdown() {
	eng.mu.Lock()
	eng.shutdown = true
	all := make([]*Community, 0, len(eng.communities))
	for _, c := range eng.communities {
		all = append(all, c)
	}
	eng.communities = make(map[string]*Community)
	eng.mu.Unlock()
	for _, c := range all {
		c.Unload()
	}
}
