package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/ledger"
	"github.com/warden-bot/warden/automod/trigger"
)

var (
	ErrQueueFull     = errors.New("community event queue is full")
	ErrCommunityDown = errors.New("community is unloaded")
)

// DefaultQueueSize bounds each community's pending-event FIFO.
var DefaultQueueSize = 1024

// Deps are the external collaborators one community engine works against.
type Deps struct {
	Resolver ConfigResolver
	Executor ActionExecutor
	Renderer TemplateRenderer
	Archive  ArchiveStore
	Invites  trigger.InviteResolver
	Levels   AntiraidLevelStore
	// Notifier receives internal bot-alerts; nil discards them.
	Notifier *SlackNotifier
}

// Community owns all mutable engine state for one community and the single
// worker that mutates it. One event is fully processed (ledger update, match,
// dedupe, cooldown, actions) before the next begins; that serialization is
// what makes the read-modify-write sequences race-free.
type Community struct {
	ID     string
	logger *slog.Logger
	deps   Deps

	ledger     ledger.Ledger
	recentSpam *RecentSpamTracker
	cooldowns  *CooldownTracker

	queue    chan *event.Event
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// detached alert/log emission; Flush waits for it
	notifyWG sync.WaitGroup

	mu            sync.Mutex
	closed        bool
	antiraidLevel string
}

func NewCommunity(id string, logger *slog.Logger, deps Deps) *Community {
	c := &Community{
		ID:         id,
		logger:     logger.With("community", id),
		deps:       deps,
		ledger:     ledger.NewMemLedger(ledger.DefaultRetention),
		recentSpam: NewRecentSpamTracker(),
		cooldowns:  NewCooldownTracker(),
		queue:      make(chan *event.Event, DefaultQueueSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if deps.Levels != nil {
		lvl, err := deps.Levels.Get(context.Background(), id)
		if err != nil {
			c.logger.Warn("reading persisted antiraid level failed", "err", err)
		} else {
			c.antiraidLevel = lvl
		}
	}
	go c.run()
	return c
}

// Enqueue hands one event to the community worker. Fails fast when the queue
// is full or the community has been unloaded; callers drop the event either
// way (there is no retry inside the engine).
func (c *Community) Enqueue(evt *event.Event) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrCommunityDown
	}
	select {
	case c.queue <- evt:
		queueDepth.WithLabelValues(c.ID).Set(float64(len(c.queue)))
		return nil
	default:
		return ErrQueueFull
	}
}

// AntiraidLevel returns the current persisted level ("" when unset).
func (c *Community) AntiraidLevel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.antiraidLevel
}

// Unload stops accepting new events, lets the in-flight event finish, then
// discards all in-memory state. Pending queued events are dropped.
func (c *Community) Unload() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	c.notifyWG.Wait()
	queueDepth.DeleteLabelValues(c.ID)
}

// Flush waits for detached alert/log emission to settle. Test helper; the
// daemon never needs it.
func (c *Community) Flush() {
	c.notifyWG.Wait()
}

func (c *Community) run() {
	defer close(c.done)
	sweep := time.NewTicker(ledger.SweepInterval)
	defer sweep.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-sweep.C:
			c.runSweeps(now)
		case evt := <-c.queue:
			queueDepth.WithLabelValues(c.ID).Set(float64(len(c.queue)))
			c.processEvent(context.Background(), evt)
		}
	}
}

func (c *Community) runSweeps(now time.Time) {
	sweepRemovedCount.WithLabelValues("ledger").Add(float64(c.ledger.Sweep(now)))
	sweepRemovedCount.WithLabelValues("recentspam").Add(float64(c.recentSpam.Sweep(now)))
	sweepRemovedCount.WithLabelValues("cooldown").Add(float64(c.cooldowns.Sweep(now)))
}

// processEvent runs the whole deterministic phase for one event: ledger
// update, rule matching, wave dedupe, cooldowns, and action application.
// Only alert/log emission is detached.
func (c *Community) processEvent(ctx context.Context, evt *event.Event) {
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("automod event execution exception", "err", r, "type", evt.Type)
			eventErrorCount.WithLabelValues(string(evt.Type)).Inc()
		}
	}()
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues(string(evt.Type)).Observe(time.Since(start).Seconds())
	}()
	eventProcessCount.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.MessageCreate:
		if evt.Message == nil {
			return
		}
		ledger.IngestMessage(c.ledger, evt.Message)
	case event.MessageUpdate:
		if evt.Message == nil {
			return
		}
		ledger.ReingestMessage(c.ledger, evt.Message)
	case event.MemberJoin:
		if evt.Member == nil {
			return
		}
		ledger.IngestMemberJoin(c.ledger, evt.Member)
	default:
		c.logger.Warn("unhandled event type", "type", evt.Type)
		return
	}

	channelID := ""
	if evt.Message != nil {
		channelID = evt.Message.ChannelID
	}
	cfg, err := c.deps.Resolver.ResolveConfig(ctx, c.ID, evt.UserID(), channelID)
	if err != nil {
		c.logger.Error("config resolution failed", "err", err)
		eventErrorCount.WithLabelValues(string(evt.Type)).Inc()
		return
	}

	env := &trigger.Env{
		Ctx:         ctx,
		Logger:      c.logger,
		Ledger:      c.ledger,
		Invites:     c.deps.Invites,
		CommunityID: c.ID,
	}
	match := MatchEvent(env, cfg.Rules, evt)
	if match == nil {
		return
	}

	rule, res := match.Rule, match.Result
	ts := evt.Timestamp()
	logger := c.logger.With("rule", rule.Name, "matchType", string(res.Type))

	var deferred []DeferredNotify
	if res.Spam() {
		deferred = c.applySpamMatch(ctx, logger, rule, res, ts)
	} else {
		deferred = c.applyDirectMatch(ctx, logger, rule, res, ts)
	}
	for _, fn := range deferred {
		c.notifyWG.Add(1)
		go func(fn DeferredNotify) {
			defer c.notifyWG.Done()
			fn(context.Background())
		}(fn)
	}
}

// applySpamMatch handles the spam-wave path: filter out users already
// actioned in the live wave, mark the surviving evidence consumed, persist
// the evidence archive, then run the rule's actions for the new users.
func (c *Community) applySpamMatch(ctx context.Context, logger *slog.Logger, rule *Rule, res *trigger.MatchResult, ts time.Time) []DeferredNotify {
	candidates := res.CandidateUsers()
	surviving := c.recentSpam.FilterActioned(rule.Name, res.Identifier, candidates, ts)
	if len(surviving) == 0 {
		// continuing wave with nothing new: no actions, no fresh log lines
		spamDedupeSkipCount.Inc()
		return nil
	}
	ruleMatchCount.WithLabelValues(string(res.SpamKind) + "_spam").Inc()

	var unactioned []*ledger.RecentAction
	for _, ra := range res.RecentActions {
		if !ra.Actioned {
			unactioned = append(unactioned, ra)
		}
	}
	wave := c.recentSpam.Update(rule.Name, res.Identifier, surviving, ts)
	for _, ra := range unactioned {
		ra.Actioned = true
	}

	msgs := uniqueMessages(unactioned)
	if c.deps.Archive != nil && len(msgs) > 0 {
		handle, url, err := c.deps.Archive.CreateOrAppend(ctx, wave.ArchiveHandle, msgs)
		if err != nil {
			logger.Error("archiving spam evidence failed", "err", err)
			c.internalAlert(ctx, "archiving spam evidence failed: "+err.Error())
		} else {
			wave.SetArchive(handle, url)
		}
	}

	logger.Info("rule matched",
		"trigger", string(res.SpamKind)+"_spam",
		"identifier", res.Identifier,
		"users", surviving,
		"contributing", len(res.RecentActions))
	return c.applyActions(ctx, logger, rule, res, surviving, msgs, wave.ArchiveURL)
}

// applyDirectMatch handles single-message and member-attribute matches,
// which are throttled by the per-rule+user cooldown instead of wave dedupe.
func (c *Community) applyDirectMatch(ctx context.Context, logger *slog.Logger, rule *Rule, res *trigger.MatchResult, ts time.Time) []DeferredNotify {
	if c.cooldowns.IsOnCooldown(rule.Name, res.UserID, ts) {
		cooldownSkipCount.Inc()
		return nil
	}
	c.cooldowns.StartCooldown(rule.Name, res.UserID, rule.Cooldown, ts)
	ruleMatchCount.WithLabelValues(string(res.Type)).Inc()

	var msgs []ledger.MessageInfo
	if res.Message != nil {
		msgs = []ledger.MessageInfo{*res.Message}
	}
	logger.Info("rule matched", "user", res.UserID, "matchedValue", res.MatchedValue)
	return c.applyActions(ctx, logger, rule, res, []string{res.UserID}, msgs, "")
}

func (c *Community) internalAlert(ctx context.Context, msg string) {
	if err := c.deps.Notifier.Alert(ctx, c.ID, msg); err != nil {
		c.logger.Warn("internal alert delivery failed", "err", err)
	}
}

// uniqueMessages extracts the distinct messages behind a set of ledger
// entries, preserving order.
func uniqueMessages(entries []*ledger.RecentAction) []ledger.MessageInfo {
	var out []ledger.MessageInfo
	seen := make(map[string]bool)
	for _, ra := range entries {
		if ra.Message == nil || seen[ra.Message.MessageID] {
			continue
		}
		seen[ra.Message.MessageID] = true
		out = append(out, *ra.Message)
	}
	return out
}
