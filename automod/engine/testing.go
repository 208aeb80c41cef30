package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/ledger"
)

// TestCall records one executor invocation for assertions.
type TestCall struct {
	Action    string
	UserID    string
	ChannelID string
	MessageID string
	Text      string
}

// TestExecutor is an in-memory ActionExecutor recording every call.
// Individual actions can be made to fail via Fail.
type TestExecutor struct {
	mu    sync.Mutex
	Calls []TestCall
	// Fail maps action name to the error it should return.
	Fail map[string]error
}

var _ ActionExecutor = (*TestExecutor)(nil)

func NewTestExecutor() *TestExecutor {
	return &TestExecutor{Fail: make(map[string]error)}
}

func (x *TestExecutor) record(call TestCall) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Fail[call.Action]; err != nil {
		return err
	}
	x.Calls = append(x.Calls, call)
	return nil
}

// CallsFor returns recorded calls of one action type.
func (x *TestExecutor) CallsFor(action string) []TestCall {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []TestCall
	for _, c := range x.Calls {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

func (x *TestExecutor) DeleteMessage(ctx context.Context, communityID, channelID, messageID string) error {
	return x.record(TestCall{Action: "clean", ChannelID: channelID, MessageID: messageID})
}

func (x *TestExecutor) Warn(ctx context.Context, communityID, userID, reason string) error {
	return x.record(TestCall{Action: "warn", UserID: userID, Text: reason})
}

func (x *TestExecutor) Mute(ctx context.Context, communityID, userID string, duration time.Duration, reason string) error {
	return x.record(TestCall{Action: "mute", UserID: userID, Text: reason})
}

func (x *TestExecutor) Kick(ctx context.Context, communityID, userID, reason string) error {
	return x.record(TestCall{Action: "kick", UserID: userID, Text: reason})
}

func (x *TestExecutor) Ban(ctx context.Context, communityID, userID, reason string) error {
	return x.record(TestCall{Action: "ban", UserID: userID, Text: reason})
}

func (x *TestExecutor) SetNickname(ctx context.Context, communityID, userID, nickname string) error {
	return x.record(TestCall{Action: "change_nickname", UserID: userID, Text: nickname})
}

func (x *TestExecutor) AddRoles(ctx context.Context, communityID, userID string, roleIDs []string) error {
	return x.record(TestCall{Action: "add_roles", UserID: userID})
}

func (x *TestExecutor) RemoveRoles(ctx context.Context, communityID, userID string, roleIDs []string) error {
	return x.record(TestCall{Action: "remove_roles", UserID: userID})
}

func (x *TestExecutor) PostReply(ctx context.Context, communityID, channelID, text string) error {
	return x.record(TestCall{Action: "reply", ChannelID: channelID, Text: text})
}

func (x *TestExecutor) PostAlert(ctx context.Context, communityID, channelID, text string) error {
	return x.record(TestCall{Action: "alert", ChannelID: channelID, Text: text})
}

// TestResolver returns the same config for every event.
type TestResolver struct {
	Config *ResolvedConfig
}

func (r *TestResolver) ResolveConfig(ctx context.Context, communityID, userID, channelID string) (*ResolvedConfig, error) {
	return r.Config, nil
}

// StubRenderer ignores the template language entirely and returns the raw
// template text, so engine tests stay hermetic.
type StubRenderer struct{}

func (StubRenderer) Render(template string, values map[string]any) (string, error) {
	return template, nil
}

// TestArchive collects evidence batches in memory.
type TestArchive struct {
	mu      sync.Mutex
	Batches map[string][]ledger.MessageInfo
	seq     int
}

func NewTestArchive() *TestArchive {
	return &TestArchive{Batches: make(map[string][]ledger.MessageInfo)}
}

func (a *TestArchive) CreateOrAppend(ctx context.Context, handle string, messages []ledger.MessageInfo) (string, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if handle == "" {
		a.seq++
		handle = fmt.Sprintf("archive-%d", a.seq)
	}
	a.Batches[handle] = append(a.Batches[handle], messages...)
	return handle, "https://archive.invalid/" + handle, nil
}

// TestLevels is an in-memory AntiraidLevelStore.
type TestLevels struct {
	mu     sync.Mutex
	Levels map[string]string
}

func NewTestLevels() *TestLevels {
	return &TestLevels{Levels: make(map[string]string)}
}

func (s *TestLevels) Get(ctx context.Context, communityID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Levels[communityID], nil
}

func (s *TestLevels) Set(ctx context.Context, communityID, level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Levels[communityID] = level
	return nil
}

// TestFixture wires an engine against in-memory collaborators.
type TestFixture struct {
	Engine   *Engine
	Config   *ResolvedConfig
	Executor *TestExecutor
	Archive  *TestArchive
	Levels   *TestLevels
}

func EngineTestFixture(rules ...*Rule) *TestFixture {
	cfg := &ResolvedConfig{Rules: rules}
	fix := &TestFixture{
		Config:   cfg,
		Executor: NewTestExecutor(),
		Archive:  NewTestArchive(),
		Levels:   NewTestLevels(),
	}
	fix.Engine = NewEngine(slog.Default(), Deps{
		Resolver: &TestResolver{Config: cfg},
		Executor: fix.Executor,
		Renderer: StubRenderer{},
		Archive:  fix.Archive,
		Levels:   fix.Levels,
	})
	return fix
}

// ProcessSync runs the full deterministic phase for one event inline, then
// waits for deferred alert/log emission. Test helper; production traffic
// goes through ProcessEvent and the per-community queue.
func (fix *TestFixture) ProcessSync(ctx context.Context, evt *event.Event) error {
	c, err := fix.Engine.community(evt.CommunityID)
	if err != nil {
		return err
	}
	c.processEvent(ctx, evt)
	c.Flush()
	return nil
}
