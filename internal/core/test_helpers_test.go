package core

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testChannels = []ChannelDef{
	{Name: "exo1"},
	{Name: "exo2"},
	{Name: "staff", Protected: true},
}

var testSecrets = map[string]string{"staff": "s3cret"}

type testEnv struct {
	state    *State
	sessions *SessionManager
	router   *SignalRouter
	reporter *Reporter
	clock    *fakeClock
}

// fakeClock advances one millisecond per reading so join order is strict.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	state := NewState(testChannels).WithClock(clock.Now)
	logger := zerolog.Nop()

	return &testEnv{
		state:    state,
		sessions: NewSessionManager(state, NewAccessGate(testSecrets), &logger),
		router:   NewSignalRouter(state, &logger),
		reporter: NewReporter(state),
		clock:    clock,
	}
}

// connect registers a client and consumes its connected greeting.
func (e *testEnv) connect(t *testing.T) *Client {
	t.Helper()

	client, err := e.sessions.Connect(16)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	ev := mustEvent(t, client.Events, EventConnected)
	if ev.ConnectionID != client.ID {
		t.Fatalf("greeting carries %q, want %q", ev.ConnectionID, client.ID)
	}
	return client
}

func (e *testEnv) join(t *testing.T, client *Client, channel, name string) JoinResult {
	t.Helper()

	res, err := e.sessions.Join(JoinRequest{ConnectionID: client.ID, Channel: channel, DisplayName: name})
	if err != nil {
		t.Fatalf("join %s as %s: %v", channel, name, err)
	}
	return res
}

// assertInvariant checks that every connection is in at most one channel and
// that CurrentChannel agrees with channel membership.
func (e *testEnv) assertInvariant(t *testing.T) {
	t.Helper()

	e.state.view(func() {
		seen := make(map[string]string)
		for _, name := range e.state.channels.Names() {
			for _, m := range e.state.channels.MembersOf(name) {
				if prev, dup := seen[m.ID]; dup {
					t.Fatalf("connection %s is in both %s and %s", m.ID, prev, name)
				}
				seen[m.ID] = name
			}
		}
		for _, id := range e.state.registry.IDs() {
			conn, _ := e.state.registry.Get(id)
			if conn.CurrentChannel != seen[id] {
				t.Fatalf("connection %s: CurrentChannel=%q, member of %q", id, conn.CurrentChannel, seen[id])
			}
		}
		for id := range seen {
			if _, ok := e.state.registry.Get(id); !ok {
				t.Fatalf("channel member %s is not registered", id)
			}
		}
	})
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event queue closed while waiting for %v", kind)
			}
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
			t.Fatalf("expected event %v, got %v", kind, ev.Kind)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// noEvent asserts that nothing is queued for the client right now.
func noEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event %v: %+v", ev.Kind, ev)
		}
	default:
	}
}
