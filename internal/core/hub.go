package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrHubStopped is returned when a command arrives after Run has returned.
var ErrHubStopped = errors.New("hub stopped")

const (
	defaultEventBuffer = 64
	defaultInboxSize   = 256
)

// HubConfig describes channels and queue sizes for a hub.
type HubConfig struct {
	Channels    []ChannelDef
	Secrets     map[string]string // channel -> shared secret
	EventBuffer int
	InboxSize   int
}

// Hub serializes inbound commands from every connection onto one loop and
// dispatches them to the session manager and the signal router.
type Hub struct {
	state    *State
	sessions *SessionManager
	router   *SignalRouter
	reporter *Reporter

	inbox       chan *Command
	done        chan struct{}
	eventBuffer int
	log         *zerolog.Logger
}

// NewHub creates a hub with its own isolated state.
func NewHub(cfg HubConfig, logger *zerolog.Logger) *Hub {
	return NewHubWithState(NewState(cfg.Channels), cfg, logger)
}

// NewHubWithState creates a hub over existing state.
func NewHubWithState(state *State, cfg HubConfig, logger *zerolog.Logger) *Hub {
	logger = orNop(logger)
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = defaultInboxSize
	}
	gate := NewAccessGate(cfg.Secrets)
	return &Hub{
		state:       state,
		sessions:    NewSessionManager(state, gate, logger),
		router:      NewSignalRouter(state, logger),
		reporter:    NewReporter(state),
		inbox:       make(chan *Command, cfg.InboxSize),
		done:        make(chan struct{}),
		eventBuffer: cfg.EventBuffer,
		log:         logger,
	}
}

// Run processes commands until ctx is cancelled. Must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.drain()
			return
		case cmd := <-h.inbox:
			h.handle(cmd)
		}
	}
}

// drain tears down connections whose disconnect was queued before shutdown.
func (h *Hub) drain() {
	for {
		select {
		case cmd := <-h.inbox:
			if cmd != nil && cmd.Kind == CommandDisconnect {
				h.sessions.Disconnect(cmd.ConnectionID)
			}
		default:
			return
		}
	}
}

// RegisterClient creates a new connection. The first queued event is the
// connected greeting carrying the assigned id.
func (h *Hub) RegisterClient() (*Client, error) {
	return h.sessions.Connect(h.eventBuffer)
}

// UnregisterClient schedules the connection's disconnect. Once the loop has
// stopped the disconnect runs inline.
func (h *Hub) UnregisterClient(client *Client) {
	if client == nil {
		return
	}
	if h.stopped() {
		h.sessions.Disconnect(client.ID)
		return
	}
	select {
	case h.inbox <- &Command{Kind: CommandDisconnect, ConnectionID: client.ID}:
	case <-h.done:
		h.sessions.Disconnect(client.ID)
	}
}

// Submit queues a command for the dispatch loop.
func (h *Hub) Submit(ctx context.Context, cmd *Command) error {
	if h.stopped() {
		return ErrHubStopped
	}
	select {
	case h.inbox <- cmd:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Snapshot returns diagnostics for status reporting.
func (h *Hub) Snapshot() Snapshot {
	return h.reporter.Snapshot()
}

// Channels lists configured channels with their member counts.
func (h *Hub) Channels() []ChannelInfo {
	return h.reporter.Channels()
}

func (h *Hub) handle(cmd *Command) {
	if cmd == nil {
		return
	}
	switch cmd.Kind {
	case CommandJoinChannel:
		h.handleJoin(cmd)
	case CommandLeaveChannel:
		h.sessions.Leave(cmd.ConnectionID, cmd.Channel)
	case CommandSignal:
		// Best effort: failures are logged by the router and never reach the sender.
		_ = h.router.Relay(cmd.ConnectionID, cmd.To, cmd.Data)
	case CommandPing:
		h.sessions.Notify(cmd.ConnectionID, &Event{Kind: EventPong, Timestamp: h.state.now()})
	case CommandDisconnect:
		h.sessions.Disconnect(cmd.ConnectionID)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Str("client_id", cmd.ConnectionID).Msg("unknown command kind")
	}
}

func (h *Hub) handleJoin(cmd *Command) {
	_, err := h.sessions.Join(JoinRequest{
		ConnectionID: cmd.ConnectionID,
		Channel:      cmd.Channel,
		DisplayName:  cmd.DisplayName,
		AvatarRef:    cmd.AvatarRef,
		Credential:   cmd.Credential,
	})
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, ErrAuthenticationFailed):
		h.sessions.Notify(cmd.ConnectionID, &Event{Kind: EventPasswordFailed, Channel: cmd.Channel, Timestamp: h.state.now()})
	case errors.Is(err, ErrUnknownConnection):
		h.log.Debug().Str("client_id", cmd.ConnectionID).Msg("join from removed connection ignored")
	default:
		var coreErr *CoreError
		if !errors.As(err, &coreErr) {
			coreErr = coreError(ErrCodeMalformedRequest, err.Error())
		}
		h.log.Info().Err(err).Str("client_id", cmd.ConnectionID).Str("channel", cmd.Channel).Msg("join rejected")
		h.sessions.Notify(cmd.ConnectionID, &Event{Kind: EventError, Channel: cmd.Channel, Error: coreErr, Timestamp: h.state.now()})
	}
}
