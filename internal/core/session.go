package core

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wiresignal/internal/utils"
)

// JoinRequest carries everything a connection supplies when joining a channel.
type JoinRequest struct {
	ConnectionID string
	Channel      string
	DisplayName  string
	AvatarRef    string
	Credential   string
}

// JoinResult is returned to a connection that entered a channel.
type JoinResult struct {
	Channel  string
	Existing []Member // other members, excluding the joiner
}

// SessionManager is the only component that mutates the registry and the
// channel store. It enforces at most one channel per connection.
type SessionManager struct {
	state *State
	gate  *AccessGate
	log   *zerolog.Logger
	newID func() string

	// ids whose queue overflowed during the current transition
	slow []string
}

// NewSessionManager wires a session manager to shared state.
func NewSessionManager(state *State, gate *AccessGate, logger *zerolog.Logger) *SessionManager {
	return &SessionManager{
		state: state,
		gate:  gate,
		log:   orNop(logger),
		newID: utils.NewID,
	}
}

// Connect registers a new connection and greets it with its id.
func (m *SessionManager) Connect(buffer int) (*Client, error) {
	var (
		client *Client
		err    error
	)
	m.state.update(func() {
		conn := newConnection(m.newID(), buffer, m.state.now())
		if !m.state.registry.Add(conn) {
			err = ErrUnknownConnection
			return
		}
		conn.deliver(&Event{Kind: EventConnected, ConnectionID: conn.ID, Timestamp: conn.ConnectedAt})
		client = &Client{ID: conn.ID, Events: conn.events}
		m.log.Debug().Str("client_id", conn.ID).Int("connections", m.state.registry.Len()).Msg("connection registered")
	})
	return client, err
}

// Join places the connection into a channel, leaving its previous one first.
// Rejections leave all state untouched.
func (m *SessionManager) Join(req JoinRequest) (JoinResult, error) {
	var (
		result JoinResult
		err    error
	)
	m.transition(func() {
		result, err = m.join(req)
	})
	return result, err
}

func (m *SessionManager) join(req JoinRequest) (JoinResult, error) {
	conn, ok := m.state.registry.Get(req.ConnectionID)
	if !ok {
		return JoinResult{}, ErrUnknownConnection
	}
	ch, ok := m.state.channels.Lookup(req.Channel)
	if !ok {
		return JoinResult{}, ErrUnknownChannel
	}
	if !m.gate.Check(ch.Name, req.Credential) {
		m.log.Info().Str("client_id", conn.ID).Str("channel", ch.Name).Msg("channel password rejected")
		return JoinResult{}, ErrAuthenticationFailed
	}

	if conn.CurrentChannel != "" {
		m.leave(conn, conn.CurrentChannel)
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = DefaultDisplayName
	}

	// Snapshot before insertion so the joiner never sees itself.
	existing := m.state.channels.MembersOf(ch.Name)

	presence := Presence{DisplayName: name, AvatarRef: req.AvatarRef, JoinedAt: m.state.now()}
	m.state.channels.AddMember(ch.Name, conn.ID, presence)
	conn.DisplayName = name
	conn.AvatarRef = req.AvatarRef
	conn.CurrentChannel = ch.Name

	m.send(conn, &Event{Kind: EventExistingMembers, Channel: ch.Name, Members: existing, Timestamp: presence.JoinedAt})

	joined := Member{ID: conn.ID, Presence: presence}
	for _, member := range existing {
		m.sendTo(member.ID, &Event{Kind: EventUserJoined, Channel: ch.Name, Member: joined, Timestamp: presence.JoinedAt})
	}

	m.log.Info().
		Str("client_id", conn.ID).
		Str("channel", ch.Name).
		Str("name", name).
		Int("members", len(existing)+1).
		Msg("joined channel")

	return JoinResult{Channel: ch.Name, Existing: existing}, nil
}

// Leave removes the connection from the named channel, or from its current
// channel when name is empty. Returns false when there was nothing to leave.
func (m *SessionManager) Leave(connectionID, channel string) bool {
	var left bool
	m.transition(func() {
		conn, ok := m.state.registry.Get(connectionID)
		if !ok {
			return
		}
		if channel == "" {
			channel = conn.CurrentChannel
		}
		if channel == "" {
			return
		}
		left = m.leave(conn, channel)
	})
	return left
}

func (m *SessionManager) leave(conn *Connection, channel string) bool {
	if !m.state.channels.RemoveMember(channel, conn.ID) {
		return false
	}
	if conn.CurrentChannel == channel {
		conn.CurrentChannel = ""
	}

	now := m.state.now()
	for _, member := range m.state.channels.MembersOf(channel) {
		m.sendTo(member.ID, &Event{Kind: EventUserLeft, Channel: channel, ConnectionID: conn.ID, Timestamp: now})
	}

	m.log.Info().
		Str("client_id", conn.ID).
		Str("channel", channel).
		Int("members", m.state.channels.MemberCountOf(channel)).
		Msg("left channel")
	return true
}

// Disconnect leaves the current channel and drops the connection from the
// registry. It is safe to call for unknown or already removed connections.
func (m *SessionManager) Disconnect(connectionID string) {
	m.transition(func() {
		m.remove(connectionID)
	})
}

func (m *SessionManager) remove(connectionID string) bool {
	conn, ok := m.state.registry.Get(connectionID)
	if !ok {
		return false
	}
	if conn.CurrentChannel != "" {
		m.leave(conn, conn.CurrentChannel)
	}
	m.state.registry.Remove(conn.ID)
	close(conn.events)
	m.log.Debug().Str("client_id", conn.ID).Int("connections", m.state.registry.Len()).Msg("connection removed")
	return true
}

// Notify delivers a single event to one live connection.
func (m *SessionManager) Notify(connectionID string, ev *Event) bool {
	var delivered bool
	m.transition(func() {
		delivered = m.sendTo(connectionID, ev)
	})
	return delivered
}

func (m *SessionManager) sendTo(id string, ev *Event) bool {
	conn, ok := m.state.registry.Get(id)
	if !ok {
		return false
	}
	return m.send(conn, ev)
}

func (m *SessionManager) send(conn *Connection, ev *Event) bool {
	if conn.deliver(ev) {
		return true
	}
	m.log.Warn().Str("client_id", conn.ID).Stringer("event", ev.Kind).Msg("event queue full, evicting connection")
	m.slow = append(m.slow, conn.ID)
	return false
}

// transition runs fn under the write lock, then removes every connection
// that could not keep up. A removal notifies its channel, which may in turn
// overflow further queues; the loop ends once no connection is pending.
func (m *SessionManager) transition(fn func()) {
	m.state.update(func() {
		fn()
		for len(m.slow) > 0 {
			id := m.slow[0]
			m.slow = m.slow[1:]
			m.remove(id)
		}
	})
}

func orNop(logger *zerolog.Logger) *zerolog.Logger {
	if logger != nil {
		return logger
	}
	nop := zerolog.Nop()
	return &nop
}
