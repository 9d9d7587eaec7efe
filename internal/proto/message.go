package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeJoinChannel  = "joinChannel"
	InboundTypeLeaveChannel = "leaveChannel"
	InboundTypeSignal       = "signal"
	InboundTypePing         = "ping"

	OutboundTypeConnected       = "connected"
	OutboundTypeExistingMembers = "existing-members"
	OutboundTypeUserJoined      = "user-joined"
	OutboundTypeUserLeft        = "user-left"
	OutboundTypeSignal          = "signal"
	OutboundTypePasswordFailed  = "password-failed"
	OutboundTypeError           = "error"
	OutboundTypePong            = "pong"
)

// JoinChannelData requests to join a channel.
type JoinChannelData struct {
	Channel  string `json:"channel"`
	Name     string `json:"name,omitempty"`
	Photo    string `json:"photo,omitempty"`
	Password string `json:"password,omitempty"`
}

// LeaveChannelData requests to leave a channel. An empty channel means the current one.
type LeaveChannelData struct {
	Channel string `json:"channel,omitempty"`
}

// SignalData carries an opaque negotiation payload for another connection.
type SignalData struct {
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ConnectedData tells a client its own socket id.
type ConnectedData struct {
	SocketID string `json:"socketId"`
}

// MemberData describes one channel member.
type MemberData struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
	Photo    string `json:"photo,omitempty"`
}

// ExistingMembersData is the batched snapshot sent to a joining client.
type ExistingMembersData struct {
	Channel string       `json:"channel"`
	Users   []MemberData `json:"users"`
}

// UserLeftData notifies that a member departed.
type UserLeftData struct {
	SocketID string `json:"socketId"`
}

// SignalEventData is a relayed negotiation payload.
type SignalEventData struct {
	From string          `json:"from"`
	Data json.RawMessage `json:"data"`
}

// PasswordFailedData identifies the channel that rejected the credential.
type PasswordFailedData struct {
	Channel string `json:"channel,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PongData answers a ping with the server time in unix milliseconds.
type PongData struct {
	Timestamp int64 `json:"timestamp"`
}
