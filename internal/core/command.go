package core

import "encoding/json"

// CommandKind describes what the connection wants to do.
type CommandKind int

const (
	// CommandJoinChannel places the connection into a channel.
	CommandJoinChannel CommandKind = iota
	// CommandLeaveChannel removes the connection from its channel.
	CommandLeaveChannel
	// CommandSignal relays a negotiation payload to another connection.
	CommandSignal
	// CommandPing asks for a pong.
	CommandPing
	// CommandDisconnect tears the connection down.
	CommandDisconnect
)

// Command represents an action requested on behalf of a connection.
type Command struct {
	Kind         CommandKind
	ConnectionID string
	Channel      string
	DisplayName  string
	AvatarRef    string
	Credential   string
	To           string
	Data         json.RawMessage
}
