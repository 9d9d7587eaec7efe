package core

import (
	"encoding/json"
	"time"
)

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventConnected greets a new connection with its own id.
	EventConnected EventKind = iota
	// EventExistingMembers delivers the membership snapshot to a connection that just joined.
	EventExistingMembers
	// EventUserJoined notifies members about a new arrival in their channel.
	EventUserJoined
	// EventUserLeft notifies members that a connection departed their channel.
	EventUserLeft
	// EventSignal carries a relayed negotiation payload.
	EventSignal
	// EventPasswordFailed tells the requester the protected channel rejected its credential.
	EventPasswordFailed
	// EventError notifies the requester about a domain error.
	EventError
	// EventPong answers a liveness ping.
	EventPong
)

var eventKindNames = map[EventKind]string{
	EventConnected:       "connected",
	EventExistingMembers: "existing_members",
	EventUserJoined:      "user_joined",
	EventUserLeft:        "user_left",
	EventSignal:          "signal",
	EventPasswordFailed:  "password_failed",
	EventError:           "error",
	EventPong:            "pong",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is sent to connections to describe what happened in the system.
type Event struct {
	Kind         EventKind
	Channel      string
	ConnectionID string   // subject of connected/user_left
	Member       Member   // for EventUserJoined
	Members      []Member // for EventExistingMembers
	From         string   // for EventSignal
	Data         json.RawMessage
	Error        *CoreError
	Timestamp    time.Time
}
