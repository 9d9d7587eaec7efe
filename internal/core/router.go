package core

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// SignalRouter relays point-to-point negotiation payloads between live
// connections. Relay is best effort: failures are logged and returned, but
// the sending peer is never told about them.
//
// No channel relationship between sender and target is required.
type SignalRouter struct {
	state *State
	log   *zerolog.Logger
}

// NewSignalRouter wires a router to shared state.
func NewSignalRouter(state *State, logger *zerolog.Logger) *SignalRouter {
	return &SignalRouter{state: state, log: orNop(logger)}
}

// Relay delivers {from, data} to the target connection exactly once.
// The payload bytes are forwarded unchanged.
func (r *SignalRouter) Relay(from, to string, payload json.RawMessage) error {
	if to == "" {
		r.log.Warn().Str("from", from).Msg("signal without target dropped")
		return ErrMalformedRequest
	}

	info := inspectPayload(payload)

	var (
		err     error
		dropped bool
	)
	r.state.update(func() {
		target, ok := r.state.registry.Get(to)
		if !ok {
			err = ErrUnknownTarget
			return
		}
		dropped = !target.deliver(&Event{
			Kind:      EventSignal,
			From:      from,
			Data:      payload,
			Timestamp: r.state.now(),
		})
	})

	if err != nil {
		r.log.Warn().Str("from", from).Str("to", to).Object("payload", info).Msg("signal target not connected")
		return err
	}
	if dropped {
		r.log.Warn().Str("from", from).Str("to", to).Object("payload", info).Msg("event queue full, dropping signal")
		return nil
	}

	r.log.Debug().Str("from", from).Str("to", to).Object("payload", info).Msg("signal relayed")
	return nil
}
