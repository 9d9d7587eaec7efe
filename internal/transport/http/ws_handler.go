package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wiresignal/internal/core"
	"github.com/vovakirdan/wiresignal/internal/proto"
)

// errEvicted reports that the hub closed the event queue of a live connection
// because it could not keep up.
var errEvicted = errors.New("event queue overflow")

// WSOptions tune the WebSocket upgrade.
type WSOptions struct {
	AllowedOrigins  []string // host patterns; "*" accepts any origin
	MaxMessageBytes int64
}

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub  Hub
	opts WSOptions
	log  *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub Hub, opts WSOptions, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, opts: opts, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.AllowedOrigins,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	if h.opts.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.opts.MaxMessageBytes)
	}

	client, err := h.hub.RegisterClient()
	if err != nil {
		h.log.Error().Err(err).Msg("register client")
		conn.Close(websocket.StatusTryAgainLater, "registration failed")
		return
	}
	defer h.hub.UnregisterClient(client)

	log := h.log.With().Str("client_id", client.ID).Logger()
	log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, &log)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client, &log)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if errors.Is(err, errEvicted) {
		log.Warn().Msg("slow client evicted")
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	log.Info().Msg("client disconnected")
	conn.Close(status, reason)
}

// readLoop decodes frames and submits commands. A frame that cannot be
// decoded is answered with an error event and the connection stays open.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, log *zerolog.Logger) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("read ws inbound")
			return err
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			log.Debug().Err(err).Msg("malformed ws frame")
			if writeErr := writeError(ctx, conn, malformed("invalid message envelope")); writeErr != nil {
				return writeErr
			}
			continue
		}

		cmd, protoErr := inboundToCommand(client.ID, inbound)
		if protoErr != nil {
			log.Debug().Str("type", inbound.Type).Str("code", protoErr.Code).Msg("rejected inbound")
			if writeErr := writeError(ctx, conn, protoErr); writeErr != nil {
				return writeErr
			}
			continue
		}

		if err := h.hub.Submit(ctx, cmd); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, log *zerolog.Logger) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return errEvicted
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				log.Error().Err(err).Str("event", event.Kind.String()).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, protoErr *proto.Error) error {
	return wsjson.Write(ctx, conn, proto.Outbound{Type: proto.OutboundTypeError, Data: protoErr})
}
