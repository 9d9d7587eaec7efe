package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wiresignal/internal/proto"
)

type probeOptions struct {
	addr     string
	channel  string
	name     string
	password string
	to       string
	data     string
	wait     time.Duration
	timeout  time.Duration
}

func newProbeCmd() *cobra.Command {
	opts := probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Connect to a running relay, join a channel and print the events received",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runProbe(ctx, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "ws://localhost:10000/ws", "WebSocket address")
	cmd.Flags().StringVar(&opts.channel, "channel", "exo1", "channel to join")
	cmd.Flags().StringVar(&opts.name, "name", "probe", "display name")
	cmd.Flags().StringVar(&opts.password, "password", "", "credential for a protected channel")
	cmd.Flags().StringVar(&opts.to, "to", "", "socket id to send a signal to")
	cmd.Flags().StringVar(&opts.data, "data", `{"type":"probe"}`, "JSON payload for the signal")
	cmd.Flags().DurationVar(&opts.wait, "wait", 2*time.Second, "how long to keep printing events after joining")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "total timeout for the run")

	return cmd
}

var errJoinRejected = errors.New("join rejected")

func runProbe(ctx context.Context, opts probeOptions, out io.Writer) error {
	conn, _, err := websocket.Dial(ctx, opts.addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, v any) error {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeJoinChannel, proto.JoinChannelData{
		Channel:  opts.channel,
		Name:     opts.name,
		Password: opts.password,
	}); err != nil {
		return err
	}

	readCtx := ctx
	joined := false
	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(readCtx, conn, &msg); err != nil {
			if joined && ctx.Err() == nil {
				// Waiting period elapsed.
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		fmt.Fprintf(out, "%s %s\n", msg.Type, msg.Data)

		switch msg.Type {
		case proto.OutboundTypePasswordFailed, proto.OutboundTypeError:
			if !joined {
				return fmt.Errorf("%w: %s %s", errJoinRejected, msg.Type, msg.Data)
			}
		case proto.OutboundTypeExistingMembers:
			if joined {
				continue
			}
			joined = true
			if opts.to != "" {
				if err := send(proto.InboundTypeSignal, proto.SignalData{To: opts.to, Data: json.RawMessage(opts.data)}); err != nil {
					return err
				}
			}
			var cancel context.CancelFunc
			readCtx, cancel = context.WithTimeout(ctx, opts.wait)
			defer cancel()
		}
	}
}
