package http

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wiresignal/internal/proto"
)

func getJSON(t *testing.T, ts *testServer, path string, v any) {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestInfoEndpoint(t *testing.T) {
	ts := startTestServer(t)

	var info InfoResponse
	getJSON(t, ts, "/", &info)
	require.Equal(t, "signalrelay", info.Service)
	require.Equal(t, "/ws", info.Endpoints["websocket"])
}

func TestStatusEndpoint(t *testing.T) {
	req := require.New(t)
	ts := startTestServer(t)

	var empty StatusResponse
	getJSON(t, ts, "/status", &empty)
	req.Zero(empty.TotalConnections)
	req.Len(empty.Channels, 3)
	req.NotNil(empty.Channels["exo1"].MemberIDs)

	alice := dial(t, ts)
	dial(t, ts)
	alice.send(proto.InboundTypeJoinChannel, proto.JoinChannelData{Channel: "exo2", Name: "Alice"})
	alice.expect(proto.OutboundTypeExistingMembers, nil)

	var status StatusResponse
	getJSON(t, ts, "/status", &status)
	req.Equal(2, status.TotalConnections)
	req.Equal(ChannelStatus{MemberCount: 1, MemberIDs: []string{alice.id}}, status.Channels["exo2"])
	req.Equal(0, status.Channels["staff"].MemberCount)
	req.False(status.StartedAt.IsZero())
	req.GreaterOrEqual(status.UptimeSeconds, 0.0)
}

func TestChannelsEndpoint(t *testing.T) {
	ts := startTestServer(t)
	alice := dial(t, ts)
	alice.send(proto.InboundTypeJoinChannel, proto.JoinChannelData{Channel: "exo1"})
	alice.expect(proto.OutboundTypeExistingMembers, nil)

	var body struct {
		Channels []ChannelResponse `json:"channels"`
	}
	getJSON(t, ts, "/channels", &body)
	require.Equal(t, []ChannelResponse{
		{Name: "exo1", MemberCount: 1},
		{Name: "exo2"},
		{Name: "staff", Protected: true},
	}, body.Channels)
}
