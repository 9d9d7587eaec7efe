package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReporterSnapshot(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	empty := env.reporter.Snapshot()
	req.Zero(empty.TotalConnections)
	req.Len(empty.Channels, 3)
	for name, stats := range empty.Channels {
		req.Zero(stats.MemberCount, name)
		req.Empty(stats.MemberIDs, name)
	}

	alice := env.connect(t)
	bob := env.connect(t)
	env.connect(t)
	env.join(t, alice, "exo1", "Alice")
	env.join(t, bob, "exo1", "Bob")

	snap := env.reporter.Snapshot()
	req.Equal(3, snap.TotalConnections)
	req.Equal(2, snap.Channels["exo1"].MemberCount)
	req.Equal([]string{alice.ID, bob.ID}, snap.Channels["exo1"].MemberIDs)
	req.Zero(snap.Channels["staff"].MemberCount)
	req.Greater(snap.Uptime, time.Duration(0))
	req.True(snap.StartedAt.Before(snap.StartedAt.Add(snap.Uptime)))
}

func TestReporterSnapshotIsDetached(t *testing.T) {
	env := newTestEnv(t)
	alice := env.connect(t)
	env.join(t, alice, "exo1", "Alice")

	snap := env.reporter.Snapshot()
	env.sessions.Disconnect(alice.ID)

	require.Equal(t, 1, snap.Channels["exo1"].MemberCount)
	require.Equal(t, []string{alice.ID}, snap.Channels["exo1"].MemberIDs)
	require.Zero(t, env.reporter.Snapshot().Channels["exo1"].MemberCount)
}
