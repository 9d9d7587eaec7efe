package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelStoreMembership(t *testing.T) {
	req := require.New(t)
	store := NewChannelStore([]ChannelDef{{Name: "exo1"}, {Name: "exo2"}, {Name: "exo1", Protected: true}})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Duplicate definitions keep the first one.
	req.Equal([]string{"exo1", "exo2"}, store.Names())
	ch, ok := store.Lookup("exo1")
	req.True(ok)
	req.False(ch.Protected)

	req.True(store.AddMember("exo1", "b", Presence{DisplayName: "Bob", JoinedAt: base.Add(time.Second)}))
	req.True(store.AddMember("exo1", "a", Presence{DisplayName: "Alice", JoinedAt: base}))
	req.False(store.AddMember("ghost", "a", Presence{}))

	req.Equal(2, store.MemberCountOf("exo1"))
	req.Zero(store.MemberCountOf("ghost"))
	req.True(store.IsMember("exo1", "a"))
	req.False(store.IsMember("exo2", "a"))
	req.False(store.IsMember("ghost", "a"))

	members := store.MembersOf("exo1")
	req.Len(members, 2)
	req.Equal("a", members[0].ID, "ordered by join time")
	req.Equal("Bob", members[1].DisplayName)
	req.Nil(store.MembersOf("ghost"))

	req.True(store.RemoveMember("exo1", "a"))
	req.False(store.RemoveMember("exo1", "a"))
	req.False(store.RemoveMember("ghost", "a"))
	req.Equal(1, store.MemberCountOf("exo1"))
}

func TestMembersOfReturnsCopy(t *testing.T) {
	store := NewChannelStore([]ChannelDef{{Name: "exo1"}})
	store.AddMember("exo1", "a", Presence{DisplayName: "Alice"})

	members := store.MembersOf("exo1")
	members[0].DisplayName = "Mallory"

	again := store.MembersOf("exo1")
	require.Len(t, again, 1)
	require.Equal(t, "Alice", again[0].DisplayName)
}

func TestRegistryLifecycle(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	now := time.Now()

	a := newConnection("a", 4, now)
	req.True(reg.Add(a))
	req.False(reg.Add(newConnection("a", 4, now)), "ids are unique")
	req.True(reg.Add(newConnection("b", 0, now)))
	req.Equal(2, reg.Len())
	req.Equal([]string{"a", "b"}, reg.IDs())

	got, ok := reg.Get("a")
	req.True(ok)
	req.Same(a, got)
	req.Equal(DefaultDisplayName, got.DisplayName)
	req.Empty(got.CurrentChannel)
	req.Equal(now, got.ConnectedAt)

	removed, ok := reg.Remove("a")
	req.True(ok)
	req.Same(a, removed)
	_, ok = reg.Remove("a")
	req.False(ok)
	_, ok = reg.Get("a")
	req.False(ok)
}

func TestConnectionDeliverDropsWhenFull(t *testing.T) {
	conn := newConnection("a", 1, time.Now())

	require.True(t, conn.deliver(&Event{Kind: EventPong}))
	require.False(t, conn.deliver(&Event{Kind: EventPong}))
}
