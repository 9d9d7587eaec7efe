package core

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Presence is the per-member metadata stored in a channel.
type Presence struct {
	DisplayName string
	AvatarRef   string
	JoinedAt    time.Time
}

// Member is a read-only view of one channel member.
type Member struct {
	ID string
	Presence
}

// ChannelDef declares a configured channel.
type ChannelDef struct {
	Name      string
	Protected bool
}

// Channel groups connections that see each other's presence.
type Channel struct {
	Name      string
	Protected bool
	members   map[string]Presence
}

// NewChannel constructs a channel with no members.
func NewChannel(name string, protected bool) *Channel {
	return &Channel{
		Name:      name,
		Protected: protected,
		members:   make(map[string]Presence),
	}
}

// ChannelStore holds the fixed set of channels and their members.
// It is not synchronized on its own; State guards it.
type ChannelStore struct {
	channels map[string]*Channel
}

// NewChannelStore builds the store from configured definitions.
// Duplicate names keep the first definition.
func NewChannelStore(defs []ChannelDef) *ChannelStore {
	s := &ChannelStore{channels: make(map[string]*Channel, len(defs))}
	for _, def := range defs {
		if _, exists := s.channels[def.Name]; exists {
			continue
		}
		s.channels[def.Name] = NewChannel(def.Name, def.Protected)
	}
	return s
}

// Lookup returns the channel with the given name.
func (s *ChannelStore) Lookup(name string) (*Channel, bool) {
	ch, ok := s.channels[name]
	return ch, ok
}

// Names returns all configured channel names in sorted order.
func (s *ChannelStore) Names() []string {
	names := lo.Keys(s.channels)
	sort.Strings(names)
	return names
}

// MemberCountOf returns the number of members, zero for unknown channels.
func (s *ChannelStore) MemberCountOf(name string) int {
	ch, ok := s.channels[name]
	if !ok {
		return 0
	}
	return len(ch.members)
}

// MembersOf returns a copy of the channel's members ordered by join time.
func (s *ChannelStore) MembersOf(name string) []Member {
	ch, ok := s.channels[name]
	if !ok {
		return nil
	}
	members := lo.MapToSlice(ch.members, func(id string, p Presence) Member {
		return Member{ID: id, Presence: p}
	})
	sort.Slice(members, func(i, j int) bool {
		if members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].ID < members[j].ID
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members
}

// IsMember reports whether the connection is in the channel.
func (s *ChannelStore) IsMember(name, id string) bool {
	ch, ok := s.channels[name]
	if !ok {
		return false
	}
	_, exists := ch.members[id]
	return exists
}

// AddMember inserts or replaces a presence record. Returns false for unknown channels.
func (s *ChannelStore) AddMember(name, id string, p Presence) bool {
	ch, ok := s.channels[name]
	if !ok {
		return false
	}
	ch.members[id] = p
	return true
}

// RemoveMember deletes a presence record. Returns true if it was present.
func (s *ChannelStore) RemoveMember(name, id string) bool {
	ch, ok := s.channels[name]
	if !ok {
		return false
	}
	if _, exists := ch.members[id]; !exists {
		return false
	}
	delete(ch.members, id)
	return true
}
