package core

import (
	"time"

	"github.com/samber/lo"
)

// ChannelStats is the per-channel part of a snapshot.
type ChannelStats struct {
	MemberCount int
	MemberIDs   []string
}

// Snapshot is a consistent read of the registry and channel store.
type Snapshot struct {
	StartedAt        time.Time
	Uptime           time.Duration
	TotalConnections int
	Channels         map[string]ChannelStats
}

// ChannelInfo describes one configured channel.
type ChannelInfo struct {
	Name        string
	Protected   bool
	MemberCount int
}

// Reporter produces read-only views for status endpoints.
type Reporter struct {
	state *State
}

// NewReporter wires a reporter to shared state.
func NewReporter(state *State) *Reporter {
	return &Reporter{state: state}
}

// Snapshot reads counts and member ids under the read lock.
func (r *Reporter) Snapshot() Snapshot {
	var snap Snapshot
	r.state.view(func() {
		snap = Snapshot{
			StartedAt:        r.state.started,
			Uptime:           r.state.now().Sub(r.state.started),
			TotalConnections: r.state.registry.Len(),
			Channels:         make(map[string]ChannelStats),
		}
		for _, name := range r.state.channels.Names() {
			members := r.state.channels.MembersOf(name)
			snap.Channels[name] = ChannelStats{
				MemberCount: len(members),
				MemberIDs:   lo.Map(members, func(m Member, _ int) string { return m.ID }),
			}
		}
	})
	return snap
}

// Channels lists configured channels in name order.
func (r *Reporter) Channels() []ChannelInfo {
	var infos []ChannelInfo
	r.state.view(func() {
		for _, name := range r.state.channels.Names() {
			ch, _ := r.state.channels.Lookup(name)
			infos = append(infos, ChannelInfo{
				Name:        ch.Name,
				Protected:   ch.Protected,
				MemberCount: len(ch.members),
			})
		}
	})
	return infos
}
