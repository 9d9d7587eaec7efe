package core

import (
	"sort"

	"github.com/samber/lo"
)

// Registry tracks live connections by id.
// It is not synchronized on its own; State guards it.
type Registry struct {
	conns map[string]*Connection
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

// Add inserts a connection. Returns false if the id is already taken.
func (r *Registry) Add(c *Connection) bool {
	if _, exists := r.conns[c.ID]; exists {
		return false
	}
	r.conns[c.ID] = c
	return true
}

// Get looks up a live connection.
func (r *Registry) Get(id string) (*Connection, bool) {
	c, ok := r.conns[id]
	return c, ok
}

// Remove deletes a connection and returns it if it was present.
func (r *Registry) Remove(id string) (*Connection, bool) {
	c, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	delete(r.conns, id)
	return c, true
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

// IDs returns the ids of all live connections in sorted order.
func (r *Registry) IDs() []string {
	ids := lo.Keys(r.conns)
	sort.Strings(ids)
	return ids
}
