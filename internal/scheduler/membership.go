package scheduler

import (
	"sort"
	"sync"
)

// Membership is the set of target names owned by the tracking tier, either
// held by a tracker or waiting in the downtime queue. The lock is only held
// for the map operation itself.
type Membership struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func NewMembership() *Membership {
	return &Membership{names: make(map[string]struct{})}
}

// Add inserts name and reports whether it was absent. The check and the
// insert happen under one lock, so exactly one caller wins.
func (m *Membership) Add(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.names[name]; ok {
		return false
	}
	m.names[name] = struct{}{}
	return true
}

// Remove deletes name and reports whether it was present.
func (m *Membership) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.names[name]; !ok {
		return false
	}
	delete(m.names, name)
	return true
}

func (m *Membership) Contains(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.names[name]
	return ok
}

func (m *Membership) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.names)
}

// Names returns the members in sorted order.
func (m *Membership) Names() []string {
	m.mu.Lock()
	out := make([]string, 0, len(m.names))
	for n := range m.names {
		out = append(out, n)
	}
	m.mu.Unlock()
	sort.Strings(out)
	return out
}
