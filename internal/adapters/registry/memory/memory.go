// Package memory implements the in-memory counter registry.
package memory

import (
	"maps"

	"github.com/joe-el-khoury/fbzmq/internal/ports"
)

// Registry keeps counters in a plain map. It is deliberately unsynchronized:
// the monitor server loop is its single owner, so every access happens on one
// goroutine.
type Registry struct {
	counters map[string]int64
}

var _ ports.CounterRegistry = (*Registry)(nil)

// New returns an empty registry.
func New() *Registry {
	return &Registry{counters: make(map[string]int64)}
}

// Set overwrites or inserts each named counter and returns the affected names.
func (r *Registry) Set(entries map[string]int64) []string {
	affected := make([]string, 0, len(entries))
	for name, value := range entries {
		r.counters[name] = value
		affected = append(affected, name)
	}
	return affected
}

// Bump increments each named counter by delta, creating absent counters at
// delta. Duplicates in names are applied once per occurrence.
func (r *Registry) Bump(names []string, delta int64) map[string]int64 {
	touched := make(map[string]int64, len(names))
	for _, name := range names {
		r.counters[name] += delta
		touched[name] = r.counters[name]
	}
	return touched
}

// Get returns the subset of requested counters that exist.
func (r *Registry) Get(names []string) map[string]int64 {
	out := make(map[string]int64, len(names))
	for _, name := range names {
		if v, ok := r.counters[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Names returns every registered counter name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.counters))
	for name := range r.counters {
		out = append(out, name)
	}
	return out
}

// DumpAll copies the full registry.
func (r *Registry) DumpAll() map[string]int64 {
	out := make(map[string]int64, len(r.counters))
	maps.Copy(out, r.counters)
	return out
}
