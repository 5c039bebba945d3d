package argen

import (
	"fmt"
	"slices"
)

// Availability classifies an operation identifier.
type Availability uint8

const (
	// Unknown means the identifier is not in the registry.
	Unknown Availability = iota

	// Unimplemented means the identifier is listed but has no generator yet.
	Unimplemented

	// Available means Lookup returns a usable descriptor.
	Available
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Entry is one row of a registry table.
type Entry struct {
	ID         string
	Descriptor Descriptor

	// Pending marks an operation that is known but has no generator.
	Pending bool
}

// Implemented returns an entry with a working descriptor.
func Implemented(id string, d Descriptor) Entry {
	return Entry{ID: id, Descriptor: d}
}

// Pending returns an entry for an operation that still needs a generator.
// Lookup reports it as unavailable.
func Pending(id string) Entry {
	return Entry{ID: id, Pending: true}
}

// Registry maps operation identifiers to descriptors.
//
// A Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a registry from entries.
// Panics on an empty or duplicate identifier.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]Entry, len(entries))}

	for _, e := range entries {
		if e.ID == "" {
			panic("argen: empty operation id")
		}

		if _, dup := r.entries[e.ID]; dup {
			panic(fmt.Sprintf("argen: operation %q registered twice", e.ID))
		}

		r.entries[e.ID] = e
	}

	return r
}

// Lookup returns the descriptor for id. It reports false for identifiers
// that are unknown or pending; callers should skip those operations.
// Identifiers are matched exactly.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	e, ok := r.entries[id]
	if !ok || e.Pending {
		return Descriptor{}, false
	}

	return e.Descriptor, true
}

// Status reports how id is registered.
func (r *Registry) Status(id string) Availability {
	e, ok := r.entries[id]

	switch {
	case !ok:
		return Unknown
	case e.Pending:
		return Unimplemented
	default:
		return Available
	}
}

// Names returns the sorted identifiers of available operations.
func (r *Registry) Names() []string {
	return r.collect(false)
}

// Unimplemented returns the sorted identifiers of pending operations.
func (r *Registry) Unimplemented() []string {
	return r.collect(true)
}

func (r *Registry) collect(pending bool) []string {
	out := make([]string, 0, len(r.entries))

	for id, e := range r.entries {
		if e.Pending == pending {
			out = append(out, id)
		}
	}

	slices.Sort(out)

	return out
}

var defaultRegistry = NewRegistry(builtins()...)

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// Lookup looks id up in the built-in registry.
func Lookup(id string) (Descriptor, bool) {
	return defaultRegistry.Lookup(id)
}

func builtins() []Entry {
	var entries []Entry

	entries = append(entries, getEntries()...)
	entries = append(entries, hintEntries()...)
	entries = append(entries, isEntries()...)

	return entries
}
