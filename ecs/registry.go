package ecs

import "reflect"

// ComponentRegistry assigns a stable ComponentID to each component type
// registered with a World and remembers how to build a fresh column for it.
//
// Grounded on plus3/ooftn's ComponentRegistry (ecs/generic_component_storage.go),
// which keeps the same factories-by-reflect.Type idiom; this version also
// hands out dense, reusable ids backing componentMask instead of using the
// reflect.Type pointer itself as the key everywhere.
type ComponentRegistry struct {
	ids      map[reflect.Type]ComponentID
	types    []reflect.Type
	newBlank []func() column
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids: make(map[reflect.Type]ComponentID),
	}
}

// RegisterComponent assigns T a ComponentID, or returns its existing id if
// T was already registered. Safe to call more than once for the same type.
func RegisterComponent[T any](r *ComponentRegistry) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id
	}
	if len(r.types) >= maxComponentTypes {
		panic("ecs: exceeded maximum number of distinct component types")
	}
	id := ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	r.newBlank = append(r.newBlank, func() column { return newTypedColumn[T]() })
	return id
}

// IDFor returns the ComponentID for T, registering it if necessary.
func IDFor[T any](r *ComponentRegistry) ComponentID {
	return RegisterComponent[T](r)
}

func (r *ComponentRegistry) idForType(t reflect.Type) (ComponentID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// mustIDForType looks up the ComponentID for t, panicking if t was never
// registered via RegisterComponent — every component used in a Query must
// be registered before the Query is built.
func (r *ComponentRegistry) mustIDForType(t reflect.Type) ComponentID {
	id, ok := r.ids[t]
	if !ok {
		panic("ecs: component type " + t.String() + " was never registered; call RegisterComponent before constructing a Query that references it")
	}
	return id
}

func (r *ComponentRegistry) typeFor(id ComponentID) reflect.Type {
	return r.types[id]
}

func (r *ComponentRegistry) newColumn(id ComponentID) column {
	return r.newBlank[id]()
}
