package ecs

import "sync"

// EntityID is an opaque handle, unique within a World over its lifetime.
// Unlike plus3/ooftn's EntityId (which packs archetype id and row into the
// integer and so changes whenever the entity moves archetypes), EntityID here
// is a stable counter: identity survives every AddComponent/RemoveComponent
// move. Grounded on original_source/crates/gravitron_ecs/src/storage.rs's
// entity_index indirection.
type EntityID uint64

// Entity is the fetch-struct marker type a Query's fetch struct may declare
// as its (mandatory-first) field to receive the row's EntityID.
type Entity struct {
	ID EntityID
}

// entityRecord is where an EntityID currently lives.
type entityRecord struct {
	archetype *Archetype
	row       int
}

// idAllocator hands out EntityIDs, recycling freed ones, with a critical
// section scoped to exactly the counter bump/pop — grounded on
// original_source/.../storage.rs's reserve_lock, which guards nothing more
// than the free-list pop or counter increment.
type idAllocator struct {
	mu      sync.Mutex
	nextID  EntityID
	freeIDs []EntityID
}

func newIDAllocator() *idAllocator {
	return &idAllocator{nextID: 1}
}

// reserve allocates a fresh EntityID without assigning it a row yet.
func (a *idAllocator) reserve() EntityID {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.freeIDs); n > 0 {
		id := a.freeIDs[n-1]
		a.freeIDs = a.freeIDs[:n-1]
		return id
	}
	id := a.nextID
	a.nextID++
	return id
}

func (a *idAllocator) release(id EntityID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.freeIDs = append(a.freeIDs, id)
}
