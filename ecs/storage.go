package ecs

import (
	"hash/fnv"
	"sort"

	"github.com/kamstrup/intmap"
)

// Storage is the archetype table: a mapping from component type-set to a
// table of entities sharing that set, plus an index for O(1) entity lookup
// and the archetype graph linking type-sets along add/remove-component edges.
//
// Grounded on plus3/ooftn/ecs/storage.go for the overall Go shape (registry
// ownership, GetArchetypeByTypes, AddComponent/RemoveComponent) fused with
// original_source/crates/gravitron_ecs/src/storage.rs for the parts
// plus3/ooftn's version does not have: a stable EntityID via indirection,
// cached archetype edges, and per-row removed-component ticks.
type Storage struct {
	registry       *ComponentRegistry
	clock          *Clock
	archetypes     map[ArchetypeID]*Archetype
	archetypeOrder []ArchetypeID
	index          *intmap.Map[EntityID, entityRecord]
	ids            *idAllocator
}

// NewStorage returns an empty Storage bound to registry, stamping new and
// changed cells against clock.
func NewStorage(registry *ComponentRegistry, clock *Clock) *Storage {
	return &Storage{
		registry:   registry,
		clock:      clock,
		archetypes: make(map[ArchetypeID]*Archetype),
		index:      intmap.New[EntityID, entityRecord](256),
		ids:        newIDAllocator(),
	}
}

func (s *Storage) currentTick() Tick { return s.clock.Current() }
func (s *Storage) lastTick() Tick    { return s.clock.Last() }

func sortedTypes(types []ComponentID) []ComponentID {
	out := append([]ComponentID(nil), types...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func hashTypes(types []ComponentID) ArchetypeID {
	h := fnv.New64a()
	for _, t := range types {
		var b [4]byte
		b[0] = byte(t)
		b[1] = byte(t >> 8)
		b[2] = byte(t >> 16)
		b[3] = byte(t >> 24)
		h.Write(b[:])
	}
	return ArchetypeID(h.Sum64())
}

// archetypeByTypes finds or creates the archetype for the given (already
// sorted, deduplicated) type-set.
func (s *Storage) archetypeByTypes(types []ComponentID) *Archetype {
	id := hashTypes(types)
	if a, ok := s.archetypes[id]; ok {
		return a
	}
	a := newArchetype(id, s.registry, types)
	s.archetypes[id] = a
	s.archetypeOrder = append(s.archetypeOrder, id)
	return a
}

// Archetypes returns all archetypes in insertion (first-seen) order, the
// deterministic iteration order required by the query engine.
func (s *Storage) Archetypes() []*Archetype {
	out := make([]*Archetype, len(s.archetypeOrder))
	for i, id := range s.archetypeOrder {
		out[i] = s.archetypes[id]
	}
	return out
}

// ReserveEntityID allocates a fresh EntityID without creating a row.
// Safe to call concurrently; the critical section is limited to the free
// list pop / counter bump.
func (s *Storage) ReserveEntityID() EntityID {
	return s.ids.reserve()
}

// CreateEntity builds a new row from comps (keyed by ComponentID), stamping
// every cell's added tick to now, and returns the freshly reserved id.
func (s *Storage) CreateEntity(comps map[ComponentID]any, now Tick) EntityID {
	id := s.ids.reserve()
	s.CreateWithID(id, comps, now)
	return id
}

// CreateWithID is CreateEntity using a pre-reserved id. It panics if id is
// already live.
func (s *Storage) CreateWithID(id EntityID, comps map[ComponentID]any, now Tick) {
	if _, ok := s.index.Get(id); ok {
		panic(&ErrUnknownEntity{ID: id})
	}
	types := make([]ComponentID, 0, len(comps))
	for t := range comps {
		types = append(types, t)
	}
	types = sortedTypes(types)
	a := s.archetypeByTypes(types)
	row := a.insert(id, comps, now, nil, nil)
	s.index.Put(id, entityRecord{archetype: a, row: row})
}

// RemoveEntity deletes e's row via swap-remove, patches the swapped
// entity's index entry, and recycles e's id.
func (s *Storage) RemoveEntity(e EntityID) {
	rec, ok := s.index.Get(e)
	if !ok {
		panic(&ErrUnknownEntity{ID: e})
	}
	moved, didMove := rec.archetype.swapRemove(rec.row)
	s.index.Del(e)
	if didMove {
		s.index.Put(moved, entityRecord{archetype: rec.archetype, row: rec.row})
	}
	s.ids.release(e)
}

// HasEntity reports whether e currently lives in storage.
func (s *Storage) HasEntity(e EntityID) bool {
	_, ok := s.index.Get(e)
	return ok
}

// GetComponent returns a copy of e's component id, or ok=false if e lacks it
// or does not exist.
func (s *Storage) GetComponent(e EntityID, id ComponentID) (any, bool) {
	rec, ok := s.index.Get(e)
	if !ok {
		return nil, false
	}
	if !rec.archetype.HasComponent(id) {
		return nil, false
	}
	return rec.archetype.componentAt(rec.row, id), true
}

// AddComponent moves e into the archetype for type∪{id}, no-op if e already
// carries id. The new cell's added tick is set to now.
func (s *Storage) AddComponent(e EntityID, id ComponentID, value any, now Tick) {
	rec, ok := s.index.Get(e)
	if !ok {
		panic(&ErrUnknownEntity{ID: e})
	}
	src := rec.archetype
	if src.HasComponent(id) {
		return
	}

	edge := src.edgeFor(id)
	dst := edge.add
	if dst == nil {
		types := append(append([]ComponentID(nil), src.types...), id)
		types = sortedTypes(types)
		dst = s.archetypeByTypes(types)
		edge.add = dst
		dst.edgeFor(id).remove = src
	}

	comps := make(map[ComponentID]any, len(dst.types))
	carried := make(map[ComponentID]cellTick, len(src.types))
	for _, t := range src.types {
		comps[t] = src.componentAt(rec.row, t)
		carried[t] = src.tickAt(rec.row, t)
	}
	comps[id] = value
	carriedRemoved := src.removed[rec.row]

	moved, didMove := src.swapRemove(rec.row)
	if didMove {
		s.index.Put(moved, entityRecord{archetype: src, row: rec.row})
	}

	newRow := dst.insert(e, comps, now, carried, carriedRemoved)
	s.index.Put(e, entityRecord{archetype: dst, row: newRow})
}

// RemoveComponent removes id from e, moving it into the archetype for
// type\{id}. It returns the removed value, or ok=false if e lacked it.
// The destination row's removed map records id→now.
func (s *Storage) RemoveComponent(e EntityID, id ComponentID, now Tick) (removedValue any, ok bool) {
	rec, ok := s.index.Get(e)
	if !ok {
		panic(&ErrUnknownEntity{ID: e})
	}
	src := rec.archetype
	if !src.HasComponent(id) {
		return nil, false
	}
	removedValue = src.componentAt(rec.row, id)

	edge := src.edgeFor(id)
	dst := edge.remove
	if dst == nil {
		types := make([]ComponentID, 0, len(src.types)-1)
		for _, t := range src.types {
			if t != id {
				types = append(types, t)
			}
		}
		dst = s.archetypeByTypes(types)
		edge.remove = dst
		dst.edgeFor(id).add = src
	}

	comps := make(map[ComponentID]any, len(dst.types))
	carried := make(map[ComponentID]cellTick, len(dst.types))
	for _, t := range dst.types {
		comps[t] = src.componentAt(rec.row, t)
		carried[t] = src.tickAt(rec.row, t)
	}
	carriedRemoved := src.removed[rec.row]

	moved, didMove := src.swapRemove(rec.row)
	if didMove {
		s.index.Put(moved, entityRecord{archetype: src, row: rec.row})
	}

	newRow := dst.insert(e, comps, now, carried, carriedRemoved)
	dst.markRemoved(newRow, id, now)
	s.index.Put(e, entityRecord{archetype: dst, row: newRow})
	return removedValue, true
}

// ArchetypeStats summarizes one archetype for diagnostic consumers.
type ArchetypeStats struct {
	ID         ArchetypeID
	TypeNames  []string
	EntityCount int
}

// Stats summarizes the whole storage for diagnostic consumers such as the
// debug overlay's performance panel.
type Stats struct {
	TotalEntityCount int
	ArchetypeCount   int
	Archetypes       []ArchetypeStats
}

// CollectStats walks every archetype once and reports entity/archetype
// counts. Grounded on plus3/ooftn/ecs/debugui/performance_stats.go's
// storage.CollectStats call site; this Storage has no notion of singletons
// (those live in Resources, on World), so the singleton-count section
// plus3/ooftn/ecs/debugui's panel showed is dropped here.
func (s *Storage) CollectStats() Stats {
	archetypes := s.Archetypes()
	stats := Stats{
		ArchetypeCount: len(archetypes),
		Archetypes:     make([]ArchetypeStats, len(archetypes)),
	}
	for i, a := range archetypes {
		stats.TotalEntityCount += a.Len()
		stats.Archetypes[i] = ArchetypeStats{
			ID:          a.ID(),
			TypeNames:   a.TypeNames(),
			EntityCount: a.Len(),
		}
	}
	return stats
}

// Lookup returns the archetype and row currently backing e.
func (s *Storage) Lookup(e EntityID) (*Archetype, int, bool) {
	rec, ok := s.index.Get(e)
	if !ok {
		return nil, 0, false
	}
	return rec.archetype, rec.row, true
}
