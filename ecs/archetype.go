package ecs

// ArchetypeID identifies one distinct component type-set within a World.
type ArchetypeID uint64

// cellTick records the frame a cell was added and the frame it was last
// written through a Mut[C] dereference, mirroring
// original_source/.../commands.rs's ComponentBox{added, changed}, kept
// alongside the column instead of inside it since columns here hold plain
// values, not boxed components.
type cellTick struct {
	added   Tick
	changed Tick
}

// archetypeEdge caches the destination archetype reached by adding or
// removing one component type from the archetype that owns the edge.
//
// Grounded on original_source/crates/gravitron_ecs/src/storage.rs's
// ArchetypeEdge{add, remove}.
type archetypeEdge struct {
	add    *Archetype
	remove *Archetype
}

// Archetype is a columnar table: one row per entity sharing an identical
// component type-set, one column per component type in that set.
//
// Grounded on plus3/ooftn/ecs/archetype.go for the overall shape, and on
// original_source/.../storage.rs for the edge-caching and per-row removed
// map that plus3/ooftn's version does not have.
type Archetype struct {
	id       ArchetypeID
	registry *ComponentRegistry
	types    []ComponentID
	position map[ComponentID]int
	mask     componentMask
	columns  []column
	ticks    [][]cellTick
	entities []EntityID
	removed  []map[ComponentID]Tick
	edges    map[ComponentID]*archetypeEdge
}

func newArchetype(id ArchetypeID, registry *ComponentRegistry, types []ComponentID) *Archetype {
	a := &Archetype{
		id:       id,
		registry: registry,
		types:    types,
		position: make(map[ComponentID]int, len(types)),
		mask:     makeMask(types),
		columns:  make([]column, len(types)),
		ticks:    make([][]cellTick, len(types)),
		edges:    make(map[ComponentID]*archetypeEdge),
	}
	for i, t := range types {
		a.position[t] = i
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

// Len returns the number of entities (rows) currently in the archetype.
func (a *Archetype) Len() int { return len(a.entities) }

// ID returns the archetype's identity within its owning Storage.
func (a *Archetype) ID() ArchetypeID { return a.id }

// Types returns the archetype's component type-set.
func (a *Archetype) Types() []ComponentID {
	out := make([]ComponentID, len(a.types))
	copy(out, a.types)
	return out
}

// TypeNames returns the archetype's component type-set as reflect.Type
// string names, for diagnostic consumers such as the debug overlay.
func (a *Archetype) TypeNames() []string {
	out := make([]string, len(a.types))
	for i, t := range a.types {
		out[i] = a.registry.typeFor(t).String()
	}
	return out
}

// HasComponent reports whether the archetype's type-set includes id.
func (a *Archetype) HasComponent(id ComponentID) bool {
	return a.mask.has(id)
}

func (a *Archetype) edgeFor(id ComponentID) *archetypeEdge {
	e, ok := a.edges[id]
	if !ok {
		e = &archetypeEdge{}
		a.edges[id] = e
	}
	return e
}

// insert appends a new row built from comps (keyed by ComponentID, must
// exactly match the archetype's type-set) and returns its row index.
// Cells named in carried (typically components moved over from another
// archetype during AddComponent/RemoveComponent) keep their prior ticks;
// every other cell is stamped added=now, with changed left at 0 until its
// first Mut[C] dereference. carriedRemoved is the
// source row's removed map (if any), carried forward so a Removed<C>
// marker survives a structural move instead of vanishing at it; the
// caller owns carriedRemoved and insert never aliases it.
func (a *Archetype) insert(id EntityID, comps map[ComponentID]any, now Tick, carried map[ComponentID]cellTick, carriedRemoved map[ComponentID]Tick) int {
	row := len(a.entities)
	for i, t := range a.types {
		a.columns[i].Append(comps[t])
		if ct, ok := carried[t]; ok {
			a.ticks[i] = append(a.ticks[i], ct)
		} else {
			a.ticks[i] = append(a.ticks[i], cellTick{added: now})
		}
	}
	a.entities = append(a.entities, id)
	var removed map[ComponentID]Tick
	if len(carriedRemoved) > 0 {
		removed = make(map[ComponentID]Tick, len(carriedRemoved))
		for k, v := range carriedRemoved {
			removed[k] = v
		}
	}
	a.removed = append(a.removed, removed)
	return row
}

// swapRemove deletes row, swapping the last row into its place.
// It returns the EntityID that now occupies row, and ok=false if row was
// the last row (nothing moved).
func (a *Archetype) swapRemove(row int) (moved EntityID, ok bool) {
	last := len(a.entities) - 1
	for i := range a.columns {
		a.columns[i].SwapRemove(row)
		a.ticks[i][row] = a.ticks[i][last]
		a.ticks[i] = a.ticks[i][:last]
	}
	if row != last {
		a.entities[row] = a.entities[last]
		a.removed[row] = a.removed[last]
		moved, ok = a.entities[row], true
	}
	a.entities = a.entities[:last]
	a.removed = a.removed[:last]
	return moved, ok
}

func (a *Archetype) componentAt(row int, id ComponentID) any {
	pos := a.position[id]
	return a.columns[pos].Get(row)
}

func (a *Archetype) tickAt(row int, id ComponentID) cellTick {
	pos := a.position[id]
	return a.ticks[pos][row]
}

func (a *Archetype) markChanged(row int, id ComponentID, now Tick) {
	pos := a.position[id]
	a.ticks[pos][row].changed = now
}

func (a *Archetype) markRemoved(row int, id ComponentID, now Tick) {
	if a.removed[row] == nil {
		a.removed[row] = make(map[ComponentID]Tick, 1)
	}
	a.removed[row][id] = now
}

func (a *Archetype) wasRemoved(row int, id ComponentID, at Tick) bool {
	if a.removed[row] == nil {
		return false
	}
	t, ok := a.removed[row][id]
	return ok && t == at
}
