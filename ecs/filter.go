package ecs

// Filter is a composable predicate narrowing a Query at the archetype level
// (type-set membership) and/or the row level (per-entity change detection).
//
// Grounded on TheBitDrifter/warehouse's composable Query (query.go)'s
// leaf/composite node shape, fused with
// original_source/crates/gravitron_ecs/src/systems/query/filter.rs's
// QueryFilter/QueryFilterParam split between filter_archetype and
// filter_entity.
type Filter interface {
	matchArchetype(a *Archetype) bool
	matchRow(a *Archetype, row int, last Tick) bool
}

func evaluate(f Filter, a *Archetype, row int, last Tick) bool {
	return f.matchArchetype(a) && f.matchRow(a, row, last)
}

type alwaysFilter struct{}

func (alwaysFilter) matchArchetype(*Archetype) bool            { return true }
func (alwaysFilter) matchRow(*Archetype, int, Tick) bool       { return true }

// Always matches every archetype and every row; the default filter when a
// Query declares none.
var Always Filter = alwaysFilter{}

type withFilter struct{ id ComponentID }

// With matches archetypes that carry component C, regardless of row state.
func With[C any](reg *ComponentRegistry) Filter {
	return withFilter{id: IDFor[C](reg)}
}

func (f withFilter) matchArchetype(a *Archetype) bool      { return a.HasComponent(f.id) }
func (f withFilter) matchRow(*Archetype, int, Tick) bool   { return true }

type withoutFilter struct{ id ComponentID }

// Without matches archetypes that do not carry component C.
func Without[C any](reg *ComponentRegistry) Filter {
	return withoutFilter{id: IDFor[C](reg)}
}

func (f withoutFilter) matchArchetype(a *Archetype) bool    { return !a.HasComponent(f.id) }
func (f withoutFilter) matchRow(*Archetype, int, Tick) bool { return true }

type addedFilter struct{ id ComponentID }

// Added matches rows whose C cell was inserted during the previous tick.
func Added[C any](reg *ComponentRegistry) Filter {
	return addedFilter{id: IDFor[C](reg)}
}

func (f addedFilter) matchArchetype(a *Archetype) bool { return a.HasComponent(f.id) }
func (f addedFilter) matchRow(a *Archetype, row int, last Tick) bool {
	return a.tickAt(row, f.id).added == last
}

type changedFilter struct{ id ComponentID }

// Changed matches rows whose C cell was mutably dereferenced during the
// previous tick.
func Changed[C any](reg *ComponentRegistry) Filter {
	return changedFilter{id: IDFor[C](reg)}
}

func (f changedFilter) matchArchetype(a *Archetype) bool { return a.HasComponent(f.id) }
func (f changedFilter) matchRow(a *Archetype, row int, last Tick) bool {
	changed := a.tickAt(row, f.id).changed
	return changed != 0 && changed == last
}

type removedFilter struct{ id ComponentID }

// Removed matches rows whose entity had C removed during the previous tick.
// Unlike With/Without/Added/Changed, it does not require the archetype to
// currently carry C — the entity has already moved to a different type-set.
func Removed[C any](reg *ComponentRegistry) Filter {
	return removedFilter{id: IDFor[C](reg)}
}

func (f removedFilter) matchArchetype(*Archetype) bool { return true }
func (f removedFilter) matchRow(a *Archetype, row int, last Tick) bool {
	return a.wasRemoved(row, f.id, last)
}

type andFilter struct{ filters []Filter }

// And combines filters as a conjunction, the same way fetch-shape tuples
// implicitly conjoin their field requirements.
func And(filters ...Filter) Filter {
	return andFilter{filters: filters}
}

func (f andFilter) matchArchetype(a *Archetype) bool {
	for _, sub := range f.filters {
		if !sub.matchArchetype(a) {
			return false
		}
	}
	return true
}

func (f andFilter) matchRow(a *Archetype, row int, last Tick) bool {
	for _, sub := range f.filters {
		if !sub.matchRow(a, row, last) {
			return false
		}
	}
	return true
}

type orFilter struct{ a, b Filter }

// Or matches whatever either side matches, at both the archetype and row
// level.
func Or(a, b Filter) Filter {
	return orFilter{a: a, b: b}
}

func (f orFilter) matchArchetype(a *Archetype) bool {
	return f.a.matchArchetype(a) || f.b.matchArchetype(a)
}

func (f orFilter) matchRow(a *Archetype, row int, last Tick) bool {
	return evaluate(f.a, a, row, last) || evaluate(f.b, a, row, last)
}

type notFilter struct{ f Filter }

// Not inverts f at the row level; since membership at the archetype level
// cannot generally be safely excluded (the underlying fetch may still need
// the archetype for other reasons), Not always matches at the archetype
// level and defers entirely to the row check.
func Not(f Filter) Filter {
	return notFilter{f: f}
}

func (n notFilter) matchArchetype(*Archetype) bool { return true }
func (n notFilter) matchRow(a *Archetype, row int, last Tick) bool {
	return !evaluate(n.f, a, row, last)
}
