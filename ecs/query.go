package ecs

import (
	"reflect"
	"unsafe"
)

type fieldKind int

const (
	fieldEntity fieldKind = iota
	fieldRef
	fieldMut
)

type fetchField struct {
	kind        fieldKind
	componentID ComponentID
	index       int
}

// Query is a typed, cached iterator over Storage matching a fetch shape T
// and an optional Filter. T must be a struct whose fields are each one of
// Entity, Ref[C], or Mut[C]; an Entity field, if present, must be T's first
// field.
//
// Grounded on plus3/ooftn's Query[T]/View[T] (ecs/query.go, ecs/view.go) for
// the reflection-based fetch-shape plan and the Execute-once-per-frame
// caching discipline, generalised here to: (a) deterministic
// archetype-insertion-order iteration instead of plus3/ooftn's map-order
// iteration, (b) Ref[C]/Mut[C] wrapper fields instead of bare *C so reads
// and writes are distinguished for system-metadata inference, and (c) the
// strict "Entity must be first" rule from
// original_source/.../systems/metadata.rs's QueryMeta::use_id.
type Query[T any] struct {
	storage  *Storage
	registry *ComponentRegistry
	filter   Filter
	fields   []fetchField

	built      bool
	valid      bool
	executedAt Tick

	entities []EntityID
	results  []T
}

// NewQuery returns a Query for fetch shape T, narrowed by filter. Pass
// ecs.Always if no additional filtering is needed.
func NewQuery[T any](filter Filter) *Query[T] {
	if filter == nil {
		filter = Always
	}
	return &Query[T]{filter: filter}
}

// Init binds the query to storage and builds its fetch plan. Called once by
// the Scheduler when a system is registered.
func (q *Query[T]) Init(storage *Storage) {
	q.storage = storage
	q.registry = storage.registry
	if !q.built {
		q.buildPlan()
		q.built = true
	}
}

func (q *Query[T]) buildPlan() {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic("ecs: Query fetch shape must be a struct type")
	}

	entityType := reflect.TypeFor[Entity]()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		if sf.Type == entityType {
			if i != 0 {
				panic("ecs: Entity fetch field must be the query's first field")
			}
			q.fields = append(q.fields, fetchField{kind: fieldEntity, index: i})
			continue
		}

		zero := reflect.New(sf.Type).Elem().Interface()
		fd, ok := zero.(fetchDescriptor)
		if !ok {
			panic("ecs: unsupported fetch field type " + sf.Type.String())
		}

		id := q.registry.mustIDForType(fd.paramType())
		switch fd.paramKind() {
		case paramRef:
			q.fields = append(q.fields, fetchField{kind: fieldRef, componentID: id, index: i})
		case paramMut:
			q.fields = append(q.fields, fetchField{kind: fieldMut, componentID: id, index: i})
		}
	}
}

// queryParam is implemented by every *Query[T] so the Scheduler can drive
// per-frame Init/Execute/invalidate and extract read/write metadata without
// knowing T, mirroring plus3/ooftn/ecs/scheduler.go's reflection scan but
// through a typed interface instead of a "Query[" name-prefix string check.
type queryParam interface {
	queryInit(storage *Storage)
	queryExecute()
	queryInvalidate()
	queryMeta() (reads, writes []ComponentID)
}

func (q *Query[T]) queryInit(storage *Storage) { q.Init(storage) }
func (q *Query[T]) queryExecute()              { q.Execute() }
func (q *Query[T]) queryInvalidate()           { q.invalidate() }

func (q *Query[T]) queryMeta() (reads, writes []ComponentID) {
	for _, f := range q.fields {
		switch f.kind {
		case fieldRef:
			reads = append(reads, f.componentID)
		case fieldMut:
			writes = append(writes, f.componentID)
		}
	}
	return reads, writes
}

// requiredComponents returns the ComponentIDs the fetch shape reads or
// writes (excluding the Entity field), used for archetype selection in
// Execute and ByID.
func (q *Query[T]) requiredComponents() []ComponentID {
	ids := make([]ComponentID, 0, len(q.fields))
	for _, f := range q.fields {
		if f.kind == fieldEntity {
			continue
		}
		ids = append(ids, f.componentID)
	}
	return ids
}

// writeComponents returns the ComponentIDs the fetch shape writes.
func (q *Query[T]) writeComponents() []ComponentID {
	var ids []ComponentID
	for _, f := range q.fields {
		if f.kind == fieldMut {
			ids = append(ids, f.componentID)
		}
	}
	return ids
}

// Execute rebuilds the query's cached result set for the current frame. The
// Scheduler calls this once per frame before running systems. A repeated
// call in the same tick, with no invalidate in between, keeps the cached set.
func (q *Query[T]) Execute() {
	last := q.storage.lastTick()
	now := q.storage.currentTick()
	if q.valid && q.executedAt == now {
		return
	}
	required := makeMask(q.requiredComponents())

	q.entities = q.entities[:0]
	q.results = q.results[:0]

	for _, a := range q.storage.Archetypes() {
		if !a.mask.includesAll(required) {
			continue
		}
		if !q.filter.matchArchetype(a) {
			continue
		}
		for row := 0; row < a.Len(); row++ {
			if !q.filter.matchRow(a, row, last) {
				continue
			}
			q.entities = append(q.entities, a.entities[row])
			q.results = append(q.results, q.project(a, row, now))
		}
	}
	q.valid = true
	q.executedAt = now
}

func (q *Query[T]) project(a *Archetype, row int, now Tick) T {
	var out T
	v := reflect.ValueOf(&out).Elem()
	for _, f := range q.fields {
		field := v.Field(f.index)
		switch f.kind {
		case fieldEntity:
			setUnexported(field, Entity{ID: a.entities[row]})
		case fieldRef:
			ptr := a.columns[a.position[f.componentID]].At(row)
			r := reflect.New(field.Type()).Elem()
			setUnexported(r.FieldByName("ptr"), ptr)
			setUnexported(field, r.Interface())
		case fieldMut:
			ptr := a.columns[a.position[f.componentID]].At(row)
			archetype, id := a, f.componentID
			notify := func() { archetype.markChanged(row, id, now) }
			m := reflect.New(field.Type()).Elem()
			setUnexported(m.FieldByName("ptr"), ptr)
			setUnexported(m.FieldByName("notify"), notify)
			setUnexported(field, m.Interface())
		}
	}
	return out
}

// setUnexported writes value into field, bypassing the read-only flag
// reflect normally sets on unexported struct fields. Adapted from
// plus3/ooftn's ecs/iface.go interface-layout trick: this repo uses the
// simpler, equivalent UnsafeAddr+NewAt idiom instead of re-deriving an
// interface's data pointer.
func setUnexported(field reflect.Value, value any) {
	reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).
		Elem().
		Set(reflect.ValueOf(value))
}

// invalidate marks the cache stale; the Scheduler calls this after draining
// commands so the next frame's Execute rebuilds from the post-mutation
// world.
func (q *Query[T]) invalidate() {
	q.valid = false
}

// Len returns the number of rows matched by the most recent Execute.
func (q *Query[T]) Len() int {
	return len(q.results)
}

// Iter ranges over the cached results of the most recent Execute, yielding
// (EntityID, fetch value) pairs in archetype-insertion, then row order.
func (q *Query[T]) Iter(yield func(EntityID, T) bool) {
	for i, e := range q.entities {
		if !yield(e, q.results[i]) {
			return
		}
	}
}

// ByID returns the projected fetch value for e if it currently resides in a
// matching archetype and passes the filter, else ok=false. A by_id(e)
// lookup used by hierarchy-propagation patterns that already hold an
// EntityID and don't want to scan the whole match set.
func (q *Query[T]) ByID(e EntityID) (value T, ok bool) {
	a, row, found := q.storage.Lookup(e)
	if !found {
		return value, false
	}
	required := makeMask(q.requiredComponents())
	if !a.mask.includesAll(required) {
		return value, false
	}
	last := q.storage.lastTick()
	if !evaluate(q.filter, a, row, last) {
		return value, false
	}
	return q.project(a, row, q.storage.currentTick()), true
}
