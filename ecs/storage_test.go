package ecs_test

import (
	"testing"

	"github.com/plus3/weave/ecs"
	"github.com/stretchr/testify/assert"
)

func newTestStorage() (*ecs.ComponentRegistry, *ecs.Clock, *ecs.Storage) {
	reg := ecs.NewComponentRegistry()
	clock := ecs.NewClock()
	return reg, clock, ecs.NewStorage(reg, clock)
}

func TestCreateEntityAndGetComponent(t *testing.T) {
	reg, clock, storage := newTestStorage()
	id := storage.CreateEntity(ecs.Spawn2(reg, A{X: 1}, B{Y: 2}), clock.Current())

	a, ok := ecs.GetComponent[A](storage, reg, id)
	assert.True(t, ok)
	assert.Equal(t, A{X: 1}, a)

	b, ok := ecs.GetComponent[B](storage, reg, id)
	assert.True(t, ok)
	assert.Equal(t, B{Y: 2}, b)

	_, ok = ecs.GetComponent[C](storage, reg, id)
	assert.False(t, ok, "entity should not carry an unattached component type")
}

// invariant 4: AddComponent stamps the new cell's added tick to current_tick
// and removes the entity from its previous archetype.
func TestAddComponentStampsAddedTick(t *testing.T) {
	reg, clock, storage := newTestStorage()
	id := storage.CreateEntity(ecs.Spawn1(reg, A{X: 1}), clock.Current())

	srcArchetype, _, _ := storage.Lookup(id)
	srcCountBefore := srcArchetype.Len()

	clock.Advance()
	storage.AddComponent(id, ecs.IDFor[B](reg), B{Y: 5}, clock.Current())

	dstArchetype, _, ok := storage.Lookup(id)
	assert.True(t, ok)
	assert.NotEqual(t, srcArchetype.ID(), dstArchetype.ID())
	assert.Equal(t, srcCountBefore-1, srcArchetype.Len())

	b, ok := ecs.GetComponent[B](storage, reg, id)
	assert.True(t, ok)
	assert.Equal(t, B{Y: 5}, b)

	// The B cell's added tick is the tick it was added at, so Added<B> sees
	// it on the following tick.
	clock.Advance()
	addedB := ecs.NewQuery[struct{ B ecs.Ref[B] }](ecs.Added[B](reg))
	addedB.Init(storage)
	addedB.Execute()
	assert.Equal(t, 1, addedB.Len())
}

// Round-trip: add(C) then remove(C) leaves the type-set unchanged and no C
// cell present.
func TestAddThenRemoveRoundTrip(t *testing.T) {
	reg, clock, storage := newTestStorage()
	id := storage.CreateEntity(ecs.Spawn1(reg, A{X: 1}), clock.Current())
	startArchetype, _, _ := storage.Lookup(id)

	storage.AddComponent(id, ecs.IDFor[B](reg), B{Y: 1}, clock.Current())
	_, ok := storage.RemoveComponent(id, ecs.IDFor[B](reg), clock.Current())
	assert.True(t, ok)

	endArchetype, _, _ := storage.Lookup(id)
	assert.Equal(t, startArchetype.ID(), endArchetype.ID())

	_, ok = ecs.GetComponent[B](storage, reg, id)
	assert.False(t, ok)
}

// Round-trip: create then remove_entity restores the free-list invariant.
func TestCreateThenRemoveEntityRecyclesID(t *testing.T) {
	reg, clock, storage := newTestStorage()
	id := storage.CreateEntity(ecs.Spawn1(reg, A{X: 1}), clock.Current())
	storage.RemoveEntity(id)
	assert.False(t, storage.HasEntity(id))

	reused := storage.ReserveEntityID()
	assert.Equal(t, id, reused)
}

// invariant 3: entity_index(e) maps into an archetype where
// entity_ids[row] = e, preserved across a swap-remove caused by removing a
// different entity from the same archetype.
func TestSwapRemovePreservesIndex(t *testing.T) {
	reg, clock, storage := newTestStorage()
	e1 := storage.CreateEntity(ecs.Spawn1(reg, A{X: 1}), clock.Current())
	e2 := storage.CreateEntity(ecs.Spawn1(reg, A{X: 2}), clock.Current())
	e3 := storage.CreateEntity(ecs.Spawn1(reg, A{X: 3}), clock.Current())

	storage.RemoveEntity(e1)

	for _, e := range []ecs.EntityID{e2, e3} {
		archetype, row, ok := storage.Lookup(e)
		assert.True(t, ok)
		a, ok := ecs.GetComponent[A](storage, reg, e)
		assert.True(t, ok)
		assert.True(t, archetype.HasComponent(ecs.IDFor[A](reg)))
		_ = row
		_ = a
	}
}

func TestUnknownEntityPanics(t *testing.T) {
	_, clock, storage := newTestStorage()
	assert.Panics(t, func() {
		storage.RemoveEntity(ecs.EntityID(999))
	})
	assert.Panics(t, func() {
		storage.AddComponent(ecs.EntityID(999), 0, A{}, clock.Current())
	})
}
