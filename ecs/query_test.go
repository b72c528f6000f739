package ecs_test

import (
	"testing"

	"github.com/plus3/weave/ecs"
	"github.com/stretchr/testify/assert"
)

// S1 - basic query sum.
func TestQuerySumOverRef(t *testing.T) {
	reg, clock, storage := newTestStorage()
	for i := 0; i < 10; i++ {
		storage.CreateEntity(ecs.Spawn1(reg, A{X: i}), clock.Current())
	}

	q := ecs.NewQuery[struct{ A ecs.Ref[A] }](nil)
	q.Init(storage)
	q.Execute()

	sum := 0
	for _, row := range q.Iter {
		sum += row.A.Get().X
	}
	assert.Equal(t, 45, sum)
}

// incSystem adds B.Y into A.X every frame, the system driving S2.
type incSystem struct {
	Bodies ecs.Query[struct {
		A ecs.Mut[A]
		B ecs.Ref[B]
	}]
}

func (s *incSystem) Execute(*ecs.UpdateFrame) {
	for _, row := range s.Bodies.Iter {
		a := row.A.Get()
		a.X += row.B.Get().Y
	}
}

// S2 - mutable update propagates across repeated frames.
func TestQueryMutableUpdatePropagates(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	for i := 0; i < 10; i++ {
		world.CreateEntity(ecs.Spawn2(reg, A{X: 0}, B{Y: 1}))
	}
	world.AddSystem(&incSystem{})

	for frame := 0; frame < 10; frame++ {
		world.Once(0)
		world.NextTick()
	}

	check := ecs.NewQuery[struct{ A ecs.Ref[A] }](nil)
	check.Init(world.Storage)
	check.Execute()
	assert.Equal(t, 10, check.Len())
	for _, row := range check.Iter {
		assert.Equal(t, 10, row.A.Get().X)
	}
}

// S3 - With/Without filters.
func TestQueryWithWithoutFilters(t *testing.T) {
	reg, clock, storage := newTestStorage()
	for i := 0; i < 100; i++ {
		storage.CreateEntity(ecs.Spawn2(reg, A{X: i}, B{Y: i}), clock.Current())
		storage.CreateEntity(ecs.Spawn1(reg, A{X: i}), clock.Current())
		storage.CreateEntity(ecs.Spawn1(reg, B{Y: i}), clock.Current())
	}

	withB := ecs.NewQuery[struct{ A ecs.Ref[A] }](ecs.With[B](reg))
	withB.Init(storage)
	withB.Execute()
	assert.Equal(t, 100, withB.Len())

	withoutB := ecs.NewQuery[struct{ A ecs.Ref[A] }](ecs.Without[B](reg))
	withoutB.Init(storage)
	withoutB.Execute()
	assert.Equal(t, 100, withoutB.Len())

	abWithoutA := ecs.NewQuery[struct {
		A ecs.Ref[A]
		B ecs.Ref[B]
	}](ecs.Without[A](reg))
	abWithoutA.Init(storage)
	abWithoutA.Execute()
	assert.Equal(t, 0, abWithoutA.Len())
}

// addBSystem queues adding B{Y:1} to every A-only entity it sees. Running it
// more than once is safe: Storage.AddComponent no-ops once B is present.
type addBSystem struct {
	Entities ecs.Query[struct {
		Entity ecs.Entity
		A      ecs.Ref[A]
	}]
	Commands ecs.CommandsParam
	bID      ecs.ComponentID
}

func (s *addBSystem) Execute(f *ecs.UpdateFrame) {
	for id := range s.Entities.Iter {
		f.Commands.AddComponent(id, s.bID, B{Y: 1})
	}
}

// S4 - Added<B> matches only entities whose B cell was inserted during the
// previous tick, and only for the tick right after the insert.
func TestQueryAddedFilter(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	for i := 0; i < 5; i++ {
		world.CreateEntity(ecs.Spawn1(reg, A{X: i}))
	}
	world.AddSystem(&addBSystem{bID: ecs.IDFor[B](reg)})

	addedB := ecs.NewQuery[struct {
		Entity ecs.Entity
		A      ecs.Ref[A]
	}](ecs.Added[B](reg))
	addedB.Init(world.Storage)

	// frame 1: the system queues AddComponent(B) for every entity.
	world.Once(0)
	world.NextTick()

	// frame 2: Added<B> should see exactly the 5 entities whose B cell was
	// stamped during frame 1.
	addedB.Execute()
	assert.Equal(t, 5, addedB.Len())

	world.Once(0)
	world.NextTick()
	addedB.Execute()
	assert.Equal(t, 0, addedB.Len(), "Added<B> must not match past the tick right after insertion")
}

// touchEvenSystem writes A.X on every even-indexed row it visits, the system
// driving S5's partial-write Changed<A> scenario.
type touchEvenSystem struct {
	Rows ecs.Query[struct {
		Entity ecs.Entity
		A      ecs.Mut[A]
	}]
	seen int
}

func (s *touchEvenSystem) Execute(*ecs.UpdateFrame) {
	i := 0
	for _, row := range s.Rows.Iter {
		if i%2 == 0 {
			row.A.Get().X++
		}
		i++
	}
	s.seen = i
}

// S5 - Changed<A> matches only rows written via Mut[A].Get during the
// previous tick.
func TestQueryChangedFilter(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	for i := 0; i < 100; i++ {
		world.CreateEntity(ecs.Spawn2(reg, A{X: i}, B{Y: i}))
	}
	world.AddSystem(&touchEvenSystem{})

	world.Once(0)
	world.NextTick()

	changed := ecs.NewQuery[struct{ A ecs.Ref[A] }](ecs.Changed[A](reg))
	changed.Init(world.Storage)
	changed.Execute()
	assert.Equal(t, 50, changed.Len())
}

func TestQueryByID(t *testing.T) {
	reg, clock, storage := newTestStorage()
	id := storage.CreateEntity(ecs.Spawn1(reg, A{X: 7}), clock.Current())

	q := ecs.NewQuery[struct{ A ecs.Ref[A] }](nil)
	q.Init(storage)
	q.Execute()

	row, ok := q.ByID(id)
	assert.True(t, ok)
	assert.Equal(t, 7, row.A.Get().X)

	_, ok = q.ByID(ecs.EntityID(999))
	assert.False(t, ok)
}

func TestEntityFieldMustBeFirst(t *testing.T) {
	reg, _, storage := newTestStorage()
	ecs.RegisterComponent[A](reg)
	assert.Panics(t, func() {
		q := ecs.NewQuery[struct {
			A      ecs.Ref[A]
			Entity ecs.Entity
		}](nil)
		q.Init(storage)
	})
}
