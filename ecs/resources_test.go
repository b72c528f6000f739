package ecs_test

import (
	"testing"

	"github.com/plus3/weave/ecs"
	"github.com/stretchr/testify/assert"
)

func TestResourcesSetAddGetHasRemove(t *testing.T) {
	r := newTestResources()

	assert.False(t, ecs.Has[int](r))
	_, ok := ecs.Get[int](r)
	assert.False(t, ok)

	ecs.Set(r, 1)
	assert.True(t, ecs.Has[int](r))
	v, ok := ecs.Get[int](r)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// Add is a no-op once a resource of the type is present.
	ecs.Add(r, 99)
	v, _ = ecs.Get[int](r)
	assert.Equal(t, 1, v)

	// Set always overwrites.
	ecs.Set(r, 2)
	v, _ = ecs.Get[int](r)
	assert.Equal(t, 2, v)

	// GetMut hands out a stable address later Get observes through.
	p, ok := ecs.GetMut[int](r)
	assert.True(t, ok)
	*p = 3
	v, _ = ecs.Get[int](r)
	assert.Equal(t, 3, v)

	ecs.Remove[int](r)
	assert.False(t, ecs.Has[int](r))
}

func TestResourcesAddOnAbsentType(t *testing.T) {
	r := newTestResources()
	ecs.Add(r, 7)
	v, ok := ecs.Get[int](r)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

// counterBumpSystem and counterReadSystem exercise Res[T]/ResMut[T] binding and
// read/write metadata through a real World registration.
type counterBumpSystem struct {
	Counter ecs.ResMut[int]
}

func (s *counterBumpSystem) Execute(*ecs.UpdateFrame) {
	p := s.Counter.Get()
	*p++
}

type counterReadSystem struct {
	Counter ecs.Res[int]
	seen    int
}

func (s *counterReadSystem) Execute(*ecs.UpdateFrame) {
	s.seen = *s.Counter.Get()
}

func TestResAndResMutBindToWorldResources(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	ecs.Set(world.Resources, 0)

	bump := &counterBumpSystem{}
	world.AddSystemAtStage(bump, 0)
	read := &counterReadSystem{}
	world.AddSystemAtStage(read, 1)

	world.Once(0)
	world.NextTick()

	assert.Equal(t, 1, read.seen)
}

// resAfterRegisterSystem registers on int before any Set/Add call, and
// again after a later Set: both must observe the live value, not whatever
// (or nothing) was installed at registration time.
type resAfterRegisterSystem struct {
	Counter ecs.Res[int]
	seen    []int
}

func (s *resAfterRegisterSystem) Execute(*ecs.UpdateFrame) {
	p := s.Counter.Get()
	if p == nil {
		s.seen = append(s.seen, -1)
		return
	}
	s.seen = append(s.seen, *p)
}

func TestResGetIsLiveNotCachedAtBindTime(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)

	read := &resAfterRegisterSystem{}
	world.AddSystemAtStage(read, 0)

	// No resource installed yet: a pointer cached at bind time would be
	// nil forever; a live lookup sees it go from absent to present.
	world.Once(0)
	world.NextTick()
	assert.Equal(t, []int{-1}, read.seen)

	ecs.Set(world.Resources, 5)
	world.Once(0)
	world.NextTick()
	assert.Equal(t, []int{-1, 5}, read.seen)

	// Set always reboxes; a pointer cached before this call would now be
	// stale.
	ecs.Set(world.Resources, 6)
	world.Once(0)
	world.NextTick()
	assert.Equal(t, []int{-1, 5, 6}, read.seen)
}

// panicking registration: a system declaring both Res[int] and ResMut[int]
// cannot safely run and must be rejected before any frame executes.
type conflictingResourceSystem struct {
	Read  ecs.Res[int]
	Write ecs.ResMut[int]
}

func (s *conflictingResourceSystem) Execute(*ecs.UpdateFrame) {}

func TestConflictingResourceAccessPanicsAtRegistration(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	assert.Panics(t, func() {
		world.AddSystem(&conflictingResourceSystem{})
	})
}

// singletonBumpSystem increments a FrameCounter singleton once per frame.
type singletonBumpSystem struct {
	Frame ecs.Singleton[FrameCounter]
}

type FrameCounter struct {
	N int
}

func (s *singletonBumpSystem) Execute(*ecs.UpdateFrame) {
	s.Frame.Get().N++
}

func TestSingletonLazyInitAndGet(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	sys := &singletonBumpSystem{}
	world.AddSystem(sys)

	assert.True(t, ecs.Has[FrameCounter](world.Resources), "Singleton[T] must lazily install T on registration")

	world.Once(0)
	world.NextTick()
	world.Once(0)
	world.NextTick()

	v, ok := ecs.Get[FrameCounter](world.Resources)
	assert.True(t, ok)
	assert.Equal(t, 2, v.N)
}

// two systems racing on the same singleton must be caught by the same
// conflict check that rejects two ResMut[T] claims, per invariant 5.
type singletonUserA struct {
	Frame ecs.Singleton[FrameCounter]
}

func (s *singletonUserA) Execute(*ecs.UpdateFrame) { s.Frame.Get().N++ }

type singletonUserB struct {
	Frame ecs.Singleton[FrameCounter]
}

func (s *singletonUserB) Execute(*ecs.UpdateFrame) { s.Frame.Get().N++ }

func TestTwoSystemsOnSameSingletonDoNotShareAColour(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	world.AddSystemAtStage(&singletonUserA{}, 0)
	world.AddSystemAtStage(&singletonUserB{}, 0)

	// Registration itself must not panic: distinct systems may both use the
	// same singleton, they simply cannot be colour-mates. Running a full
	// frame exercises the scheduler's colouring decision end to end; if it
	// placed both in the same colour the errgroup-dispatched writes would
	// race, which the race detector (not exercised here) would catch, so
	// instead assert the deterministic outcome: exactly two increments.
	world.Once(0)
	world.NextTick()

	v, ok := ecs.Get[FrameCounter](world.Resources)
	assert.True(t, ok)
	assert.Equal(t, 2, v.N)
}

func newTestResources() *ecs.Resources {
	reg := ecs.NewComponentRegistry()
	world := ecs.NewWorld[int](reg)
	return world.Resources
}
