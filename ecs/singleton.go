package ecs

import "reflect"

// Singleton is a convenience SystemParam over a single always-present
// resource of type T, used by consumers that want per-world global state
// without a separate Res[T]/ResMut[T] field (e.g. the debug overlay's frame
// timer). It claims write access to T, exactly like ResMut[T], so systems
// sharing a Singleton[T] never share a scheduling colour.
//
// Grounded on plus3/ooftn/ecs/singleton.go; that file references
// storage.getSingletonEntry/AddSingleton methods absent from the rest of
// the plus3/ooftn sources, so this version is backed by Resources instead,
// which this repo already has fully implemented.
type Singleton[T any] struct {
	resources *Resources
}

// singletonParam lets World.bindSystemParams recognise a Singleton[T] field
// the same way it recognises Query[T] and Res[T]/ResMut[T] fields, and lets
// buildSystemMeta claim it as a resource access so two systems racing on the
// same singleton are caught by the same conflict check as ResMut[T].
type singletonParam interface {
	singletonInit(r *Resources)
	singletonMeta() reflect.Type
}

func (s *Singleton[T]) singletonInit(r *Resources) {
	s.resources = r
	if !Has[T](r) {
		var zero T
		Add[T](r, zero)
	}
}

func (s *Singleton[T]) singletonMeta() reflect.Type { return reflect.TypeFor[T]() }

// Get returns a pointer to the singleton value.
func (s *Singleton[T]) Get() *T {
	p, _ := GetMut[T](s.resources)
	return p
}
