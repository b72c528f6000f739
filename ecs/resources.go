package ecs

import "reflect"

// Resources is a process-wide, type-keyed store of singleton values.
// Internally every resource is boxed behind a pointer so GetMut can hand out
// a stable address that later Get/GetMut calls observe mutations through.
//
// Grounded on edwinsyarief/lazyecs's Resources (resources.go), reimplemented
// here (lazyecs is a sibling example, not a dependency of this module) with
// Set/Add distinguished the way original_source/.../world.rs's
// set_resource/add_resource split them (add_resource is a no-op if present,
// set_resource always overwrites).
type Resources struct {
	values map[reflect.Type]any // reflect.Type -> *T
}

func newResources() *Resources {
	return &Resources{values: make(map[reflect.Type]any)}
}

// Set installs value, overwriting any existing resource of the same type.
func Set[T any](r *Resources, value T) {
	boxed := new(T)
	*boxed = value
	r.values[reflect.TypeFor[T]()] = boxed
}

// Add installs value only if no resource of type T is already present.
func Add[T any](r *Resources, value T) {
	t := reflect.TypeFor[T]()
	if _, ok := r.values[t]; ok {
		return
	}
	boxed := new(T)
	*boxed = value
	r.values[t] = boxed
}

// Get returns a copy of the resource of type T, or ok=false if absent.
func Get[T any](r *Resources) (value T, ok bool) {
	v, present := r.values[reflect.TypeFor[T]()]
	if !present {
		return value, false
	}
	return *(v.(*T)), true
}

// GetMut returns a pointer into the stored resource of type T so callers can
// mutate it in place, or ok=false if absent.
func GetMut[T any](r *Resources) (ptr *T, ok bool) {
	v, present := r.values[reflect.TypeFor[T]()]
	if !present {
		return nil, false
	}
	return v.(*T), true
}

// Has reports whether a resource of type T is present.
func Has[T any](r *Resources) bool {
	_, ok := r.values[reflect.TypeFor[T]()]
	return ok
}

// Remove deletes the resource of type T, if present.
func Remove[T any](r *Resources) {
	delete(r.values, reflect.TypeFor[T]())
}

// resourceParam is implemented by Res[T] and ResMut[T] so the Scheduler can
// bind them to the World's Resources and extract metadata at registration
// time, the same way queryParam does for Query[T].
//
// Grounded on original_source/crates/gravitron_ecs/src/systems/resources.rs's
// Res<T>/ResMut<T> SystemParam impls. That source's ResMut::check_metadata
// registers AccessType::Read (apparently a bug, since ResMut grants mutable
// access); this repo registers ResMut as a write claim instead, since the
// metadata scan exists precisely to tell read claims from write claims on
// the resource type.
type resourceParam interface {
	bind(r *Resources)
	resourceMeta() (t reflect.Type, write bool)
}

// Res is a read-only SystemParam over resource type T.
type Res[T any] struct {
	resources *Resources
}

func (r *Res[T]) bind(res *Resources) {
	r.resources = res
}

func (r *Res[T]) resourceMeta() (reflect.Type, bool) { return reflect.TypeFor[T](), false }

// Get looks up the resource live, returning nil if it is currently absent.
// A fresh lookup on every call, not a pointer cached at bind time, so a
// Set after this system registered (or a resource added only after
// registration) is observed rather than silently missed.
func (r *Res[T]) Get() *T {
	p, _ := GetMut[T](r.resources)
	return p
}

// ResMut is a mutable SystemParam over resource type T.
type ResMut[T any] struct {
	resources *Resources
}

func (r *ResMut[T]) bind(res *Resources) {
	r.resources = res
}

func (r *ResMut[T]) resourceMeta() (reflect.Type, bool) { return reflect.TypeFor[T](), true }

// Get looks up the resource live; see Res[T].Get.
func (r *ResMut[T]) Get() *T {
	p, _ := GetMut[T](r.resources)
	return p
}
