package ecs

import (
	"reflect"
	"unsafe"
)

type paramKind int

const (
	paramRef paramKind = iota
	paramMut
)

// fetchDescriptor is implemented by Ref[C] and Mut[C] so the query engine can
// recover, via reflection on a zero value, which component type and
// mutability a fetch-struct field declares without knowing C at the call
// site that builds the query plan.
type fetchDescriptor interface {
	paramKind() paramKind
	paramType() reflect.Type
}

// Ref is an immutable fetch-shape field: a Query whose struct declares a
// Ref[C] field claims a read of component C.
type Ref[C any] struct {
	ptr unsafe.Pointer
}

func (Ref[C]) paramKind() paramKind      { return paramRef }
func (Ref[C]) paramType() reflect.Type   { return reflect.TypeFor[C]() }

// Get returns the fetched component. Valid only for the lifetime of the
// Query iteration that produced it.
func (r Ref[C]) Get() *C { return (*C)(r.ptr) }

// Mut is a mutable fetch-shape field: a Query whose struct declares a Mut[C]
// field claims a write of component C. Calling Get marks the cell's changed
// tick to the current frame — grounded on
// original_source/crates/gravitron_ecs/src/systems/query/mod.rs's
// Mut::deref_mut, which stamps the changed tick on every observed mutable
// dereference rather than on assignment.
type Mut[C any] struct {
	ptr    unsafe.Pointer
	notify func()
}

func (Mut[C]) paramKind() paramKind    { return paramMut }
func (Mut[C]) paramType() reflect.Type { return reflect.TypeFor[C]() }

// Get returns a pointer to the fetched component and stamps its changed
// tick to the current frame.
func (m Mut[C]) Get() *C {
	if m.notify != nil {
		m.notify()
	}
	return (*C)(m.ptr)
}
