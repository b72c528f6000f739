package ecs

import (
	"fmt"
	"reflect"
)

type accessType int

const (
	accessRead accessType = iota
	accessWrite
)

// systemMeta is the statically inferred access footprint of one registered
// system: which components and resources it reads/writes, and whether it
// issues commands.
//
// Grounded on original_source/crates/gravitron_ecs/src/systems/metadata.rs's
// SystemMeta/QueryMeta, translated from Rust's per-parameter accumulation
// onto a reflect scan of the system struct's fields (Query[T], Res[T],
// ResMut[T], CommandsParam): the struct itself is the builder that
// accumulates parameter descriptors, resolved once at registration time.
type systemMeta struct {
	name           string
	components     map[ComponentID]accessType
	resources      map[reflect.Type]accessType
	issuesCommands bool
}

func buildSystemMeta(name string, system System) *systemMeta {
	meta := &systemMeta{
		name:       name,
		components: make(map[ComponentID]accessType),
		resources:  make(map[reflect.Type]accessType),
	}

	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return meta
	}

	commandsParamType := reflect.TypeFor[CommandsParam]()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)

		if !field.CanAddr() {
			continue
		}

		if fieldType.Type == commandsParamType {
			if meta.issuesCommands {
				panic(&AccessConflictError{System: name, Reason: "declares Commands access more than once"})
			}
			meta.issuesCommands = true
			continue
		}

		if qp, ok := field.Addr().Interface().(queryParam); ok {
			reads, writes := qp.queryMeta()
			for _, id := range reads {
				meta.claimComponent(id, accessRead)
			}
			for _, id := range writes {
				meta.claimComponent(id, accessWrite)
			}
			continue
		}

		if rp, ok := field.Addr().Interface().(resourceParam); ok {
			t, write := rp.resourceMeta()
			access := accessRead
			if write {
				access = accessWrite
			}
			meta.claimResource(t, access)
			continue
		}

		if sp, ok := field.Addr().Interface().(singletonParam); ok {
			meta.claimResource(sp.singletonMeta(), accessWrite)
			continue
		}
	}

	return meta
}

func (m *systemMeta) claimComponent(id ComponentID, access accessType) {
	existing, ok := m.components[id]
	if ok {
		if existing == accessWrite || access == accessWrite {
			panic(&AccessConflictError{
				System: m.name,
				Reason: fmt.Sprintf("duplicate access to component id %d within one system's queries", id),
			})
		}
		// read + read: allowed.
		return
	}
	m.components[id] = access
}

func (m *systemMeta) claimResource(t reflect.Type, access accessType) {
	if _, ok := m.resources[t]; ok {
		panic(&AccessConflictError{
			System: m.name,
			Reason: fmt.Sprintf("duplicate access to resource %s", t),
		})
	}
	m.resources[t] = access
}

// overlaps reports whether a and b cannot safely run in the same colour:
// a shared component or resource where at least one side writes, or both
// issuing commands.
func overlaps(a, b *systemMeta) (bool, string) {
	for id, accA := range a.components {
		accB, ok := b.components[id]
		if !ok {
			continue
		}
		if accA == accessWrite || accB == accessWrite {
			return true, fmt.Sprintf("component id %d", id)
		}
	}
	for t, accA := range a.resources {
		accB, ok := b.resources[t]
		if !ok {
			continue
		}
		if accA == accessWrite || accB == accessWrite {
			return true, fmt.Sprintf("resource %s", t)
		}
	}
	if a.issuesCommands && b.issuesCommands {
		return true, "both issue commands"
	}
	return false, ""
}
