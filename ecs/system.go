package ecs

// System is implemented by user-defined structs whose fields declare their
// data access (Query[T], Res[T], ResMut[T], CommandsParam) and whose Execute
// performs the per-frame work.
//
// Grounded on plus3/ooftn/ecs/system.go's trivial interface; this repo keeps
// the same shape rather than a variadic function-parameter signature, in
// keeping with Go's lack of variadic generics: here the struct's fields ARE
// the accumulated parameter descriptor list, inspected once at registration.
type System interface {
	Execute(frame *UpdateFrame)
}

// CommandsParam is a zero-size marker a system struct declares to claim the
// "issues commands" access. The system still reaches the actual buffer
// through frame.Commands inside Execute; the marker field exists purely so
// the registration-time scan can see the claim, the same way a Query[T] or
// Res[T] field is scanned.
type CommandsParam struct{}
