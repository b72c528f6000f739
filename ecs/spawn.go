package ecs

// Spawn1..Spawn4 build the ComponentID-keyed map World.CreateEntity and
// Commands.CreateEntity expect, for a fixed set of small arities: Go has no
// variadic generics, so a maximum arity is fixed and each arity gets its
// own implementation.
func Spawn1[A any](reg *ComponentRegistry, a A) map[ComponentID]any {
	return map[ComponentID]any{IDFor[A](reg): a}
}

func Spawn2[A, B any](reg *ComponentRegistry, a A, b B) map[ComponentID]any {
	return map[ComponentID]any{
		IDFor[A](reg): a,
		IDFor[B](reg): b,
	}
}

func Spawn3[A, B, C any](reg *ComponentRegistry, a A, b B, c C) map[ComponentID]any {
	return map[ComponentID]any{
		IDFor[A](reg): a,
		IDFor[B](reg): b,
		IDFor[C](reg): c,
	}
}

func Spawn4[A, B, C, D any](reg *ComponentRegistry, a A, b B, c C, d D) map[ComponentID]any {
	return map[ComponentID]any{
		IDFor[A](reg): a,
		IDFor[B](reg): b,
		IDFor[C](reg): c,
		IDFor[D](reg): d,
	}
}
