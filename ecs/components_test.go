package ecs_test

// Common test component types shared across the package's tests.
type A struct {
	X int
}

type B struct {
	Y int
}

type C struct {
	Z int
}

type Name struct {
	Value string
}
