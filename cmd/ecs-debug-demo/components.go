package main

import "math/rand/v2"

// Position is the demo entity's location in screen space.
type Position struct {
	X, Y float32
}

// Velocity carries Position forward every tick and bounces off the window
// edges.
type Velocity struct {
	DX, DY float32
}

// Lifespan counts down to zero, at which point LifespanSystem removes the
// entity — enough churn that the Archetype Viewer panel has something to
// show moving.
type Lifespan struct {
	TicksLeft int
}

func randomVelocity() Velocity {
	return Velocity{
		DX: (rand.Float32()*2 - 1) * 120,
		DY: (rand.Float32()*2 - 1) * 120,
	}
}
