package main

import "github.com/plus3/weave/ecs"

const (
	screenWidth  = 1280
	screenHeight = 720
)

// MovementSystem advances Position by Velocity and bounces off the window
// edges.
type MovementSystem struct {
	Bodies ecs.Query[struct {
		Pos ecs.Mut[Position]
		Vel ecs.Mut[Velocity]
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for _, row := range s.Bodies.Iter {
		pos := row.Pos.Get()
		vel := row.Vel.Get()
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
		if pos.X < 0 || pos.X > screenWidth {
			vel.DX = -vel.DX
		}
		if pos.Y < 0 || pos.Y > screenHeight {
			vel.DY = -vel.DY
		}
	}
}

// LifespanSystem ages every entity down and queues its removal once its
// Lifespan expires, then queues a freshly spawned replacement with the same
// component set, so the entity count stays steady while entity ids churn;
// the replacement lands in the same archetype as the entity it replaces.
type LifespanSystem struct {
	Bodies ecs.Query[struct {
		Entity ecs.Entity
		Span   ecs.Mut[Lifespan]
	}]
	Registry *ecs.ComponentRegistry
	Commands ecs.CommandsParam
}

func (s *LifespanSystem) Execute(frame *ecs.UpdateFrame) {
	for id, row := range s.Bodies.Iter {
		span := row.Span.Get()
		span.TicksLeft--
		if span.TicksLeft <= 0 {
			frame.Commands.RemoveEntity(id)
			frame.Commands.CreateEntity(ecs.Spawn3(s.Registry,
				Position{X: screenWidth / 2, Y: screenHeight / 2},
				randomVelocity(),
				Lifespan{TicksLeft: 180},
			))
		}
	}
}
