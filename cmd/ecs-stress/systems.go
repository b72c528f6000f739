package main

import (
	"math/rand"

	"github.com/plus3/weave/ecs"
)

// MovementSystem integrates Velocity into Position every tick.
type MovementSystem struct {
	Bodies ecs.Query[struct {
		Pos ecs.Mut[Position]
		Vel ecs.Ref[Velocity]
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for _, row := range s.Bodies.Iter {
		pos := row.Pos.Get()
		vel := row.Vel.Get()
		pos.X += vel.DX * frame.DeltaTime
		pos.Y += vel.DY * frame.DeltaTime
	}
}

// DecaySystem drains Health by Decay.Rate each tick and queues removal of
// entities whose Health reaches zero.
type DecaySystem struct {
	Decaying ecs.Query[struct {
		Entity ecs.Entity
		HP     ecs.Mut[Health]
		Rate   ecs.Ref[Decay]
	}]
	Commands ecs.CommandsParam
}

func (s *DecaySystem) Execute(frame *ecs.UpdateFrame) {
	for id, row := range s.Decaying.Iter {
		hp := row.HP.Get()
		hp.HP -= row.Rate.Get().Rate
		if hp.HP <= 0 {
			frame.Commands.RemoveEntity(id)
		}
	}
}

// SpawnerSystem spawns random entities until the number of Health-carrying
// entities is back at Target. Only Health-carrying entities are ever removed
// (by DecaySystem), so spawned entities without Health accumulate and the
// total population grows over the run.
type SpawnerSystem struct {
	Decaying ecs.Query[struct{ HP ecs.Ref[Health] }]
	Registry *ecs.ComponentRegistry
	Target   int
	Commands ecs.CommandsParam
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	deficit := s.Target - s.Decaying.Len()
	for i := 0; i < deficit; i++ {
		spawnRandomEntityViaCommands(frame.Commands, s.Registry)
	}
}

func spawnRandomEntityViaCommands(c *ecs.Commands, reg *ecs.ComponentRegistry) {
	c.CreateEntity(randomComponentSet(reg))
}

func randomComponentSet(reg *ecs.ComponentRegistry) map[ecs.ComponentID]any {
	comps := map[ecs.ComponentID]any{
		ecs.IDFor[Position](reg): Position{X: rand.Float64() * 100, Y: rand.Float64() * 100},
	}
	if rand.Intn(2) == 0 {
		comps[ecs.IDFor[Velocity](reg)] = Velocity{DX: rand.Float64()*2 - 1, DY: rand.Float64()*2 - 1}
	}
	if rand.Intn(3) != 0 {
		comps[ecs.IDFor[Health](reg)] = Health{HP: rand.Intn(50) + 10}
		comps[ecs.IDFor[Decay](reg)] = Decay{Rate: rand.Intn(3) + 1}
	}
	return comps
}
