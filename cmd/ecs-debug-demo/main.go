// Command ecs-debug-demo is a minimal windowed host for ecs/debugui,
// exercising ImguiSystem the same way plus3/ooftn's world-sim example does:
// registered on a live scheduler inside a running ebiten.Game, rather than
// from a test.
package main

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/weave/ecs"
	"github.com/plus3/weave/ecs/debugui"
	debuguiebiten "github.com/plus3/weave/ecs/debugui/ebiten"
)

const entityCount = 60

type Game struct {
	world        *ecs.World[int]
	imguiBackend *debuguiebiten.ImguiBackend
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.imguiBackend.BeginFrame()
	g.world.Once(1.0 / 60.0)
	g.world.NextTick()
	g.imguiBackend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.imguiBackend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("ECS Debug UI Demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow("ecs-debug-demo", screenWidth, screenHeight)

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Lifespan](registry)
	ecs.RegisterComponent[debugui.ImguiItem](registry)
	ecs.RegisterComponent[debugui.ArchetypeViewerComponent](registry)
	ecs.RegisterComponent[debugui.PerformanceStatsComponent](registry)

	world := ecs.NewWorld[int](registry)
	ecs.Set(world.Resources, *debugui.NewFrameTimer())

	world.AddSystem(&MovementSystem{})
	world.AddSystem(&LifespanSystem{Registry: registry})
	world.AddSystem(&debugui.ImguiSystem{})

	for i := 0; i < entityCount; i++ {
		world.CreateEntity(ecs.Spawn3(registry,
			Position{X: screenWidth / 2, Y: screenHeight / 2},
			randomVelocity(),
			Lifespan{TicksLeft: 180},
		))
	}

	world.CreateEntity(ecs.Spawn1(registry, debugui.NewArchetypeViewerComponent()))
	world.CreateEntity(ecs.Spawn1(registry, debugui.NewPerformanceStatsComponent(90)))
	world.CreateEntity(ecs.Spawn1(registry, debugui.ImguiItem{Render: renderControlsWindow}))

	game := &Game{
		world:        world,
		imguiBackend: &debuguiebiten.ImguiBackend{EbitenBackend: backend},
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
