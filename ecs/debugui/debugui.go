// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/weave/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
//
// Trimmed relative to plus3/ooftn/ecs/debugui: the entity browser, component
// inspector and query debugger panels depended on archetype-encoded entity
// ids and a reflection cache keyed off that encoding, neither of which
// survives this repo's stable-id Storage. Archetype Viewer and Performance
// Stats have no such dependency and are kept, adapted to the new API.
type ImguiSystem struct {
	Items            ecs.Query[struct{ Item ecs.Ref[ImguiItem] }]
	InputState       ecs.Singleton[ImguiInputState]
	ArchetypeViewers ecs.Query[struct{ Viewer ecs.Mut[ArchetypeViewerComponent] }]
	PerformanceStats ecs.Query[struct{ Stats ecs.Mut[PerformanceStatsComponent] }]
	FrameTimer       ecs.Singleton[FrameTimer]
	Commands         ecs.CommandsParam
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, row := range i.ArchetypeViewers.Iter {
		viewer := row.Viewer.Get()
		frame.Commands.Defer(func() {
			viewer.Render(frame.Storage)
		})
	}

	deltaTime := float32(0.016)
	timer := i.FrameTimer.Get()
	if timer != nil {
		deltaTime = timer.GetDeltaTime()
	}

	for _, row := range i.PerformanceStats.Iter {
		stats := row.Stats.Get()
		frame.Commands.Defer(func() {
			stats.Render(frame.Storage, deltaTime)
		})
	}

	for _, row := range i.Items.Iter {
		item := row.Item.Get()
		frame.Commands.Defer(item.Render)
	}
}
