package main

import "github.com/AllenDang/cimgui-go/imgui"

// renderControlsWindow is the demo's one ImguiItem: a small always-on panel
// separate from the Archetype Viewer and Performance Stats panels, showing
// that arbitrary ImGui windows can ride alongside debugui's own.
func renderControlsWindow() {
	if !imgui.BeginV("Demo Controls", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	imgui.Text("Q or Esc to quit.")
	imgui.Text("Circles respawn with a fresh lifespan once theirs expires.")
	imgui.End()
}
