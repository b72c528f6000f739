package debugui

import "github.com/plus3/weave/ecs"

// ArchetypeViewerComponent holds the Archetype Viewer panel's render cache
// and current sort state.
type ArchetypeViewerComponent struct {
	cache          *ArchetypeViewerCache
	selectedArchID *ecs.ArchetypeID
	sortColumn     int
	sortAscending  bool
}

// PerformanceStatsComponent holds the Performance Stats panel's rolling
// frame-time history.
type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
