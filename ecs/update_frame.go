package ecs

// UpdateFrame is handed to every System's Execute for one stage run.
// Grounded on plus3/ooftn/ecs/update_frame.go, extended with Tick and
// Resources which plus3/ooftn's version does not carry.
type UpdateFrame struct {
	DeltaTime float64
	Tick      Tick
	Commands  *Commands
	Storage   *Storage
	Resources *Resources
}

func newUpdateFrame(dt float64, tick Tick, storage *Storage, resources *Resources, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Tick:      tick,
		Commands:  commands,
		Storage:   storage,
		Resources: resources,
	}
}
