package ecs

// command is one deferred structural mutation. Grounded on
// original_source/crates/gravitron_ecs/src/commands.rs's Box<dyn Command>
// entries, kept here as a closure rather than an interface hierarchy since
// Go closures already give us the single dynamic dispatch point we need.
type command func(s *Storage, now Tick)

// Commands is a per-system, append-only log of deferred structural
// mutations, drained by the scheduler after a stage barrier.
//
// Unlike plus3/ooftn's Commands.Flush (ecs/commands.go), which groups
// deletes/removes/adds/spawns/defers into phases, this buffer is a single
// ordered log executed in pure insertion order, matching
// original_source/.../commands.rs's Commands.execute and spec wording
// "Commands within one buffer execute in insertion order."
type Commands struct {
	storage *Storage
	log     []command
}

func newCommands(storage *Storage) *Commands {
	return &Commands{storage: storage}
}

// ReserveEntityID synchronously reserves an id so the caller can hand it out
// before the entity actually exists (e.g. to wire it into other commands).
func (c *Commands) ReserveEntityID() EntityID {
	return c.storage.ReserveEntityID()
}

// CreateEntity queues creation of a new entity from comps using a
// synchronously reserved id, which is returned immediately.
func (c *Commands) CreateEntity(comps map[ComponentID]any) EntityID {
	id := c.storage.ReserveEntityID()
	c.log = append(c.log, func(s *Storage, now Tick) {
		s.CreateWithID(id, comps, now)
	})
	return id
}

// RemoveEntity queues removal of id.
func (c *Commands) RemoveEntity(id EntityID) {
	c.log = append(c.log, func(s *Storage, now Tick) {
		s.RemoveEntity(id)
	})
}

// AddComponent queues adding value (registered under componentID) to id.
func (c *Commands) AddComponent(id EntityID, componentID ComponentID, value any) {
	c.log = append(c.log, func(s *Storage, now Tick) {
		s.AddComponent(id, componentID, value, now)
	})
}

// RemoveComponent queues removing componentID from id.
func (c *Commands) RemoveComponent(id EntityID, componentID ComponentID) {
	c.log = append(c.log, func(s *Storage, now Tick) {
		s.RemoveComponent(id, componentID, now)
	})
}

// Custom queues an arbitrary storage-mutating closure, the escape hatch used
// by multi-step collaborators (e.g. a hierarchy plugin) that must apply more
// than one edit atomically with respect to other systems' commands. A Custom
// closure must not itself call back into a Commands buffer.
func (c *Commands) Custom(fn func(s *Storage, now Tick)) {
	c.log = append(c.log, fn)
}

// Defer queues a storage-free callback that runs when the buffer is
// flushed, in insertion order with the other queued commands, used by
// consumers (e.g. the debug overlay) that must not run during active
// iteration but do not need Storage access. Grounded on plus3/ooftn's
// Commands.Defer (ecs/commands.go).
func (c *Commands) Defer(fn func()) {
	c.log = append(c.log, func(*Storage, Tick) {
		fn()
	})
}

// flush applies every queued command, in insertion order, against storage
// at the given tick, then empties the log.
func (c *Commands) flush(storage *Storage, now Tick) {
	for _, cmd := range c.log {
		cmd(storage, now)
	}
	c.log = c.log[:0]
}
