package ecs

// GetComponent is the typed convenience wrapper over Storage.GetComponent,
// grounded on plus3/ooftn/ecs/storage.go's ReadComponent[T] helper.
func GetComponent[T any](s *Storage, reg *ComponentRegistry, e EntityID) (T, bool) {
	v, ok := s.GetComponent(e, IDFor[T](reg))
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// AddComponentT queues adding a T to e through a Commands buffer.
func AddComponentT[T any](c *Commands, reg *ComponentRegistry, e EntityID, value T) {
	c.AddComponent(e, IDFor[T](reg), value)
}

// RemoveComponentT queues removing a T from e through a Commands buffer.
func RemoveComponentT[T any](c *Commands, reg *ComponentRegistry, e EntityID) {
	c.RemoveComponent(e, IDFor[T](reg))
}
