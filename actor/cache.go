package actor

// cached memoizes a value derived from a body's pose. The value is valid while
// the pose version it was computed at is still current.
type cached[T any] struct {
	value   T
	version uint64
	valid   bool
}

func (c *cached[T]) get(version uint64, compute func() T) T {
	if !c.valid || c.version != version {
		c.value = compute()
		c.version = version
		c.valid = true
	}
	return c.value
}

func (c *cached[T]) invalidate() {
	c.valid = false
}
