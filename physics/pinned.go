package physics

// Pinned optionally names the node the user is holding. The zero value
// pins nothing.
type Pinned struct {
	id  uint32
	set bool
}

// Pin returns a Pinned holding id
func Pin(id uint32) Pinned {
	return Pinned{id: id, set: true}
}

// ID returns the pinned id and whether one is set
func (p Pinned) ID() (uint32, bool) {
	return p.id, p.set
}

// Is reports whether node i is the pinned node
func (p Pinned) Is(i uint32) bool {
	return p.set && p.id == i
}
