package physics

import (
	"github.com/TFMV/forcefield/models"
)

// Object is the simulation's point mass for one node
type Object struct {
	ID       uint32
	X, Y, Z  float32
	Strength float32
}

// Position returns the object's coordinates
func (o *Object) Position() models.Vec3 {
	return models.Vec3{X: o.X, Y: o.Y, Z: o.Z}
}

func (o *Object) setPosition(p models.Vec3) {
	o.X, o.Y, o.Z = p.X, p.Y, p.Z
}

// Store is the authoritative array of objects, index-aligned with the
// graph's node collection
type Store struct {
	objs []Object
}

// BuildStore creates one object per node, all sharing strength
func BuildStore(nodes []models.Node, strength float32) *Store {
	s := &Store{objs: make([]Object, 0, len(nodes))}
	for i := range nodes {
		s.Push(nodes[i].Position, strength)
	}
	return s
}

// Push appends an object and returns its id. The caller must append the
// matching node to the graph in the same operation.
func (s *Store) Push(pos models.Vec3, strength float32) uint32 {
	id := uint32(len(s.objs))
	s.objs = append(s.objs, Object{
		ID:       id,
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		Strength: strength,
	})
	return id
}

// Len returns the number of objects
func (s *Store) Len() int {
	return len(s.objs)
}

// At returns a copy of object i
func (s *Store) At(i uint32) Object {
	return s.objs[i]
}

// Position returns the coordinates of object i
func (s *Store) Position(i uint32) models.Vec3 {
	return s.objs[i].Position()
}

// SetPosition overwrites the coordinates of object i
func (s *Store) SetPosition(i uint32, p models.Vec3) {
	s.objs[i].setPosition(p)
}
