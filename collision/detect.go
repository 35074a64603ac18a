// Package collision is the narrowphase: separating axis tests dispatched on
// the pair of shape types, and contact manifold construction by clipping.
package collision

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/logging"
)

type collideFunc func(a, b body) (CollisionData, bool)

// dispatchEntry says which shape type the function expects as its first argument.
type dispatchEntry struct {
	first   actor.ShapeType
	collide collideFunc
}

// Detector runs the narrowphase for any registered pair of shape types.
type Detector struct {
	logger logging.Logger
	table  map[actor.ShapeType]dispatchEntry
}

// NewDetector registers every supported shape combination. A nil logger is replaced by a no-op one.
func NewDetector(logger logging.Logger) *Detector {
	d := &Detector{
		logger: logging.OrNop(logger),
		table:  make(map[actor.ShapeType]dispatchEntry),
	}

	d.register(actor.ShapeTypeSphere, actor.ShapeTypeSphere, sphereSphere)

	polyhedra := []actor.ShapeType{actor.ShapeTypeCuboid, actor.ShapeTypePyramid}
	for i, a := range polyhedra {
		for _, b := range polyhedra[i:] {
			d.register(a, b, polyhedronPolyhedron)
		}
		d.register(a, actor.ShapeTypeSphere, polyhedronSphere)
		d.register(actor.ShapeTypePlane, a, planeShape)
	}
	d.register(actor.ShapeTypePlane, actor.ShapeTypeSphere, planeShape)

	return d
}

func (d *Detector) register(first, second actor.ShapeType, fn collideFunc) {
	d.table[first|second] = dispatchEntry{first: first, collide: fn}
}

// Supports reports whether a collision function exists for the two shape types.
func (d *Detector) Supports(a, b actor.ShapeType) bool {
	_, ok := d.table[a|b]
	return ok
}

// CheckCollision runs the separating axis test between two bodies.
// An unsupported shape pair is logged as critical and reported as no collision.
func (d *Detector) CheckCollision(bodyA, bodyB *actor.RigidBody) (bool, CollisionData) {
	if bodyA.Shape == nil || bodyB.Shape == nil {
		return false, CollisionData{}
	}

	typeA, typeB := bodyA.Shape.Type(), bodyB.Shape.Type()
	entry, ok := d.table[typeA|typeB]
	if !ok {
		d.logger.Criticalf("no collision function registered for %s vs %s", typeA, typeB)
		return false, CollisionData{}
	}

	if typeA != entry.first {
		data, hit := entry.collide(bodyOf(bodyB), bodyOf(bodyA))
		if !hit {
			return false, CollisionData{}
		}
		return true, data.flip()
	}

	data, hit := entry.collide(bodyOf(bodyA), bodyOf(bodyB))
	return hit, data
}
