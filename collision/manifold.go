package collision

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
)

// BuildCollisionManifold adds the contacts of a colliding pair to manifold.
//
// Each shape yields the face it presents along the normal. The face more
// parallel to the normal is the reference; the other one is clipped against
// the reference's neighbouring faces, then points in front of the reference
// plane are dropped. Degenerate faces fall back to the single SAT contact.
func BuildCollisionManifold(bodyA, bodyB *actor.RigidBody, data CollisionData, manifold *constraint.Manifold) {
	normal := data.Normal
	polyA := bodyA.Shape.ReferencePolygon(bodyA.Transform(), normal)
	polyB := bodyB.Shape.ReferencePolygon(bodyB.Transform(), normal.Mul(-1))

	if len(polyA.Vertices) <= 1 || len(polyB.Vertices) <= 1 {
		addSATContact(data, manifold)
		return
	}

	reference, incident := polyA, polyB
	referenceIsA := true
	if math.Abs(polyB.Normal.Dot(normal)) > math.Abs(polyA.Normal.Dot(normal)) {
		reference, incident = polyB, polyA
		referenceIsA = false
	}

	referencePlane := reference.Plane()
	clipped := ClipPolygon(incident.Vertices, reference.Adjacent, false)
	clipped = ClipPolygon(clipped, []actor.HalfSpace{referencePlane}, true)
	if len(clipped) <= 1 {
		addSATContact(data, manifold)
		return
	}

	for _, p := range clipped {
		depth := math.Min(referencePlane.Distance(p), 0)
		onReference := p.Sub(reference.Normal.Mul(referencePlane.Distance(p)))
		if referenceIsA {
			manifold.AddContact(onReference, p, normal, depth)
		} else {
			manifold.AddContact(p, onReference, normal, depth)
		}
	}
}

func addSATContact(data CollisionData, manifold *constraint.Manifold) {
	onB := data.PointOnPlane.Add(data.Normal.Mul(data.Penetration))
	manifold.AddContact(data.PointOnPlane, onB, data.Normal, data.Penetration)
}

// Collide runs the narrowphase on a pair and, when it collides, builds its manifold.
func (d *Detector) Collide(bodyA, bodyB *actor.RigidBody, params constraint.SolverParams) (*constraint.Manifold, bool) {
	hit, data := d.CheckCollision(bodyA, bodyB)
	if !hit {
		return nil, false
	}
	manifold := constraint.NewManifold(bodyA, bodyB, params)
	BuildCollisionManifold(bodyA, bodyB, data, manifold)
	return manifold, true
}
