package constraint

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
)

// Distance keeps two anchor points at a fixed distance.
type Distance struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody

	LocalAnchorA mgl64.Vec3
	LocalAnchorB mgl64.Vec3
	Length       float64
	// BaumgarteScalar is the fraction of the length error corrected per step.
	BaumgarteScalar float64

	rA, rB mgl64.Vec3
	normal mgl64.Vec3
	mass   float64
	bias   float64
}

// NewDistance links world anchors, keeping their current separation.
func NewDistance(bodyA, bodyB *actor.RigidBody, anchorA, anchorB mgl64.Vec3) *Distance {
	return &Distance{
		BodyA:           bodyA,
		BodyB:           bodyB,
		LocalAnchorA:    bodyA.Transform().PointToLocal(anchorA),
		LocalAnchorB:    bodyB.Transform().PointToLocal(anchorB),
		Length:          anchorB.Sub(anchorA).Len(),
		BaumgarteScalar: DefaultSolverParams().BaumgarteScalar,
	}
}

func (d *Distance) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return d.BodyA, d.BodyB
}

// Anchors returns both anchors in world space.
func (d *Distance) Anchors() (mgl64.Vec3, mgl64.Vec3) {
	return d.BodyA.Transform().PointToWorld(d.LocalAnchorA), d.BodyB.Transform().PointToWorld(d.LocalAnchorB)
}

func (d *Distance) PreSolverStep(dt float64) {
	anchorA, anchorB := d.Anchors()
	d.rA = anchorA.Sub(d.BodyA.Position())
	d.rB = anchorB.Sub(d.BodyB.Position())

	delta := anchorB.Sub(anchorA)
	current := delta.Len()
	normal, ok := actor.SafeNormalize(delta)
	if !ok {
		normal = mgl64.Vec3{0, 1, 0}
	}
	d.normal = normal
	d.mass = effectiveMass(d.BodyA, d.BodyB, d.rA, d.rB, normal)

	d.bias = 0
	if dt > 0 {
		d.bias = (d.BaumgarteScalar / dt) * (current - d.Length)
	}
}

func (d *Distance) ApplyImpulse() {
	if d.mass == 0 {
		return
	}
	cdot := relativeVelocity(d.BodyA, d.BodyB, d.rA, d.rB).Dot(d.normal)
	lambda := -(cdot + d.bias) * d.mass
	applyPair(d.BodyA, d.BodyB, d.rA, d.rB, d.normal.Mul(lambda))
}

func (d *Distance) DebugDraw(renderer debugdraw.Renderer) {
	anchorA, anchorB := d.Anchors()
	renderer.DrawLine(anchorA, anchorB, debugdraw.ColorConstraint)
	renderer.DrawPoint(anchorA, 3, debugdraw.ColorConstraint)
	renderer.DrawPoint(anchorB, 3, debugdraw.ColorConstraint)
}
