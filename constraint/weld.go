package constraint

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
)

// Weld pins BodyB rigidly to BodyA at the offset they had when welded.
// B's pose is snapped before solving and its velocity follows A's rigid motion.
type Weld struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody

	localOffset      mgl64.Vec3
	relativeRotation mgl64.Quat
}

func NewWeld(bodyA, bodyB *actor.RigidBody) *Weld {
	ta := bodyA.Transform()
	tb := bodyB.Transform()

	return &Weld{
		BodyA:            bodyA,
		BodyB:            bodyB,
		localOffset:      ta.PointToLocal(tb.Position),
		relativeRotation: ta.Rotation.Conjugate().Mul(tb.Rotation).Normalize(),
	}
}

func (w *Weld) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return w.BodyA, w.BodyB
}

// Target returns the pose B must have given A's current pose.
func (w *Weld) Target() actor.Transform {
	ta := w.BodyA.Transform()
	return actor.Transform{
		Position: ta.PointToWorld(w.localOffset),
		Rotation: ta.Rotation.Mul(w.relativeRotation),
	}
}

func (w *Weld) PreSolverStep(dt float64) {
	if w.BodyB.IsStatic() {
		return
	}
	if !w.BodyA.IsSleeping {
		w.BodyB.Wake()
	}
	w.BodyB.SetTransform(w.Target())
	w.followA()
}

func (w *Weld) ApplyImpulse() {
	if w.BodyB.IsStatic() {
		return
	}
	w.followA()
}

func (w *Weld) followA() {
	r := w.BodyB.Position().Sub(w.BodyA.Position())
	w.BodyB.Velocity = w.BodyA.VelocityAtPoint(r)
	w.BodyB.AngularVelocity = w.BodyA.AngularVelocity
}

func (w *Weld) DebugDraw(renderer debugdraw.Renderer) {
	renderer.DrawLine(w.BodyA.Position(), w.BodyB.Position(), debugdraw.ColorConstraint)
}
