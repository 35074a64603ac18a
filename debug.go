package impulse

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	normalDrawLength = 0.5
	circleSegments   = 24
)

func (w *World) DebugFlags() debugdraw.Flags {
	return w.config.DebugFlags
}

func (w *World) SetDebugFlags(flags debugdraw.Flags) {
	w.config.DebugFlags = flags
}

// DebugDraw emits the primitives selected by the debug flags for the state of
// the last step.
func (w *World) DebugDraw(renderer debugdraw.Renderer) {
	flags := w.config.DebugFlags
	if flags == debugdraw.None {
		return
	}

	for _, body := range w.active {
		drawBody(renderer, flags, body)
	}

	if flags.Has(debugdraw.BroadphasePairs) {
		for _, pair := range w.pairs {
			renderer.DrawLine(pair.BodyA.Position(), pair.BodyB.Position(), debugdraw.ColorPair)
		}
	}

	for _, m := range w.manifolds {
		if flags.Has(debugdraw.Manifold) {
			m.DebugDraw(renderer)
		}
		if flags.Has(debugdraw.CollisionNormals) {
			m.DrawNormals(renderer, normalDrawLength)
		}
	}

	if flags.Has(debugdraw.Constraint) {
		w.constraints.each(func(_ handle, c constraint.Constraint) bool {
			c.DebugDraw(renderer)
			return true
		})
	}
}

func drawBody(renderer debugdraw.Renderer, flags debugdraw.Flags, body *actor.RigidBody) {
	// Planes are unbounded and have nothing meaningful to draw.
	if body.Shape == nil || body.Shape.Type() == actor.ShapeTypePlane {
		return
	}
	position := body.Position()

	if flags.Has(debugdraw.AABB) {
		color := debugdraw.ColorAABBAwake
		if body.IsSleeping {
			color = debugdraw.ColorAABBSleeping
		}
		aabb := body.AABB()
		debugdraw.DrawBox(renderer, aabb.Min, aabb.Max, color)
	}

	if flags.Has(debugdraw.BoundingRadius) {
		radius := body.Shape.BoundingRadius()
		if !math.IsInf(radius, 0) {
			x, y, z := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}
			debugdraw.DrawCircle(renderer, position, x, y, radius, circleSegments, debugdraw.ColorRadius)
			debugdraw.DrawCircle(renderer, position, y, z, radius, circleSegments, debugdraw.ColorRadius)
			debugdraw.DrawCircle(renderer, position, z, x, radius, circleSegments, debugdraw.ColorRadius)
		}
	}

	if flags.Has(debugdraw.LinearVelocity) && body.Velocity.LenSqr() > 0 {
		renderer.DrawLine(position, position.Add(body.Velocity), debugdraw.ColorVelocity)
	}

	if force := body.AppliedForce(); flags.Has(debugdraw.LinearForce) && force.LenSqr() > 0 {
		renderer.DrawLine(position, position.Add(force.Mul(body.InverseMass())), debugdraw.ColorForce)
	}
}
