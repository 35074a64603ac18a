package constraint

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactPoint is one point of a manifold. Penetration is <= 0 when the bodies
// overlap. AccumulatedNormalImpulse is the magnitude pushing the bodies apart,
// so it is never negative.
type ContactPoint struct {
	WorldPointA mgl64.Vec3
	WorldPointB mgl64.Vec3
	RelPosA     mgl64.Vec3
	RelPosB     mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64

	AccumulatedNormalImpulse  float64
	AccumulatedTangentImpulse mgl64.Vec3
	Bias                      float64

	normalMass float64
}

// Manifold holds the contacts of one body pair for a single step.
type Manifold struct {
	BodyA    *actor.RigidBody
	BodyB    *actor.RigidBody
	Contacts []ContactPoint

	Restitution float64
	Friction    float64
	Params      SolverParams
}

func NewManifold(bodyA, bodyB *actor.RigidBody, params SolverParams) *Manifold {
	return &Manifold{
		BodyA:       bodyA,
		BodyB:       bodyB,
		Restitution: ComputeRestitution(bodyA.Material, bodyB.Material),
		Friction:    ComputeFriction(bodyA.Material, bodyB.Material),
		Params:      params,
	}
}

func (m *Manifold) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return m.BodyA, m.BodyB
}

// AddContact records a contact between pointA on A and pointB on B. A contact
// closer than the persistent threshold to an existing one is merged into it,
// the deeper of the two surviving.
func (m *Manifold) AddContact(pointA, pointB, normal mgl64.Vec3, penetration float64) {
	contact := ContactPoint{
		WorldPointA: pointA,
		WorldPointB: pointB,
		RelPosA:     pointA.Sub(m.BodyA.Position()),
		RelPosB:     pointB.Sub(m.BodyB.Position()),
		Normal:      normal,
		Penetration: penetration,
	}

	threshold := m.Params.PersistentThreshold * m.Params.PersistentThreshold
	for i := range m.Contacts {
		existing := &m.Contacts[i]
		if existing.WorldPointA.Sub(pointA).LenSqr() > threshold {
			continue
		}
		if penetration < existing.Penetration {
			*existing = contact
		}
		return
	}
	m.Contacts = append(m.Contacts, contact)
}

// Clear drops every contact, keeping the allocation.
func (m *Manifold) Clear() {
	m.Contacts = m.Contacts[:0]
}

// Deepest returns the most negative penetration of the manifold.
func (m *Manifold) Deepest() float64 {
	deepest := 0.0
	for _, c := range m.Contacts {
		deepest = math.Min(deepest, c.Penetration)
	}
	return deepest
}

func (m *Manifold) PreSolverStep(dt float64) {
	for i := range m.Contacts {
		c := &m.Contacts[i]
		c.AccumulatedNormalImpulse = 0
		c.AccumulatedTangentImpulse = mgl64.Vec3{}
		c.normalMass = effectiveMass(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB, c.Normal)

		closing := relativeVelocity(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB).Dot(c.Normal)
		c.Bias = 0
		if closing < -m.Params.RestitutionSlop {
			c.Bias = m.Restitution * closing
		}

		depth := -c.Penetration
		if dt > 0 {
			c.Bias -= (m.Params.BaumgarteScalar / dt) * math.Max(depth-m.Params.BaumgarteSlop, 0)
		}
	}
}

func (m *Manifold) ApplyImpulse() {
	for i := range m.Contacts {
		c := &m.Contacts[i]
		if c.normalMass == 0 {
			continue
		}

		// Normal impulse: drive v·n to -bias, never pulling the bodies together.
		vn := relativeVelocity(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB).Dot(c.Normal)
		lambda := -(vn + c.Bias) * c.normalMass

		previous := c.AccumulatedNormalImpulse
		c.AccumulatedNormalImpulse = math.Max(previous+lambda, 0)
		lambda = c.AccumulatedNormalImpulse - previous
		applyPair(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB, c.Normal.Mul(lambda))

		m.applyFriction(c)
	}
}

// applyFriction clamps the accumulated tangent impulse to the Coulomb cone.
func (m *Manifold) applyFriction(c *ContactPoint) {
	vRel := relativeVelocity(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB)
	tangentVelocity := vRel.Sub(c.Normal.Mul(vRel.Dot(c.Normal)))
	tangent, ok := actor.SafeNormalize(tangentVelocity)
	if !ok {
		return
	}

	tangentMass := effectiveMass(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB, tangent)
	if tangentMass == 0 {
		return
	}

	lambda := -vRel.Dot(tangent) * tangentMass
	previous := c.AccumulatedTangentImpulse
	accumulated := previous.Add(tangent.Mul(lambda))

	maxFriction := m.Friction * c.AccumulatedNormalImpulse
	if l := accumulated.Len(); l > maxFriction {
		if l > 0 {
			accumulated = accumulated.Mul(maxFriction / l)
		}
	}
	c.AccumulatedTangentImpulse = accumulated
	applyPair(m.BodyA, m.BodyB, c.RelPosA, c.RelPosB, accumulated.Sub(previous))
}

// DebugDraw draws each contact pair and the segment joining them.
func (m *Manifold) DebugDraw(renderer debugdraw.Renderer) {
	for _, c := range m.Contacts {
		renderer.DrawPoint(c.WorldPointA, 4, debugdraw.ColorContactA)
		renderer.DrawPoint(c.WorldPointB, 4, debugdraw.ColorContactB)
		renderer.DrawLine(c.WorldPointA, c.WorldPointB, debugdraw.ColorConstraint)
	}
}

// DrawNormals draws the collision normal from each contact on A.
func (m *Manifold) DrawNormals(renderer debugdraw.Renderer, length float64) {
	for _, c := range m.Contacts {
		renderer.DrawLine(c.WorldPointA, c.WorldPointA.Add(c.Normal.Mul(length)), debugdraw.ColorNormal)
	}
}
