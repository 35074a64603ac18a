// Package constraint holds the sequential-impulse solver: contact manifolds
// and the bilateral constraints that persist between steps.
package constraint

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
)

// Constraint is solved once per step setup and then iteratively.
type Constraint interface {
	// PreSolverStep prepares the per-step terms and resets accumulated impulses.
	PreSolverStep(dt float64)
	// ApplyImpulse runs one solver iteration.
	ApplyImpulse()
	Bodies() (*actor.RigidBody, *actor.RigidBody)
	DebugDraw(renderer debugdraw.Renderer)
}

// SolverParams are the tunable contact constants.
//
// A body resting under gravity g settles at a depth of about
// BaumgarteSlop + g*dt*dt/BaumgarteScalar, where the bias cancels the
// velocity gravity adds each step. That is 0.0146 at the defaults and 60 Hz.
type SolverParams struct {
	BaumgarteScalar float64 `yaml:"baumgarteScalar"`
	BaumgarteSlop   float64 `yaml:"baumgarteSlop"`
	// RestitutionSlop is the closing speed under which contacts do not bounce.
	RestitutionSlop float64 `yaml:"restitutionSlop"`
	// PersistentThreshold is the merge distance between contact points.
	PersistentThreshold float64 `yaml:"persistentThreshold"`
}

func DefaultSolverParams() SolverParams {
	return SolverParams{
		BaumgarteScalar:     0.2,
		BaumgarteSlop:       0.001,
		RestitutionSlop:     0.5,
		PersistentThreshold: 0.025,
	}
}

// effectiveMassEpsilon guards the inverse of a near-zero effective mass.
const effectiveMassEpsilon = 1e-12

func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

func ComputeFriction(matA, matB actor.Material) float64 {
	// geometric mean
	return math.Sqrt(matA.Friction * matB.Friction)
}

// effectiveMass is the inverse of the mass seen by an impulse along direction
// applied at rA on A and rB on B.
func effectiveMass(bodyA, bodyB *actor.RigidBody, rA, rB, direction mgl64.Vec3) float64 {
	rAxN := rA.Cross(direction)
	rBxN := rB.Cross(direction)

	k := bodyA.InverseMass() + bodyB.InverseMass() +
		bodyA.InverseInertiaWorld().Mul3x1(rAxN).Dot(rAxN) +
		bodyB.InverseInertiaWorld().Mul3x1(rBxN).Dot(rBxN)
	if k < effectiveMassEpsilon {
		return 0
	}
	return 1.0 / k
}

// relativeVelocity is the velocity of B's point relative to A's point.
func relativeVelocity(bodyA, bodyB *actor.RigidBody, rA, rB mgl64.Vec3) mgl64.Vec3 {
	return bodyB.VelocityAtPoint(rB).Sub(bodyA.VelocityAtPoint(rA))
}

// applyPair applies impulse to B and its opposite to A.
func applyPair(bodyA, bodyB *actor.RigidBody, rA, rB, impulse mgl64.Vec3) {
	bodyA.ApplyImpulse(impulse.Mul(-1), rA)
	bodyB.ApplyImpulse(impulse, rB)
}
