package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRigidBody_Dynamic(t *testing.T) {
	box := NewCuboid(NewHullRegistry(), mgl64.Vec3{1, 1, 1})
	rb := NewRigidBody(NewTransform(), box, BodyTypeDynamic, 12)

	assert.NotEqual(t, [16]byte{}, [16]byte(rb.ID))
	assert.Equal(t, 12.0, rb.Mass())
	assert.InDelta(t, 1.0/12.0, rb.InverseMass(), 1e-15)
	assert.InDelta(t, 1.0/8.0, rb.InverseInertiaLocal.At(0, 0), 1e-12)
	assert.False(t, rb.IsStatic())
	assert.True(t, rb.IsActive())
}

func TestNewRigidBody_Static(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewPlane(mgl64.Vec3{0, 1, 0}, 0), BodyTypeStatic, 0)

	assert.Equal(t, 0.0, rb.InverseMass())
	assert.Equal(t, mgl64.Mat3{}, rb.InverseInertiaLocal)
	assert.Equal(t, mgl64.Mat3{}, rb.InverseInertiaWorld())
	assert.False(t, rb.IsActive())

	rb.AddForce(mgl64.Vec3{1, 0, 0})
	rb.ApplyImpulse(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 1, 0})
	assert.Equal(t, mgl64.Vec3{}, rb.Force())
	assert.Equal(t, mgl64.Vec3{}, rb.Velocity)
	assert.Equal(t, mgl64.Vec3{}, rb.AngularVelocity)
}

func TestNewRigidBody_InvalidMassPanics(t *testing.T) {
	sphere := NewSphere(1)

	for _, mass := range []float64{0, -1, math.Inf(-1)} {
		assert.Panics(t, func() {
			NewRigidBody(NewTransform(), sphere, BodyTypeDynamic, mass)
		}, "mass %v", mass)
	}
	assert.NotPanics(t, func() {
		NewRigidBody(NewTransform(), sphere, BodyTypeStatic, 0)
	})
	assert.Panics(t, func() {
		NewRigidBody(NewTransform(), NewPlane(mgl64.Vec3{0, 1, 0}, 0), BodyTypeDynamic, 1)
	})
}

func TestNewRigidBodyFromDensity(t *testing.T) {
	rb := NewRigidBodyFromDensity(NewTransform(), NewCuboid(NewHullRegistry(), mgl64.Vec3{1, 2, 0.5}), 3)
	assert.InDelta(t, 24.0, rb.Mass(), 1e-12)
}

func TestNewRigidBody_NormalizesOrientation(t *testing.T) {
	transform := NewTransform()
	transform.Rotation = mgl64.Quat{}
	rb := NewRigidBody(transform, NewSphere(1), BodyTypeDynamic, 1)
	assert.Equal(t, mgl64.QuatIdent(), rb.Orientation())

	rb.SetOrientation(mgl64.Quat{W: 2})
	assert.InDelta(t, 1.0, rb.Orientation().Len(), 1e-12)
}

func TestRigidBody_CachesFollowPoseVersion(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewSphere(1), BodyTypeDynamic, 1)

	first := rb.AABB()
	assert.Equal(t, mgl64.Vec3{-1, -1, -1}, first.Min)
	version := rb.PoseVersion()

	rb.SetPosition(mgl64.Vec3{5, 0, 0})
	assert.Greater(t, rb.PoseVersion(), version)
	assert.Equal(t, mgl64.Vec3{4, -1, -1}, rb.AABB().Min)

	m := rb.WorldMatrix()
	assert.Equal(t, 5.0, m.At(0, 3))

	rb.SetOrientation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	m = rb.WorldMatrix()
	assert.InDelta(t, -1.0, m.At(0, 1), 1e-12)
}

func TestRigidBody_AABBCachedBetweenWrites(t *testing.T) {
	box := NewCuboid(NewHullRegistry(), mgl64.Vec3{1, 1, 1})
	rb := NewRigidBody(NewTransform(), box, BodyTypeDynamic, 1)

	a := rb.AABB()
	// Mutating the shape without a pose write keeps the stale cached box.
	box.vertices[0] = mgl64.Vec3{-5, -5, -5}
	assert.Equal(t, a, rb.AABB())

	rb.SetPosition(rb.Position())
	assert.Equal(t, mgl64.Vec3{-5, -5, -5}, rb.AABB().Min)
}

func TestRigidBody_ApplyImpulse(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewCuboid(NewHullRegistry(), mgl64.Vec3{1, 1, 1}), BodyTypeDynamic, 12)

	rb.ApplyImpulse(mgl64.Vec3{12, 0, 0}, mgl64.Vec3{})
	assert.True(t, vec3Equal(rb.Velocity, mgl64.Vec3{1, 0, 0}, 1e-12))
	assert.Equal(t, mgl64.Vec3{}, rb.AngularVelocity)

	// Off-center impulse: r × J = (0,1,0) × (8,0,0) = (0,0,-8), I = 8.
	rb.ApplyImpulse(mgl64.Vec3{8, 0, 0}, mgl64.Vec3{0, 1, 0})
	assert.True(t, vec3Equal(rb.AngularVelocity, mgl64.Vec3{0, 0, -1}, 1e-12), "ω = %v", rb.AngularVelocity)

	v := rb.VelocityAtPoint(mgl64.Vec3{0, 1, 0})
	assert.True(t, vec3Equal(v, rb.Velocity.Add(mgl64.Vec3{1, 0, 0}), 1e-12), "v = %v", v)
}

func TestRigidBody_InertiaWorld(t *testing.T) {
	box := NewCuboid(NewHullRegistry(), mgl64.Vec3{2, 1, 1})
	transform := NewTransform()
	transform.Rotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	rb := NewRigidBody(transform, box, BodyTypeDynamic, 12)

	// A quarter turn about Z swaps the X and Y moments.
	local := rb.InertiaLocal
	world := rb.InertiaWorld()
	assert.InDelta(t, local.At(1, 1), world.At(0, 0), 1e-9)
	assert.InDelta(t, local.At(0, 0), world.At(1, 1), 1e-9)

	product := world.Mul3(rb.InverseInertiaWorld())
	ident := mgl64.Ident3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, ident.At(i, j), product.At(i, j), 1e-9)
		}
	}
}

func TestRigidBody_SleepAndWake(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewSphere(1), BodyTypeDynamic, 1)
	rb.Velocity = mgl64.Vec3{1, 2, 3}
	rb.AddForce(mgl64.Vec3{0, 1, 0})

	rb.Sleep()
	require.True(t, rb.IsSleeping)
	assert.Equal(t, mgl64.Vec3{}, rb.Velocity)
	assert.Equal(t, mgl64.Vec3{}, rb.Force())
	assert.False(t, rb.IsActive())

	rb.AddTorque(mgl64.Vec3{0, 0, 1})
	assert.False(t, rb.IsSleeping)
	assert.Equal(t, restEstimateOnWake, rb.RestEstimate())
}

func TestRigidBody_AddForceAtPoint(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewSphere(1), BodyTypeDynamic, 1)
	rb.SetPosition(mgl64.Vec3{1, 0, 0})

	rb.AddForceAtPoint(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{2, 0, 0})
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, rb.Force())
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, rb.Torque())

	rb.ClearForces()
	assert.Equal(t, mgl64.Vec3{}, rb.Force())
	assert.Equal(t, mgl64.Vec3{}, rb.Torque())
}
