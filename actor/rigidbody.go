package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

func (t BodyType) String() string {
	if t == BodyTypeStatic {
		return "static"
	}
	return "dynamic"
}

type Material struct {
	Restitution float64 `yaml:"restitution"` // 0= no rebound, 1= perfect restitution
	Friction    float64 `yaml:"friction"`
}

// restEstimateOnWake is the smoothed speed² a body restarts from when woken,
// so it cannot fall asleep again on the very next step.
const restEstimateOnWake = 1.0

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	ID uuid.UUID

	transform Transform

	Velocity        mgl64.Vec3 // Linear velocity (m/s)
	AngularVelocity mgl64.Vec3 // rad/s, world space

	force  mgl64.Vec3
	torque mgl64.Vec3
	// appliedForce is the force consumed by the last integration.
	appliedForce mgl64.Vec3

	mass                float64
	invMass             float64
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	Material  Material
	BodyType  BodyType
	IsTrigger bool

	IsSleeping   bool
	restEstimate float64

	// Collision shape
	Shape Shape

	poseVersion uint64
	worldMatrix cached[mgl64.Mat4]
	worldAABB   cached[AABB]
}

// NewRigidBody creates a body of the given mass. Static bodies ignore mass.
// A dynamic body with mass <= 0, or a dynamic plane, is a programming error and panics.
func NewRigidBody(transform Transform, shape Shape, bodyType BodyType, mass float64) *RigidBody {
	if bodyType == BodyTypeDynamic {
		if mass <= 0 {
			panic(fmt.Sprintf("actor: dynamic body requires a positive mass, got %v", mass))
		}
		if shape != nil && shape.Type() == ShapeTypePlane {
			panic("actor: plane shapes must belong to static bodies")
		}
	}

	rb := &RigidBody{
		ID:           uuid.New(),
		transform:    transform.normalized(),
		Shape:        shape,
		BodyType:     bodyType,
		restEstimate: restEstimateOnWake,
	}

	if bodyType == BodyTypeDynamic {
		rb.mass = mass
		rb.invMass = 1.0 / mass
		if shape != nil {
			rb.InertiaLocal = shape.ComputeInertia(mass)
			rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
		}
	}

	return rb
}

// NewRigidBodyFromDensity derives the mass of a dynamic body from its shape volume.
func NewRigidBodyFromDensity(transform Transform, shape Shape, density float64) *RigidBody {
	return NewRigidBody(transform, shape, BodyTypeDynamic, shape.ComputeMass(density))
}

func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

// Mass is zero for static bodies.
func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

func (rb *RigidBody) InverseMass() float64 {
	return rb.invMass
}

func (rb *RigidBody) Transform() Transform {
	return rb.transform
}

func (rb *RigidBody) Position() mgl64.Vec3 {
	return rb.transform.Position
}

func (rb *RigidBody) Orientation() mgl64.Quat {
	return rb.transform.Rotation
}

func (rb *RigidBody) SetPosition(position mgl64.Vec3) {
	rb.transform.Position = position
	rb.touchPose()
}

func (rb *RigidBody) SetOrientation(orientation mgl64.Quat) {
	rb.transform.Rotation = orientation
	rb.transform = rb.transform.normalized()
	rb.touchPose()
}

func (rb *RigidBody) SetTransform(transform Transform) {
	rb.transform = transform.normalized()
	rb.touchPose()
}

// PoseVersion increases on every pose write.
func (rb *RigidBody) PoseVersion() uint64 {
	return rb.poseVersion
}

func (rb *RigidBody) touchPose() {
	rb.poseVersion++
	rb.worldMatrix.invalidate()
	rb.worldAABB.invalidate()
}

// WorldMatrix is recomputed lazily after a pose change.
func (rb *RigidBody) WorldMatrix() mgl64.Mat4 {
	return rb.worldMatrix.get(rb.poseVersion, rb.transform.Matrix)
}

// AABB returns the world bounding box, recomputed lazily after a pose change.
func (rb *RigidBody) AABB() AABB {
	if rb.Shape == nil {
		return AABB{Min: rb.transform.Position, Max: rb.transform.Position}
	}
	return rb.worldAABB.get(rb.poseVersion, func() AABB {
		return rb.Shape.ComputeAABB(rb.transform)
	})
}

// AddForce accumulates a force at the center of mass until the next integration.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}
	rb.Wake()
	rb.force = rb.force.Add(force)
}

func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}
	rb.Wake()
	rb.torque = rb.torque.Add(torque)
}

// AddForceAtPoint accumulates a force applied at a world point, with its torque.
func (rb *RigidBody) AddForceAtPoint(force, point mgl64.Vec3) {
	rb.AddForce(force)
	rb.AddTorque(point.Sub(rb.transform.Position).Cross(force))
}

func (rb *RigidBody) Force() mgl64.Vec3 {
	return rb.force
}

// AppliedForce returns the force the last integration step applied.
func (rb *RigidBody) AppliedForce() mgl64.Vec3 {
	return rb.appliedForce
}

func (rb *RigidBody) Torque() mgl64.Vec3 {
	return rb.torque
}

func (rb *RigidBody) ClearForces() {
	rb.force = mgl64.Vec3{}
	rb.torque = mgl64.Vec3{}
}

// ApplyImpulse changes the velocities by an impulse applied at relPos from the
// center of mass. Static bodies are unaffected since their inverse mass is zero.
func (rb *RigidBody) ApplyImpulse(impulse, relPos mgl64.Vec3) {
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.invMass))
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.InverseInertiaWorld().Mul3x1(relPos.Cross(impulse)))
}

// VelocityAtPoint returns the velocity of the body point at relPos from the center of mass.
func (rb *RigidBody) VelocityAtPoint(relPos mgl64.Vec3) mgl64.Vec3 {
	return rb.Velocity.Add(rb.AngularVelocity.Cross(relPos))
}

// Inertie en espace monde
func (rb *RigidBody) InertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

func (rb *RigidBody) InverseInertiaWorld() mgl64.Mat3 {
	if rb.IsStatic() {
		return mgl64.Mat3{}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// Sleep freezes the body until something wakes it.
func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.ClearForces()
	rb.appliedForce = mgl64.Vec3{}
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Wake() {
	if !rb.IsSleeping {
		return
	}
	rb.IsSleeping = false
	rb.restEstimate = restEstimateOnWake
}

// RestEstimate is the smoothed |v|²+|ω|² used by the rest test.
func (rb *RigidBody) RestEstimate() float64 {
	return rb.restEstimate
}

// IsActive reports whether the body moves this step.
func (rb *RigidBody) IsActive() bool {
	return !rb.IsStatic() && !rb.IsSleeping
}
