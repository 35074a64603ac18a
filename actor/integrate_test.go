package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func newFallingBody() *RigidBody {
	return NewRigidBody(NewTransform(), NewSphere(1), BodyTypeDynamic, 2)
}

func TestIntegrate_Schemes(t *testing.T) {
	gravity := mgl64.Vec3{0, -10, 0}
	dt := 0.1

	// One step from rest under gravity, gravity entering the velocity first.
	tests := []struct {
		scheme IntegrationScheme
		wantY  float64
	}{
		{SemiImplicitEuler, -0.1},
		{ExplicitEuler, -0.1},
		{RK2, -0.1},
		{RK4, -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.scheme.String(), func(t *testing.T) {
			rb := newFallingBody()
			rb.Integrate(dt, IntegrationParams{Gravity: gravity, Scheme: tt.scheme})

			if !floatEqual(rb.Position().Y(), tt.wantY, 1e-12) {
				t.Errorf("Y = %v, want %v", rb.Position().Y(), tt.wantY)
			}
			if !floatEqual(rb.Velocity.Y(), -1, 1e-12) {
				t.Errorf("Vy = %v, want -1", rb.Velocity.Y())
			}
		})
	}
}

func TestIntegrate_SchemesWithForce(t *testing.T) {
	dt := 0.5
	// Constant acceleration a = F/m = 2, starting at v = 1.
	tests := []struct {
		scheme IntegrationScheme
		wantX  float64
	}{
		{ExplicitEuler, 0.5},     // x += v dt
		{SemiImplicitEuler, 1.0}, // x += (v + a dt) dt
		{RK2, 0.75},              // x += (v + a dt/2) dt
		{RK4, 0.75},              // exact for constant acceleration
	}

	for _, tt := range tests {
		t.Run(tt.scheme.String(), func(t *testing.T) {
			rb := newFallingBody()
			rb.Velocity = mgl64.Vec3{1, 0, 0}
			rb.AddForce(mgl64.Vec3{4, 0, 0})
			rb.Integrate(dt, IntegrationParams{Scheme: tt.scheme})

			assert.InDelta(t, tt.wantX, rb.Position().X(), 1e-12)
			assert.InDelta(t, 2.0, rb.Velocity.X(), 1e-12)
			assert.Equal(t, mgl64.Vec3{}, rb.Force(), "forces are consumed by the step")
			assert.Equal(t, mgl64.Vec3{4, 0, 0}, rb.AppliedForce())
		})
	}
}

func TestIntegrate_StaticAndSleepingDoNotMove(t *testing.T) {
	static := NewRigidBody(NewTransform(), NewSphere(1), BodyTypeStatic, 0)
	sleeping := newFallingBody()
	sleeping.Sleep()

	params := IntegrationParams{Gravity: mgl64.Vec3{0, -9.81, 0}}
	for _, rb := range []*RigidBody{static, sleeping} {
		version := rb.PoseVersion()
		rb.Integrate(1.0/60.0, params)
		assert.Equal(t, mgl64.Vec3{}, rb.Position())
		assert.Equal(t, version, rb.PoseVersion())
	}
}

func TestIntegrate_Damping(t *testing.T) {
	rb := newFallingBody()
	rb.Velocity = mgl64.Vec3{10, 0, 0}
	rb.AngularVelocity = mgl64.Vec3{0, 4, 0}

	rb.Integrate(0.5, IntegrationParams{Damping: 2})

	factor := math.Exp(-1)
	assert.InDelta(t, 10*factor, rb.Velocity.X(), 1e-12)
	assert.InDelta(t, 4*factor, rb.AngularVelocity.Y(), 1e-12)
}

func TestIntegrate_AngularMotion(t *testing.T) {
	rb := newFallingBody()
	rb.AngularVelocity = mgl64.Vec3{0, math.Pi, 0}

	dt := 1.0 / 600.0
	for i := 0; i < 300; i++ {
		rb.Integrate(dt, IntegrationParams{})
		assert.InDelta(t, 1.0, rb.Orientation().Len(), 1e-12)
	}

	// Half a second at π rad/s is a quarter turn about Y: local X maps to -Z.
	x := rb.Transform().DirectionToWorld(mgl64.Vec3{1, 0, 0})
	assert.True(t, vec3Equal(x, mgl64.Vec3{0, 0, -1}, 1e-2), "x axis = %v", x)
}

func TestIntegrate_TorqueSpinsUp(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewCuboid(NewHullRegistry(), mgl64.Vec3{1, 1, 1}), BodyTypeDynamic, 12)
	rb.AddTorque(mgl64.Vec3{0, 0, 8})

	rb.Integrate(0.5, IntegrationParams{})
	assert.True(t, vec3Equal(rb.AngularVelocity, mgl64.Vec3{0, 0, 0.5}, 1e-12), "ω = %v", rb.AngularVelocity)
}

func TestIntegrate_InvalidatesCaches(t *testing.T) {
	rb := newFallingBody()
	before := rb.AABB()

	rb.Integrate(0.1, IntegrationParams{Gravity: mgl64.Vec3{0, -10, 0}})
	after := rb.AABB()

	assert.InDelta(t, before.Min.Y()-0.1, after.Min.Y(), 1e-12)
}

func TestIntegrate_RestTest(t *testing.T) {
	params := IntegrationParams{SleepThreshold: 0.01, SleepSmoothing: 0.2}

	resting := newFallingBody()
	steps := 0
	for !resting.IsSleeping && steps < 1000 {
		resting.Integrate(1.0/60.0, params)
		steps++
	}
	assert.True(t, resting.IsSleeping)
	assert.Greater(t, steps, 1, "a fresh body must not sleep on its first step")

	moving := newFallingBody()
	moving.Velocity = mgl64.Vec3{1, 0, 0}
	for i := 0; i < 200; i++ {
		moving.Integrate(1.0/60.0, params)
	}
	assert.False(t, moving.IsSleeping)

	disabled := newFallingBody()
	for i := 0; i < 200; i++ {
		disabled.Integrate(1.0/60.0, IntegrationParams{})
	}
	assert.False(t, disabled.IsSleeping)
}

func TestIntegrationScheme_Text(t *testing.T) {
	for scheme, name := range integrationSchemeNames {
		text, err := scheme.MarshalText()
		assert.NoError(t, err)
		assert.Equal(t, name, string(text))

		var parsed IntegrationScheme
		assert.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, scheme, parsed)
	}

	var s IntegrationScheme
	assert.Error(t, s.UnmarshalText([]byte("verlet")))
	_, err := IntegrationScheme(42).MarshalText()
	assert.Error(t, err)

	var cfg struct {
		Scheme IntegrationScheme `yaml:"scheme"`
	}
	assert.NoError(t, yaml.Unmarshal([]byte("scheme: rk4\n"), &cfg))
	assert.Equal(t, RK4, cfg.Scheme)
}
