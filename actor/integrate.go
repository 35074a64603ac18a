package actor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// IntegrationScheme selects how translational motion is advanced.
type IntegrationScheme int

const (
	SemiImplicitEuler IntegrationScheme = iota
	ExplicitEuler
	RK2
	RK4
)

var integrationSchemeNames = map[IntegrationScheme]string{
	SemiImplicitEuler: "semi-implicit-euler",
	ExplicitEuler:     "explicit-euler",
	RK2:               "rk2",
	RK4:               "rk4",
}

func (s IntegrationScheme) String() string {
	if name, ok := integrationSchemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("IntegrationScheme(%d)", int(s))
}

func (s IntegrationScheme) MarshalText() ([]byte, error) {
	name, ok := integrationSchemeNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown integration scheme %d", int(s))
	}
	return []byte(name), nil
}

func (s *IntegrationScheme) UnmarshalText(text []byte) error {
	for scheme, name := range integrationSchemeNames {
		if name == string(text) {
			*s = scheme
			return nil
		}
	}
	return fmt.Errorf("unknown integration scheme %q", text)
}

// IntegrationParams carries the world settings the integrator needs.
type IntegrationParams struct {
	Gravity mgl64.Vec3
	Scheme  IntegrationScheme
	Damping float64
	// SleepThreshold is the smoothed speed² under which a body goes to sleep.
	SleepThreshold float64
	// SleepSmoothing is the EMA weight of the newest sample, in (0, 1].
	SleepSmoothing float64
}

type linearState struct {
	position mgl64.Vec3
	velocity mgl64.Vec3
}

type linearDerivative struct {
	velocity     mgl64.Vec3
	acceleration mgl64.Vec3
}

// evaluate returns the derivative at initial advanced by d over dt.
// Acceleration is constant over a step.
func evaluate(initial linearState, acceleration mgl64.Vec3, dt float64, d linearDerivative) linearDerivative {
	return linearDerivative{
		velocity:     initial.velocity.Add(d.acceleration.Mul(dt)),
		acceleration: acceleration,
	}
}

func integrateLinear(scheme IntegrationScheme, s linearState, acceleration mgl64.Vec3, dt float64) linearState {
	switch scheme {
	case ExplicitEuler:
		s.position = s.position.Add(s.velocity.Mul(dt))
		s.velocity = s.velocity.Add(acceleration.Mul(dt))
	case RK2:
		k1 := evaluate(s, acceleration, 0, linearDerivative{})
		k2 := evaluate(s, acceleration, dt*0.5, k1)
		s.position = s.position.Add(k2.velocity.Mul(dt))
		s.velocity = s.velocity.Add(k2.acceleration.Mul(dt))
	case RK4:
		k1 := evaluate(s, acceleration, 0, linearDerivative{})
		k2 := evaluate(s, acceleration, dt*0.5, k1)
		k3 := evaluate(s, acceleration, dt*0.5, k2)
		k4 := evaluate(s, acceleration, dt, k3)

		dPos := k1.velocity.Add(k2.velocity.Add(k3.velocity).Mul(2)).Add(k4.velocity).Mul(1.0 / 6.0)
		dVel := k1.acceleration.Add(k2.acceleration.Add(k3.acceleration).Mul(2)).Add(k4.acceleration).Mul(1.0 / 6.0)
		s.position = s.position.Add(dPos.Mul(dt))
		s.velocity = s.velocity.Add(dVel.Mul(dt))
	default:
		s.velocity = s.velocity.Add(acceleration.Mul(dt))
		s.position = s.position.Add(s.velocity.Mul(dt))
	}
	return s
}

// Integrate advances an awake dynamic body by dt, then runs the rest test.
// It writes only to rb, so bodies may be integrated concurrently.
func (rb *RigidBody) Integrate(dt float64, params IntegrationParams) {
	if !rb.IsActive() {
		return
	}

	rb.Velocity = rb.Velocity.Add(params.Gravity.Mul(dt))

	state := integrateLinear(params.Scheme, linearState{
		position: rb.transform.Position,
		velocity: rb.Velocity,
	}, rb.force.Mul(rb.invMass), dt)

	angularAccel := rb.InverseInertiaWorld().Mul3x1(rb.torque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))

	damping := math.Exp(-params.Damping * dt)
	rb.Velocity = state.velocity.Mul(damping)
	rb.AngularVelocity = rb.AngularVelocity.Mul(damping)

	// q += 0.5 * (ω ⊗ q) * dt, ω in world space
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.transform.Rotation).Scale(0.5)
	rb.transform.Rotation = rb.transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.transform.Position = state.position

	rb.appliedForce = rb.force
	rb.ClearForces()
	rb.touchPose()

	rb.updateRest(params.SleepThreshold, params.SleepSmoothing)
}

func (rb *RigidBody) updateRest(threshold, smoothing float64) {
	if threshold <= 0 {
		return
	}
	sample := rb.Velocity.LenSqr() + rb.AngularVelocity.LenSqr()
	rb.restEstimate = smoothing*sample + (1-smoothing)*rb.restEstimate
	if rb.restEstimate < threshold {
		rb.Sleep()
	}
}
