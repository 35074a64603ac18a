package actor

import "github.com/go-gl/mathgl/mgl64"

// KinematicState is everything that evolves while a body is simulated.
// Restoring it reproduces the body's subsequent steps exactly.
type KinematicState struct {
	Position        mgl64.Vec3 `yaml:"position"`
	Orientation     mgl64.Quat `yaml:"orientation"`
	Velocity        mgl64.Vec3 `yaml:"velocity"`
	AngularVelocity mgl64.Vec3 `yaml:"angularVelocity"`
	Force           mgl64.Vec3 `yaml:"force"`
	Torque          mgl64.Vec3 `yaml:"torque"`
	Sleeping        bool       `yaml:"sleeping"`
	RestEstimate    float64    `yaml:"restEstimate"`
}

func (rb *RigidBody) CaptureState() KinematicState {
	return KinematicState{
		Position:        rb.transform.Position,
		Orientation:     rb.transform.Rotation,
		Velocity:        rb.Velocity,
		AngularVelocity: rb.AngularVelocity,
		Force:           rb.force,
		Torque:          rb.torque,
		Sleeping:        rb.IsSleeping,
		RestEstimate:    rb.restEstimate,
	}
}

// RestoreState overwrites the body's state verbatim; the orientation is not renormalized.
func (rb *RigidBody) RestoreState(state KinematicState) {
	rb.transform.Position = state.Position
	rb.transform.Rotation = state.Orientation
	rb.Velocity = state.Velocity
	rb.AngularVelocity = state.AngularVelocity
	rb.force = state.Force
	rb.torque = state.Torque
	rb.IsSleeping = state.Sleeping
	rb.restEstimate = state.RestEstimate
	rb.touchPose()
}
