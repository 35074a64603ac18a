// Package impulse is a rigid-body physics world: it pulls bodies from a scene,
// finds and resolves their contacts with sequential impulses, and integrates
// their motion on a fixed timestep.
package impulse

import (
	"fmt"
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/broadphase"
	"github.com/akmonengine/impulse/collision"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/logging"
)

// Scene supplies the bodies to simulate. The world asks for them once per step
// and keeps no reference to the returned slice beyond that step.
type Scene interface {
	// ActiveBodies appends the bodies taking part in the step to dst.
	ActiveBodies(dst []*actor.RigidBody) []*actor.RigidBody
}

// Option customizes a World at construction.
type Option func(w *World)

func WithLogger(logger logging.Logger) Option {
	return func(w *World) { w.logger = logging.OrNop(logger) }
}

// WithJobSystem replaces the default worker pool used to integrate bodies.
func WithJobSystem(jobs JobSystem) Option {
	return func(w *World) { w.jobs = jobs }
}

// WithScene makes the world simulate the scene's bodies instead of its own.
func WithScene(scene Scene) Option {
	return func(w *World) { w.scene = scene }
}

type World struct {
	config Config
	logger logging.Logger
	jobs   JobSystem
	scene  Scene

	broadphase broadphase.BroadPhase
	detector   *collision.Detector

	bodies      arena[*actor.RigidBody]
	constraints arena[constraint.Constraint]

	Events Events

	// Per-step working set, rebuilt by every Step.
	active    []*actor.RigidBody
	pairs     []broadphase.CollisionPair
	manifolds []*constraint.Manifold

	accumulator   float64
	stepRequested bool
	steps         uint64
}

func NewWorld(config Config, options ...Option) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		config: config,
		logger: logging.NewNopLogger(),
		Events: NewEvents(),
	}
	for _, option := range options {
		option(w)
	}
	if w.jobs == nil {
		w.jobs = NewWorkerPool(config.Workers)
	}
	if w.scene == nil {
		w.scene = arenaScene{w}
	}
	w.broadphase = broadphase.New(config.Broadphase)
	w.detector = collision.NewDetector(w.logger)

	w.logger.Debugf("physics world: %s broadphase, %s integrator, dt=%v", config.Broadphase.Strategy, config.Integrator, config.FixedTimestep)
	return w, nil
}

func (w *World) Config() Config {
	return w.config
}

// arenaScene is the default scene: every body added to the world.
type arenaScene struct {
	w *World
}

func (s arenaScene) ActiveBodies(dst []*actor.RigidBody) []*actor.RigidBody {
	s.w.bodies.each(func(_ handle, body *actor.RigidBody) bool {
		dst = append(dst, body)
		return true
	})
	return dst
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) BodyHandle {
	return BodyHandle(w.bodies.insert(body))
}

// RemoveBody removes the body and every constraint attached to it.
func (w *World) RemoveBody(h BodyHandle) bool {
	body, ok := w.bodies.remove(handle(h))
	if !ok {
		return false
	}

	w.constraints.each(func(ch handle, c constraint.Constraint) bool {
		a, b := c.Bodies()
		if a == body || b == body {
			w.constraints.remove(ch)
		}
		return true
	})
	w.Events.forget(body)
	return true
}

func (w *World) Body(h BodyHandle) (*actor.RigidBody, bool) {
	return w.bodies.get(handle(h))
}

// MustBody panics on a stale or foreign handle.
func (w *World) MustBody(h BodyHandle) *actor.RigidBody {
	body, ok := w.Body(h)
	if !ok {
		panic(fmt.Sprintf("impulse: invalid body handle %+v", h))
	}
	return body
}

func (w *World) BodyCount() int {
	return w.bodies.len()
}

func (w *World) AddConstraint(c constraint.Constraint) ConstraintHandle {
	return ConstraintHandle(w.constraints.insert(c))
}

func (w *World) RemoveConstraint(h ConstraintHandle) bool {
	_, ok := w.constraints.remove(handle(h))
	return ok
}

func (w *World) Constraint(h ConstraintHandle) (constraint.Constraint, bool) {
	return w.constraints.get(handle(h))
}

func (w *World) ConstraintCount() int {
	return w.constraints.len()
}

// Manifolds returns the contacts solved by the last step.
func (w *World) Manifolds() []*constraint.Manifold {
	return w.manifolds
}

// StepCount is the number of steps simulated so far.
func (w *World) StepCount() uint64 {
	return w.steps
}

func (w *World) Paused() bool {
	return w.config.Paused
}

func (w *World) SetPaused(paused bool) {
	w.config.Paused = paused
	w.accumulator = 0
}

// RequestStep makes the next Update run exactly one step while paused.
func (w *World) RequestStep() {
	w.stepRequested = true
}

// Update advances the simulation by frameDt of wall-clock time using fixed
// steps, and returns the number of steps taken. Time beyond MaxSubSteps steps
// is dropped.
func (w *World) Update(frameDt float64) int {
	dt := w.config.FixedTimestep

	if w.config.Paused {
		if !w.stepRequested {
			return 0
		}
		w.stepRequested = false
		w.Step(dt)
		return 1
	}

	w.accumulator += frameDt
	steps := 0
	for w.accumulator >= dt && steps < w.config.MaxSubSteps {
		w.Step(dt)
		w.accumulator -= dt
		steps++
	}

	if w.accumulator >= dt {
		dropped := w.accumulator - math.Mod(w.accumulator, dt)
		w.logger.Warnf("physics: %d sub-steps could not catch up, dropping %.4fs of simulation", steps, dropped)
		w.accumulator -= dropped
	}
	return steps
}

// Step runs one simulation step of dt seconds.
func (w *World) Step(dt float64) {
	w.active = w.scene.ActiveBodies(w.active[:0])
	w.manifolds = w.manifolds[:0]

	// Phase 1: Collision pair finding - Broad phase
	w.pairs = w.broadphase.FindPotentialCollisionPairs(w.active)

	// Phase 2: Narrow phase, building this step's manifolds
	w.detectCollision()

	// Phase 3: Sequential impulses
	w.solve(dt)

	// Phase 4: Integration, one job per body group
	w.integrate(dt)

	w.steps++
	w.Events.processSleepEvents(w.active)
	w.Events.flush()
}

func (w *World) detectCollision() {
	for _, pair := range w.pairs {
		a, b := pair.BodyA, pair.BodyB

		if a.IsTrigger || b.IsTrigger {
			if hit, _ := w.detector.CheckCollision(a, b); hit {
				w.Events.recordContact(a, b)
			}
			continue
		}

		manifold, hit := w.detector.Collide(a, b, w.config.Solver)
		if !hit {
			continue
		}
		w.Events.recordContact(a, b)
		wakeTouched(a, b)
		wakeTouched(b, a)
		w.manifolds = append(w.manifolds, manifold)
	}
}

// wakeTouched wakes a sleeping body hit by an awake dynamic one.
func wakeTouched(sleeper, other *actor.RigidBody) {
	if sleeper.IsSleeping && other.IsActive() {
		sleeper.Wake()
	}
}

func (w *World) solve(dt float64) {
	for _, m := range w.manifolds {
		m.PreSolverStep(dt)
	}
	w.constraints.each(func(_ handle, c constraint.Constraint) bool {
		c.PreSolverStep(dt)
		return true
	})

	for n := 0; n < w.config.SolverIterations; n++ {
		for _, m := range w.manifolds {
			m.ApplyImpulse()
		}
		w.constraints.each(func(_ handle, c constraint.Constraint) bool {
			c.ApplyImpulse()
			return true
		})
	}
}

// integrate is the only parallel phase: each job writes to its own bodies.
func (w *World) integrate(dt float64) {
	params := w.config.integrationParams()
	bodies := w.active
	w.jobs.Dispatch(len(bodies), w.config.GroupSize, func(i int) {
		bodies[i].Integrate(dt, params)
	})
	w.jobs.Wait()
}
