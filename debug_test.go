package impulse

import (
	"testing"

	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	lines  map[mgl64.Vec4]int
	points map[mgl64.Vec4]int
}

func newRecorder() *recorder {
	return &recorder{lines: make(map[mgl64.Vec4]int), points: make(map[mgl64.Vec4]int)}
}

func (r *recorder) DrawLine(from, to mgl64.Vec3, color mgl64.Vec4) { r.lines[color]++ }

func (r *recorder) DrawPoint(position mgl64.Vec3, size float64, color mgl64.Vec4) {
	r.points[color]++
}

func (r *recorder) total() int {
	n := 0
	for _, c := range r.lines {
		n += c
	}
	for _, c := range r.points {
		n += c
	}
	return n
}

func TestWorld_DebugDraw(t *testing.T) {
	w := newTestWorld(t, nil)
	w.AddBody(groundBody())
	box := boxAt(mgl64.Vec3{0, 0.95, 0}, mgl64.Vec3{1, 1, 1})
	w.AddBody(box)
	other := boxAt(mgl64.Vec3{5, 0.95, 0}, mgl64.Vec3{1, 1, 1})
	w.AddBody(other)
	w.AddConstraint(constraint.NewDistance(box, other, box.Position(), other.Position()))
	other.AddForce(mgl64.Vec3{1, 0, 0})
	stepN(w, 1)

	contacts := 0
	for _, m := range w.Manifolds() {
		contacts += len(m.Contacts)
	}

	tests := []struct {
		name  string
		flags debugdraw.Flags
		check func(t *testing.T, r *recorder)
	}{
		{"none", debugdraw.None, func(t *testing.T, r *recorder) {
			assert.Equal(t, 0, r.total())
		}},
		{"aabb", debugdraw.AABB, func(t *testing.T, r *recorder) {
			assert.Equal(t, 24, r.lines[debugdraw.ColorAABBAwake], "two boxes, the plane is skipped")
		}},
		{"bounding radius", debugdraw.BoundingRadius, func(t *testing.T, r *recorder) {
			assert.Equal(t, 2*3*circleSegments, r.lines[debugdraw.ColorRadius])
		}},
		{"manifold", debugdraw.Manifold, func(t *testing.T, r *recorder) {
			assert.Equal(t, 2*4, contacts, "both boxes rest on four corners")
			assert.Equal(t, contacts, r.points[debugdraw.ColorContactA])
			assert.Equal(t, contacts, r.points[debugdraw.ColorContactB])
		}},
		{"normals", debugdraw.CollisionNormals, func(t *testing.T, r *recorder) {
			assert.Equal(t, contacts, r.lines[debugdraw.ColorNormal])
		}},
		{"pairs", debugdraw.BroadphasePairs, func(t *testing.T, r *recorder) {
			assert.Equal(t, len(w.pairs), r.lines[debugdraw.ColorPair])
			assert.GreaterOrEqual(t, len(w.pairs), 2)
		}},
		{"constraint", debugdraw.Constraint, func(t *testing.T, r *recorder) {
			assert.Equal(t, 1, r.lines[debugdraw.ColorConstraint])
		}},
		{"velocity", debugdraw.LinearVelocity, func(t *testing.T, r *recorder) {
			assert.Equal(t, 2, r.lines[debugdraw.ColorVelocity])
		}},
		{"force", debugdraw.LinearForce, func(t *testing.T, r *recorder) {
			assert.Equal(t, 1, r.lines[debugdraw.ColorForce])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.SetDebugFlags(tt.flags)
			assert.Equal(t, tt.flags, w.DebugFlags())
			r := newRecorder()
			w.DebugDraw(r)
			tt.check(t, r)
		})
	}
}

func TestWorld_DebugDrawShowsForceAppliedLastStep(t *testing.T) {
	w := newTestWorld(t, nil)
	body := sphereAt(mgl64.Vec3{0, 10, 0}, 0.5)
	w.AddBody(body)
	w.SetDebugFlags(debugdraw.LinearForce)

	for i := 0; i < 10; i++ {
		body.AddForce(mgl64.Vec3{10, 0, 0})
		stepN(w, 1)
	}

	assert.Equal(t, mgl64.Vec3{}, body.Force(), "pending forces are consumed")
	assert.Equal(t, mgl64.Vec3{10, 0, 0}, body.AppliedForce())
	assert.Greater(t, body.Velocity.X(), 0.0)

	r := newRecorder()
	w.DebugDraw(r)
	assert.Equal(t, 1, r.lines[debugdraw.ColorForce])

	stepN(w, 1)
	r = newRecorder()
	w.DebugDraw(r)
	assert.Equal(t, 0, r.lines[debugdraw.ColorForce], "no force was added for this step")
}
