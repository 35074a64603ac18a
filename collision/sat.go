package collision

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// parallelEpsilon: axes whose |dot| is at least 1-parallelEpsilon are the same axis.
	parallelEpsilon = 1e-6
	// degenerateCross skips cross products of nearly parallel edges, relative to the edge lengths.
	degenerateCross = 1e-12
)

// CollisionData is the result of the separating axis test.
// Normal points from A to B; Penetration is <= 0 when the shapes overlap;
// PointOnPlane lies on A's surface, and PointOnPlane + Normal*Penetration on B's.
type CollisionData struct {
	Normal       mgl64.Vec3
	Penetration  float64
	PointOnPlane mgl64.Vec3
}

// flip returns the same contact seen from the other body.
func (d CollisionData) flip() CollisionData {
	return CollisionData{
		Normal:       d.Normal.Mul(-1),
		Penetration:  d.Penetration,
		PointOnPlane: d.PointOnPlane.Add(d.Normal.Mul(d.Penetration)),
	}
}

// body bundles what the axis tests read from a rigid body.
type body struct {
	shape     actor.Shape
	transform actor.Transform
}

func bodyOf(rb *actor.RigidBody) body {
	return body{shape: rb.Shape, transform: rb.Transform()}
}

// testAxis projects both shapes on a unit axis. It reports false when the
// projections are disjoint.
func testAxis(a, b body, axis mgl64.Vec3) (CollisionData, bool) {
	pa := a.shape.Project(a.transform, axis)
	pb := b.shape.Project(b.transform, axis)

	d1 := pa.Max - pb.Min // B on the positive side of A
	d2 := pb.Max - pa.Min // B on the negative side of A
	if d1 < 0 || d2 < 0 {
		return CollisionData{}, false
	}

	if d1 <= d2 {
		return CollisionData{
			Normal:       axis,
			Penetration:  -d1,
			PointOnPlane: pb.MinPoint.Add(axis.Mul(d1)),
		}, true
	}

	normal := axis.Mul(-1)
	return CollisionData{
		Normal:       normal,
		Penetration:  -d2,
		PointOnPlane: pb.MaxPoint.Add(normal.Mul(d2)),
	}, true
}

// testAxes keeps the axis of least overlap. Every axis must overlap.
func testAxes(a, b body, axes []mgl64.Vec3) (CollisionData, bool) {
	best := CollisionData{Penetration: math.Inf(-1)}
	found := false
	for _, axis := range axes {
		data, ok := testAxis(a, b, axis)
		if !ok {
			return CollisionData{}, false
		}
		if !found || data.Penetration > best.Penetration {
			best = data
			found = true
		}
	}
	return best, found
}

// axisSet accumulates unit axes, dropping duplicates and opposites.
type axisSet []mgl64.Vec3

func (s *axisSet) add(axis mgl64.Vec3) {
	for _, existing := range *s {
		if math.Abs(existing.Dot(axis)) >= 1-parallelEpsilon {
			return
		}
	}
	*s = append(*s, axis)
}

func edgeDirections(edges []actor.Segment) axisSet {
	var dirs axisSet
	for _, e := range edges {
		if dir, ok := actor.SafeNormalize(e.Direction()); ok {
			dirs.add(dir)
		}
	}
	return dirs
}

func polyhedronPolyhedron(a, b body) (CollisionData, bool) {
	var axes axisSet
	for _, axis := range a.shape.Axes(a.transform) {
		axes.add(axis)
	}
	for _, axis := range b.shape.Axes(b.transform) {
		axes.add(axis)
	}

	dirsA := edgeDirections(a.shape.Edges(a.transform))
	dirsB := edgeDirections(b.shape.Edges(b.transform))
	for _, ea := range dirsA {
		for _, eb := range dirsB {
			cross := ea.Cross(eb)
			if cross.LenSqr() < degenerateCross {
				continue
			}
			axes.add(cross.Normalize())
		}
	}

	return testAxes(a, b, axes)
}

// polyhedronSphere tests the face normals plus the axis from the sphere center
// to the closest point of the polyhedron's edges.
func polyhedronSphere(poly, sphere body) (CollisionData, bool) {
	var axes axisSet
	for _, axis := range poly.shape.Axes(poly.transform) {
		axes.add(axis)
	}

	center := sphere.transform.Position
	closest, bestDist := mgl64.Vec3{}, math.Inf(1)
	for _, edge := range poly.shape.Edges(poly.transform) {
		p := edge.ClosestPoint(center)
		if d := p.Sub(center).LenSqr(); d < bestDist {
			closest, bestDist = p, d
		}
	}
	if axis, ok := actor.SafeNormalize(center.Sub(closest)); ok && !math.IsInf(bestDist, 1) {
		axes.add(axis)
	}

	return testAxes(poly, sphere, axes)
}

func sphereSphere(a, b body) (CollisionData, bool) {
	axis, ok := actor.SafeNormalize(b.transform.Position.Sub(a.transform.Position))
	if !ok {
		axis = mgl64.Vec3{0, 1, 0}
	}
	return testAxis(a, b, axis)
}

// planeShape tests the plane normal only.
func planeShape(plane, other body) (CollisionData, bool) {
	return testAxes(plane, other, plane.shape.Axes(plane.transform))
}
