package collision

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// clipTolerance keeps points lying on a plane, which makes clipping idempotent.
const clipTolerance = 1e-6

// ClipPolygon clips polygon against every half-space with Sutherland-Hodgman.
// With removeOnly, outside vertices are dropped instead of cut at the plane.
// A polygon of two vertices is treated as a segment and one vertex as a point.
func ClipPolygon(polygon []mgl64.Vec3, planes []actor.HalfSpace, removeOnly bool) []mgl64.Vec3 {
	output := append([]mgl64.Vec3(nil), polygon...)
	for _, plane := range planes {
		if len(output) == 0 {
			break
		}
		switch {
		case removeOnly:
			output = removeOutside(output, plane)
		case len(output) <= 2:
			output = clipSegment(output, plane)
		default:
			output = clipPolygonAgainstPlane(output, plane)
		}
	}
	return output
}

func inside(plane actor.HalfSpace, p mgl64.Vec3) bool {
	return plane.Distance(p) <= clipTolerance
}

func removeOutside(polygon []mgl64.Vec3, plane actor.HalfSpace) []mgl64.Vec3 {
	output := polygon[:0:0]
	for _, p := range polygon {
		if inside(plane, p) {
			output = append(output, p)
		}
	}
	return output
}

func clipSegment(points []mgl64.Vec3, plane actor.HalfSpace) []mgl64.Vec3 {
	if len(points) == 1 {
		return removeOutside(points, plane)
	}

	a, b := points[0], points[1]
	aIn, bIn := inside(plane, a), inside(plane, b)
	switch {
	case aIn && bIn:
		return points
	case aIn:
		return []mgl64.Vec3{a, lineIntersectPlane(a, b, plane)}
	case bIn:
		return []mgl64.Vec3{lineIntersectPlane(a, b, plane), b}
	}
	return nil
}

// clipPolygonAgainstPlane implements Sutherland-Hodgman for a single plane
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, plane actor.HalfSpace) []mgl64.Vec3 {
	var output []mgl64.Vec3
	for i := 0; i < len(polygon); i++ {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentIn, nextIn := inside(plane, current), inside(plane, next)
		if currentIn {
			output = append(output, current)
			// Next is outside → add intersection
			if !nextIn {
				output = append(output, lineIntersectPlane(current, next, plane))
			}
		} else if nextIn {
			// Current is outside, next is inside → add intersection
			output = append(output, lineIntersectPlane(current, next, plane))
		}
	}

	return output
}

// lineIntersectPlane calculates the intersection between a segment and the plane boundary
func lineIntersectPlane(p1, p2 mgl64.Vec3, plane actor.HalfSpace) mgl64.Vec3 {
	dir := p2.Sub(p1)
	denom := dir.Dot(plane.Normal)

	if math.Abs(denom) < 1e-10 {
		return p1 // Segment parallel to plane
	}

	t := -plane.Distance(p1) / denom
	t = math.Max(0, math.Min(1, t)) // Clamp to segment

	return p1.Add(dir.Mul(t))
}
