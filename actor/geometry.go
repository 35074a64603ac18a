package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HalfSpace is the set of points p with Normal·p <= Offset.
type HalfSpace struct {
	Normal mgl64.Vec3
	Offset float64
}

func NewHalfSpace(normal, pointOnPlane mgl64.Vec3) HalfSpace {
	return HalfSpace{Normal: normal, Offset: normal.Dot(pointOnPlane)}
}

// Distance is the signed distance of p to the boundary, positive outside.
func (h HalfSpace) Distance(p mgl64.Vec3) float64 {
	return h.Normal.Dot(p) - h.Offset
}

// Segment is a boundary edge in world space.
type Segment struct {
	A, B mgl64.Vec3
}

func (s Segment) Direction() mgl64.Vec3 {
	return s.B.Sub(s.A)
}

// ClosestPoint returns the point of the segment closest to p.
func (s Segment) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	ab := s.B.Sub(s.A)
	lenSqr := ab.LenSqr()
	if lenSqr < 1e-12 {
		return s.A
	}
	t := p.Sub(s.A).Dot(ab) / lenSqr
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(ab.Mul(t))
}

// ReferencePolygon is a face of a shape expressed in world space: its vertex
// loop, its outward normal, and the half-spaces of the faces around it.
type ReferencePolygon struct {
	Vertices []mgl64.Vec3
	Normal   mgl64.Vec3
	Adjacent []HalfSpace
}

// Plane returns the half-space bounded by the polygon's own face.
func (p ReferencePolygon) Plane() HalfSpace {
	if len(p.Vertices) == 0 {
		return HalfSpace{Normal: p.Normal}
	}
	return NewHalfSpace(p.Normal, p.Vertices[0])
}

// TangentBasis returns two unit vectors orthogonal to normal and to each other.
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	tangent1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

// SafeNormalize returns v normalized and true, or the zero vector and false
// when v is too short to carry a direction.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}
