package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType tags a shape kind. Tags are distinct bits so a pair of shapes can
// be identified by OR-ing their tags.
type ShapeType uint8

const (
	ShapeTypeSphere ShapeType = 1 << iota
	ShapeTypeCuboid
	ShapeTypePyramid
	ShapeTypePlane

	// ShapeTypePolyhedra covers every hull-backed shape.
	ShapeTypePolyhedra = ShapeTypeCuboid | ShapeTypePyramid
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeCuboid:
		return "cuboid"
	case ShapeTypePyramid:
		return "pyramid"
	case ShapeTypePlane:
		return "plane"
	}
	var names []string
	for _, single := range []ShapeType{ShapeTypeSphere, ShapeTypeCuboid, ShapeTypePyramid, ShapeTypePlane} {
		if t&single != 0 {
			names = append(names, single.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	s := names[0]
	for _, n := range names[1:] {
		s += "|" + n
	}
	return s
}

// Projection is the extent of a shape along an axis, with the points
// realising the extremes.
type Projection struct {
	Min, Max           float64
	MinPoint, MaxPoint mgl64.Vec3
}

// Shape is the interface that all collision shapes must implement.
// Every query takes the owning body's transform; shapes carry no pose.
type Shape interface {
	Type() ShapeType
	// ComputeMass calculates mass for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	ComputeAABB(transform Transform) AABB
	BoundingRadius() float64
	// Axes returns the candidate separating axes (world face normals).
	Axes(transform Transform) []mgl64.Vec3
	Edges(transform Transform) []Segment
	// Project returns the shape's extent along a unit axis.
	Project(transform Transform, axis mgl64.Vec3) Projection
	// ReferencePolygon returns the face whose normal is most aligned with direction.
	ReferencePolygon(transform Transform, direction mgl64.Vec3) ReferencePolygon
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
}

func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

// ComputeMass calculates mass for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// Solid sphere: I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (s *Sphere) BoundingRadius() float64 {
	return s.Radius
}

// Axes is empty: a sphere contributes no face normals, its axis depends on the other shape.
func (s *Sphere) Axes(transform Transform) []mgl64.Vec3 {
	return nil
}

func (s *Sphere) Edges(transform Transform) []Segment {
	return nil
}

func (s *Sphere) Project(transform Transform, axis mgl64.Vec3) Projection {
	center := transform.Position.Dot(axis)
	return Projection{
		Min:      center - s.Radius,
		Max:      center + s.Radius,
		MinPoint: transform.Position.Sub(axis.Mul(s.Radius)),
		MaxPoint: transform.Position.Add(axis.Mul(s.Radius)),
	}
}

// ReferencePolygon of a sphere degenerates to the single surface point along direction.
func (s *Sphere) ReferencePolygon(transform Transform, direction mgl64.Vec3) ReferencePolygon {
	dir, ok := SafeNormalize(direction)
	if !ok {
		dir = mgl64.Vec3{0, 1, 0}
	}
	return ReferencePolygon{
		Vertices: []mgl64.Vec3{transform.Position.Add(dir.Mul(s.Radius))},
		Normal:   dir,
	}
}

// Plane represents an infinite static half-space.
// The plane is defined in local space by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized), pointing out
// of the solid side.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

const (
	planeExtent      = 1e10
	planePolygonSize = 1000.0
	parallelEpsilon  = 1e-9
)

func NewPlane(normal mgl64.Vec3, distance float64) *Plane {
	return &Plane{Normal: normal.Normalize(), Distance: distance}
}

func (p *Plane) Type() ShapeType { return ShapeTypePlane }

// WorldPlane returns the world normal and a point on the plane surface.
func (p *Plane) WorldPlane(transform Transform) (normal, point mgl64.Vec3) {
	normal = transform.DirectionToWorld(p.Normal)
	point = transform.PointToWorld(p.Normal.Mul(-p.Distance))
	return normal, point
}

func (p *Plane) ComputeAABB(transform Transform) AABB {
	normal, point := p.WorldPlane(transform)

	aabb := AABB{
		Min: mgl64.Vec3{-planeExtent, -planeExtent, -planeExtent},
		Max: mgl64.Vec3{planeExtent, planeExtent, planeExtent},
	}
	// Only an axis-aligned plane bounds its solid side along the dominant axis.
	for axis := 0; axis < 3; axis++ {
		if normal[axis] > 1-parallelEpsilon {
			aabb.Max[axis] = point[axis]
		} else if normal[axis] < -(1 - parallelEpsilon) {
			aabb.Min[axis] = point[axis]
		}
	}

	return aabb
}

// ComputeMass calculates mass for the plane
// Planes are always static with infinite mass
func (p *Plane) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

func (p *Plane) BoundingRadius() float64 {
	return math.Inf(1)
}

func (p *Plane) Axes(transform Transform) []mgl64.Vec3 {
	normal, _ := p.WorldPlane(transform)
	return []mgl64.Vec3{normal}
}

func (p *Plane) Edges(transform Transform) []Segment {
	return nil
}

// Project is bounded only along the plane normal; the solid side extends to infinity.
func (p *Plane) Project(transform Transform, axis mgl64.Vec3) Projection {
	normal, point := p.WorldPlane(transform)
	offset := point.Dot(axis)
	d := normal.Dot(axis)

	proj := Projection{Min: math.Inf(-1), Max: math.Inf(1), MinPoint: point, MaxPoint: point}
	if d > 1-parallelEpsilon {
		proj.Max = offset
	} else if d < -(1 - parallelEpsilon) {
		proj.Min = offset
	}
	return proj
}

// ReferencePolygon returns a large square on the plane surface. A plane has no
// neighbouring faces so Adjacent is empty.
func (p *Plane) ReferencePolygon(transform Transform, direction mgl64.Vec3) ReferencePolygon {
	normal, center := p.WorldPlane(transform)
	tangent1, tangent2 := TangentBasis(normal)

	return ReferencePolygon{
		Vertices: []mgl64.Vec3{
			center.Add(tangent1.Mul(-planePolygonSize)).Add(tangent2.Mul(-planePolygonSize)),
			center.Add(tangent1.Mul(planePolygonSize)).Add(tangent2.Mul(-planePolygonSize)),
			center.Add(tangent1.Mul(planePolygonSize)).Add(tangent2.Mul(planePolygonSize)),
			center.Add(tangent1.Mul(-planePolygonSize)).Add(tangent2.Mul(planePolygonSize)),
		},
		Normal: normal,
	}
}
