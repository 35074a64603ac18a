package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// polyhedron is the hull-backed part shared by Cuboid and Pyramid. The hull is
// unit-sized and shared; the scaled vertices and face normals are per shape.
type polyhedron struct {
	hull     *Hull
	vertices []mgl64.Vec3
	normals  []mgl64.Vec3
	radius   float64
}

func newPolyhedron(hull *Hull, scale mgl64.Vec3) polyhedron {
	p := polyhedron{
		hull:     hull,
		vertices: make([]mgl64.Vec3, len(hull.Vertices)),
		normals:  make([]mgl64.Vec3, len(hull.Faces)),
	}
	for i, v := range hull.Vertices {
		p.vertices[i] = mgl64.Vec3{v[0] * scale[0], v[1] * scale[1], v[2] * scale[2]}
		p.radius = math.Max(p.radius, p.vertices[i].Len())
	}
	// Normals transform by the inverse scale.
	for i, f := range hull.Faces {
		n := mgl64.Vec3{f.Normal[0] / scale[0], f.Normal[1] / scale[1], f.Normal[2] / scale[2]}
		p.normals[i] = n.Normalize()
	}
	return p
}

func (p *polyhedron) BoundingRadius() float64 {
	return p.radius
}

// WorldVertices returns every hull vertex in world space.
func (p *polyhedron) WorldVertices(transform Transform) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = transform.PointToWorld(v)
	}
	return out
}

func (p *polyhedron) ComputeAABB(transform Transform) AABB {
	aabb := EmptyAABB()
	for _, v := range p.vertices {
		aabb = aabb.Expand(transform.PointToWorld(v))
	}
	return aabb
}

func (p *polyhedron) Axes(transform Transform) []mgl64.Vec3 {
	axes := make([]mgl64.Vec3, len(p.normals))
	for i, n := range p.normals {
		axes[i] = transform.DirectionToWorld(n)
	}
	return axes
}

func (p *polyhedron) Edges(transform Transform) []Segment {
	edges := make([]Segment, len(p.hull.Edges))
	for i, e := range p.hull.Edges {
		edges[i] = Segment{
			A: transform.PointToWorld(p.vertices[e.A]),
			B: transform.PointToWorld(p.vertices[e.B]),
		}
	}
	return edges
}

func (p *polyhedron) Project(transform Transform, axis mgl64.Vec3) Projection {
	local := transform.DirectionToLocal(axis)
	offset := transform.Position.Dot(axis)

	minIdx, maxIdx := 0, 0
	minDot, maxDot := math.Inf(1), math.Inf(-1)
	for i, v := range p.vertices {
		d := v.Dot(local)
		if d < minDot {
			minDot, minIdx = d, i
		}
		if d > maxDot {
			maxDot, maxIdx = d, i
		}
	}

	return Projection{
		Min:      minDot + offset,
		Max:      maxDot + offset,
		MinPoint: transform.PointToWorld(p.vertices[minIdx]),
		MaxPoint: transform.PointToWorld(p.vertices[maxIdx]),
	}
}

// Support returns the world vertex farthest along direction.
func (p *polyhedron) Support(transform Transform, direction mgl64.Vec3) mgl64.Vec3 {
	return p.Project(transform, direction).MaxPoint
}

func (p *polyhedron) ReferencePolygon(transform Transform, direction mgl64.Vec3) ReferencePolygon {
	local := transform.DirectionToLocal(direction)

	best, bestDot := 0, math.Inf(-1)
	for i, n := range p.normals {
		if d := n.Dot(local); d > bestDot {
			best, bestDot = i, d
		}
	}

	face := p.hull.Faces[best]
	poly := ReferencePolygon{
		Vertices: make([]mgl64.Vec3, len(face.Vertices)),
		Normal:   transform.DirectionToWorld(p.normals[best]),
		Adjacent: make([]HalfSpace, 0, len(face.Adjacent)),
	}
	for i, idx := range face.Vertices {
		poly.Vertices[i] = transform.PointToWorld(p.vertices[idx])
	}
	for _, adj := range face.Adjacent {
		if adj < 0 {
			continue
		}
		anchor := p.vertices[p.hull.Faces[adj].Vertices[0]]
		poly.Adjacent = append(poly.Adjacent, NewHalfSpace(
			transform.DirectionToWorld(p.normals[adj]),
			transform.PointToWorld(anchor),
		))
	}
	return poly
}

// Cuboid represents a box collision shape
type Cuboid struct {
	polyhedron
	HalfExtents mgl64.Vec3 // Half-size in each dimension (width/2, height/2, depth/2)
}

// NewCuboid builds a box sharing the registry's cube hull.
func NewCuboid(registry *HullRegistry, halfExtents mgl64.Vec3) *Cuboid {
	return &Cuboid{
		polyhedron:  newPolyhedron(registry.MustHull(ShapeTypeCuboid), halfExtents),
		HalfExtents: halfExtents,
	}
}

func (c *Cuboid) Type() ShapeType { return ShapeTypeCuboid }

// ComputeMass calculates mass for the box
func (c *Cuboid) ComputeMass(density float64) float64 {
	// Volume of box = width * height * depth = (2*hx) * (2*hy) * (2*hz)
	volume := 8.0 * c.HalfExtents.X() * c.HalfExtents.Y() * c.HalfExtents.Z()

	return density * volume
}

func (c *Cuboid) ComputeInertia(mass float64) mgl64.Mat3 {
	// Full dimensions
	w := 2.0 * c.HalfExtents.X()
	h := 2.0 * c.HalfExtents.Y()
	d := 2.0 * c.HalfExtents.Z()

	// I = (1/12) * m * (a² + b²)
	factor := mass / 12.0
	return mgl64.Diag3(mgl64.Vec3{
		factor * (h*h + d*d),
		factor * (w*w + d*d),
		factor * (w*w + h*h),
	})
}

// Pyramid is a square-based pyramid. HalfExtents.Y is half the height; the
// base sits at -Y and the apex at +Y, both relative to the box center.
type Pyramid struct {
	polyhedron
	HalfExtents mgl64.Vec3
}

func NewPyramid(registry *HullRegistry, halfExtents mgl64.Vec3) *Pyramid {
	return &Pyramid{
		polyhedron:  newPolyhedron(registry.MustHull(ShapeTypePyramid), halfExtents),
		HalfExtents: halfExtents,
	}
}

func (p *Pyramid) Type() ShapeType { return ShapeTypePyramid }

func (p *Pyramid) ComputeMass(density float64) float64 {
	// V = (1/3) * base area * height
	base := 4.0 * p.HalfExtents.X() * p.HalfExtents.Z()
	height := 2.0 * p.HalfExtents.Y()

	return density * base * height / 3.0
}

// ComputeInertia returns the solid square pyramid moments about the box center,
// which is the body's center of mass. The centroid sits h/4 below it, so the
// horizontal axes pick up m*(h/4)^2 over the centroidal 3h^2/80.
func (p *Pyramid) ComputeInertia(mass float64) mgl64.Mat3 {
	a := 2.0 * p.HalfExtents.X()
	b := 2.0 * p.HalfExtents.Z()
	h := 2.0 * p.HalfExtents.Y()

	return mgl64.Diag3(mgl64.Vec3{
		mass * (b*b/20.0 + h*h/10.0),
		mass * (a*a + b*b) / 20.0,
		mass * (a*a/20.0 + h*h/10.0),
	})
}
