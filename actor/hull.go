package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Face of a convex hull. Vertices are ordered counter-clockwise seen from
// outside; Adjacent[i] is the face across the edge Vertices[i] -> Vertices[i+1].
type Face struct {
	Vertices []int
	Normal   mgl64.Vec3
	Adjacent []int
}

type Edge struct {
	A, B int
}

// Hull is the topology and unit-size geometry of a convex polyhedron.
// It is built once and never mutated, so any number of shapes and goroutines
// may read it.
type Hull struct {
	Vertices    []mgl64.Vec3
	VertexFaces [][]int
	Edges       []Edge
	Faces       []Face
}

// NewHull builds a hull from vertex positions and face index loops. Face
// winding is corrected so normals point away from the vertex centroid.
func NewHull(vertices []mgl64.Vec3, faces [][]int) *Hull {
	h := &Hull{
		Vertices:    append([]mgl64.Vec3(nil), vertices...),
		VertexFaces: make([][]int, len(vertices)),
	}

	var centroid mgl64.Vec3
	for _, v := range vertices {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1 / float64(len(vertices)))

	seen := make(map[Edge]bool)
	for fi, loop := range faces {
		loop = append([]int(nil), loop...)
		v0, v1, v2 := vertices[loop[0]], vertices[loop[1]], vertices[loop[2]]
		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		var faceCenter mgl64.Vec3
		for _, idx := range loop {
			faceCenter = faceCenter.Add(vertices[idx])
		}
		faceCenter = faceCenter.Mul(1 / float64(len(loop)))
		if normal.Dot(faceCenter.Sub(centroid)) < 0 {
			normal = normal.Mul(-1)
			for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
				loop[i], loop[j] = loop[j], loop[i]
			}
		}

		h.Faces = append(h.Faces, Face{Vertices: loop, Normal: normal})
		for i, idx := range loop {
			h.VertexFaces[idx] = append(h.VertexFaces[idx], fi)

			next := loop[(i+1)%len(loop)]
			key := Edge{A: min(idx, next), B: max(idx, next)}
			if !seen[key] {
				seen[key] = true
				h.Edges = append(h.Edges, key)
			}
		}
	}

	for fi := range h.Faces {
		face := &h.Faces[fi]
		face.Adjacent = make([]int, len(face.Vertices))
		for i, a := range face.Vertices {
			b := face.Vertices[(i+1)%len(face.Vertices)]
			face.Adjacent[i] = h.faceSharing(fi, a, b)
		}
	}

	return h
}

// faceSharing returns the face other than exclude that contains both vertices.
func (h *Hull) faceSharing(exclude, a, b int) int {
	for _, fa := range h.VertexFaces[a] {
		if fa == exclude {
			continue
		}
		for _, fb := range h.VertexFaces[b] {
			if fa == fb {
				return fa
			}
		}
	}
	return -1
}

func unitCubeHull() *Hull {
	vertices := []mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
	}
	return NewHull(vertices, faces)
}

// unitPyramidHull has a square base at y = -1 and its apex at y = +1.
func unitPyramidHull() *Hull {
	vertices := []mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1},
		{0, 1, 0},
	}
	faces := [][]int{
		{0, 1, 2, 3},
		{0, 4, 1},
		{1, 4, 2},
		{2, 4, 3},
		{3, 4, 0},
	}
	return NewHull(vertices, faces)
}

// HullRegistry holds one shared hull per polyhedral shape type. Build it once
// at startup and hand it to the shape constructors.
type HullRegistry struct {
	hulls map[ShapeType]*Hull
}

func NewHullRegistry() *HullRegistry {
	return &HullRegistry{
		hulls: map[ShapeType]*Hull{
			ShapeTypeCuboid:  unitCubeHull(),
			ShapeTypePyramid: unitPyramidHull(),
		},
	}
}

func (r *HullRegistry) Hull(shapeType ShapeType) (*Hull, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.hulls[shapeType]
	return h, ok
}

// MustHull panics when the registry has no hull for shapeType.
func (r *HullRegistry) MustHull(shapeType ShapeType) *Hull {
	h, ok := r.Hull(shapeType)
	if !ok {
		panic(fmt.Sprintf("actor: no hull registered for shape type %s", shapeType))
	}
	return h
}
