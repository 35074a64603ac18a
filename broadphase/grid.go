package broadphase

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultCellSize = 2.0
	DefaultNumCells = 4096

	// maxCellsPerBody routes bodies covering more cells to the all-pairs list.
	maxCellsPerBody = 512
)

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - indices of the bodies inserted in a cell
type Cell struct {
	bodyIndices []int
}

// Grid is a uniform spatial hash grid. Bodies are inserted in every cell
// their box covers; cells are hashed into a fixed power-of-two table, so
// distant cells may collide and only produce false positives.
type Grid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	oversized []int
	seen      []bool
}

// NewGrid creates a grid; numCells is rounded up to a power of two.
func NewGrid(cellSize float64, numCells int) *Grid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &Grid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to the next power of two.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

func (g *Grid) clear() {
	for i := range g.cells {
		g.cells[i].bodyIndices = g.cells[i].bodyIndices[:0]
	}
	g.oversized = g.oversized[:0]
}

// cellRange returns the cells covered by aabb, or false when it covers too many.
func (g *Grid) cellRange(aabb actor.AABB) (CellKey, CellKey, bool) {
	if !isBounded(aabb) {
		return CellKey{}, CellKey{}, false
	}
	minCell := g.worldToCell(aabb.Min)
	maxCell := g.worldToCell(aabb.Max)
	count := (maxCell.X - minCell.X + 1) * (maxCell.Y - minCell.Y + 1) * (maxCell.Z - minCell.Z + 1)
	return minCell, maxCell, count <= maxCellsPerBody
}

func (g *Grid) insert(bodyIndex int, aabb actor.AABB) {
	minCell, maxCell, ok := g.cellRange(aabb)
	if !ok {
		g.oversized = append(g.oversized, bodyIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := g.hashCell(CellKey{x, y, z})
				cell := &g.cells[cellIdx]
				// A body spanning two cells hashed to the same slot is stored once.
				if n := len(cell.bodyIndices); n > 0 && cell.bodyIndices[n-1] == bodyIndex {
					continue
				}
				cell.bodyIndices = append(cell.bodyIndices, bodyIndex)
			}
		}
	}
}

func (g *Grid) FindPotentialCollisionPairs(bodies []*actor.RigidBody) []CollisionPair {
	g.clear()

	aabbs := make([]actor.AABB, len(bodies))
	for i, body := range bodies {
		if body.Shape == nil {
			continue
		}
		aabbs[i] = body.AABB()
		g.insert(i, aabbs[i])
	}

	if cap(g.seen) < len(bodies) {
		g.seen = make([]bool, len(bodies))
	}
	seen := g.seen[:len(bodies)]

	var pairs []CollisionPair
	for bodyIdx, bodyA := range bodies {
		minCell, maxCell, ok := g.cellRange(aabbs[bodyIdx])
		if bodyA.Shape == nil || !ok {
			continue
		}
		clear(seen)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					for _, otherIdx := range g.cells[g.hashCell(CellKey{x, y, z})].bodyIndices {
						// Deterministic order, each pair once.
						if otherIdx <= bodyIdx || seen[otherIdx] {
							continue
						}
						seen[otherIdx] = true

						bodyB := bodies[otherIdx]
						if canCollide(bodyA, bodyB) && aabbs[bodyIdx].Overlaps(aabbs[otherIdx]) {
							pairs = append(pairs, CollisionPair{BodyA: bodyA, BodyB: bodyB})
						}
					}
				}
			}
		}
	}

	// Oversized bodies are tested against everything.
	for k, bigIdx := range g.oversized {
		bodyA := bodies[bigIdx]
		for otherIdx, bodyB := range bodies {
			if bodyB.Shape == nil || otherIdx == bigIdx {
				continue
			}
			if g.isOversized(otherIdx, k) {
				continue
			}
			if canCollide(bodyA, bodyB) && aabbs[bigIdx].Overlaps(aabbs[otherIdx]) {
				pairs = append(pairs, CollisionPair{BodyA: bodyA, BodyB: bodyB})
			}
		}
	}

	return pairs
}

// isOversized reports whether bodyIdx is an oversized body already handled
// before position k, so two oversized bodies pair up once.
func (g *Grid) isOversized(bodyIdx, k int) bool {
	for _, idx := range g.oversized[:k+1] {
		if idx == bodyIdx {
			return true
		}
	}
	return false
}

// worldToCell converts a world position into cell coordinates
func (g *Grid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
		Z: int(math.Floor(pos.Z() / g.cellSize)),
	}
}

// hashCell maps a cell onto an index of the cell table
func (g *Grid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & g.cellMask
}
