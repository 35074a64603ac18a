package broadphase

import (
	"math"

	"github.com/akmonengine/impulse/actor"
)

const (
	DefaultMaxObjects = 8
	DefaultMaxDepth   = 6

	// unboundedExtent marks boxes too large to size the root node (planes).
	unboundedExtent = 1e9
)

// Octree splits space into octants until a node holds at most MaxObjects
// bodies or MaxDepth is reached, then runs Secondary inside every leaf.
// A body goes to every octant its box overlaps, so it may sit in several leaves.
type Octree struct {
	MaxObjects int
	MaxDepth   int
	Secondary  BroadPhase
}

func NewOctree(maxObjects, maxDepth int) *Octree {
	return &Octree{MaxObjects: maxObjects, MaxDepth: maxDepth, Secondary: BruteForce{}}
}

func (o *Octree) FindPotentialCollisionPairs(bodies []*actor.RigidBody) []CollisionPair {
	secondary := o.Secondary
	if secondary == nil {
		secondary = BruteForce{}
	}

	var pairs []CollisionPair
	seen := make(map[PairKey]struct{})
	for _, leaf := range o.Partition(bodies) {
		for _, pair := range secondary.FindPotentialCollisionPairs(leaf) {
			key := pair.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// Partition returns the body list of every non-empty leaf.
func (o *Octree) Partition(bodies []*actor.RigidBody) [][]*actor.RigidBody {
	items := make([]octreeItem, 0, len(bodies))
	root := actor.EmptyAABB()
	for _, body := range bodies {
		if body.Shape == nil {
			continue
		}
		aabb := body.AABB()
		items = append(items, octreeItem{body: body, aabb: aabb})
		if isBounded(aabb) {
			root = root.Union(aabb)
		}
	}
	if len(items) == 0 {
		return nil
	}

	var leaves [][]*actor.RigidBody
	if math.IsInf(root.Min[0], 1) {
		// Only unbounded bodies: nothing to split.
		return append(leaves, itemBodies(items))
	}

	o.subdivide(root, items, 0, &leaves)
	return leaves
}

type octreeItem struct {
	body *actor.RigidBody
	aabb actor.AABB
}

func (o *Octree) subdivide(box actor.AABB, items []octreeItem, depth int, leaves *[][]*actor.RigidBody) {
	if len(items) == 0 {
		return
	}
	if len(items) <= max(o.MaxObjects, 1) || depth >= o.MaxDepth {
		*leaves = append(*leaves, itemBodies(items))
		return
	}

	var children [8][]octreeItem
	progress := false
	for i := range children {
		octant := box.Octant(i)
		for _, item := range items {
			if octant.Overlaps(item.aabb) {
				children[i] = append(children[i], item)
			}
		}
		if len(children[i]) < len(items) {
			progress = true
		}
	}

	// Every octant got every body: splitting further cannot separate them.
	if !progress {
		*leaves = append(*leaves, itemBodies(items))
		return
	}

	for i := range children {
		o.subdivide(box.Octant(i), children[i], depth+1, leaves)
	}
}

func itemBodies(items []octreeItem) []*actor.RigidBody {
	bodies := make([]*actor.RigidBody, len(items))
	for i, item := range items {
		bodies[i] = item.body
	}
	return bodies
}

func isBounded(aabb actor.AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if aabb.Min[axis] < -unboundedExtent || aabb.Max[axis] > unboundedExtent {
			return false
		}
	}
	return true
}
