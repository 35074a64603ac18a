package broadphase

import (
	"sort"

	"github.com/akmonengine/impulse/actor"
)

// SortAndSweep sorts bodies along one axis by the minimum of their box and
// sweeps forward while intervals still overlap.
type SortAndSweep struct {
	Axis int
}

type sweepEntry struct {
	body *actor.RigidBody
	aabb actor.AABB
}

func (s SortAndSweep) FindPotentialCollisionPairs(bodies []*actor.RigidBody) []CollisionPair {
	axis := s.Axis
	if axis < 0 || axis > 2 {
		axis = 0
	}

	entries := make([]sweepEntry, 0, len(bodies))
	for _, body := range bodies {
		if body.Shape == nil {
			continue
		}
		entries = append(entries, sweepEntry{body: body, aabb: body.AABB()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].aabb.Min[axis] < entries[j].aabb.Min[axis]
	})

	var pairs []CollisionPair
	for i := range entries {
		current := entries[i]
		for j := i + 1; j < len(entries); j++ {
			candidate := entries[j]
			if candidate.aabb.Min[axis] > current.aabb.Max[axis] {
				break
			}
			if !canCollide(current.body, candidate.body) {
				continue
			}
			if current.aabb.Overlaps(candidate.aabb) {
				pairs = append(pairs, CollisionPair{BodyA: current.body, BodyB: candidate.body})
			}
		}
	}
	return pairs
}
