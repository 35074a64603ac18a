package broadphase

import "github.com/akmonengine/impulse/actor"

// BruteForce tests every pair of bodies.
type BruteForce struct{}

func (BruteForce) FindPotentialCollisionPairs(bodies []*actor.RigidBody) []CollisionPair {
	var pairs []CollisionPair
	for i := 0; i < len(bodies); i++ {
		bodyA := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			bodyB := bodies[j]
			if !canCollide(bodyA, bodyB) {
				continue
			}
			if bodyA.AABB().Overlaps(bodyB.AABB()) {
				pairs = append(pairs, CollisionPair{BodyA: bodyA, BodyB: bodyB})
			}
		}
	}
	return pairs
}
