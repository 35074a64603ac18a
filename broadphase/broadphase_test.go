package broadphase

import (
	"math/rand"
	"testing"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSphere(position mgl64.Vec3, radius float64, bodyType actor.BodyType) *actor.RigidBody {
	transform := actor.NewTransform()
	transform.Position = position
	return actor.NewRigidBody(transform, actor.NewSphere(radius), bodyType, 1)
}

func newGround() *actor.RigidBody {
	return actor.NewRigidBody(actor.NewTransform(), actor.NewPlane(mgl64.Vec3{0, 1, 0}, 0), actor.BodyTypeStatic, 0)
}

// randomScene scatters spheres over a 40m cube, some of them static or asleep.
func randomScene(seed int64, count int) []*actor.RigidBody {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]*actor.RigidBody, 0, count+1)
	bodies = append(bodies, newGround())
	for i := 0; i < count; i++ {
		position := mgl64.Vec3{rng.Float64()*40 - 20, rng.Float64()*40 - 2, rng.Float64()*40 - 20}
		bodyType := actor.BodyTypeDynamic
		if rng.Intn(5) == 0 {
			bodyType = actor.BodyTypeStatic
		}
		body := newSphere(position, 0.25+rng.Float64()*2, bodyType)
		if bodyType == actor.BodyTypeDynamic && rng.Intn(6) == 0 {
			body.Sleep()
		}
		bodies = append(bodies, body)
	}
	return bodies
}

func pairSet(pairs []CollisionPair) map[PairKey]int {
	set := make(map[PairKey]int, len(pairs))
	for _, p := range pairs {
		set[p.Key()]++
	}
	return set
}

func TestBruteForce_Filters(t *testing.T) {
	a := newSphere(mgl64.Vec3{0, 0, 0}, 1, actor.BodyTypeDynamic)
	b := newSphere(mgl64.Vec3{1.5, 0, 0}, 1, actor.BodyTypeDynamic)
	staticA := newSphere(mgl64.Vec3{0, 1, 0}, 1, actor.BodyTypeStatic)
	staticB := newSphere(mgl64.Vec3{0, 1.5, 0}, 1, actor.BodyTypeStatic)
	far := newSphere(mgl64.Vec3{10, 0, 0}, 1, actor.BodyTypeDynamic)
	shapeless := actor.NewRigidBody(actor.NewTransform(), nil, actor.BodyTypeDynamic, 1)

	pairs := BruteForce{}.FindPotentialCollisionPairs([]*actor.RigidBody{a, b, staticA, staticB, far, shapeless})
	set := pairSet(pairs)

	assert.Contains(t, set, NewPairKey(a, b))
	assert.Contains(t, set, NewPairKey(a, staticA))
	assert.NotContains(t, set, NewPairKey(staticA, staticB), "static pairs are skipped")
	assert.NotContains(t, set, NewPairKey(a, far))
	for _, p := range pairs {
		assert.NotSame(t, shapeless, p.BodyA)
		assert.NotSame(t, shapeless, p.BodyB)
	}

	a.Sleep()
	b.Sleep()
	set = pairSet(BruteForce{}.FindPotentialCollisionPairs([]*actor.RigidBody{a, b}))
	assert.Empty(t, set, "two sleeping bodies are skipped")
}

func TestPairKey_Unordered(t *testing.T) {
	a := newSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)
	b := newSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)

	assert.Equal(t, NewPairKey(a, b), NewPairKey(b, a))
	assert.Equal(t, CollisionPair{BodyA: a, BodyB: b}.Key(), CollisionPair{BodyA: b, BodyB: a}.Key())
}

func TestBroadPhases_MatchBruteForce(t *testing.T) {
	strategies := map[string]BroadPhase{
		"sort-and-sweep X": SortAndSweep{Axis: 0},
		"sort-and-sweep Y": SortAndSweep{Axis: 1},
		"sort-and-sweep Z": SortAndSweep{Axis: 2},
		"octree":           NewOctree(4, 5),
		"octree of sweeps": &Octree{MaxObjects: 3, MaxDepth: 8, Secondary: SortAndSweep{Axis: 1}},
		"grid":             NewGrid(2, 256),
		"coarse grid":      NewGrid(50, 1),
	}

	for seed := int64(1); seed <= 5; seed++ {
		bodies := randomScene(seed, 120)
		want := pairSet(BruteForce{}.FindPotentialCollisionPairs(bodies))
		require.NotEmpty(t, want)

		for name, bp := range strategies {
			got := pairSet(bp.FindPotentialCollisionPairs(bodies))
			for key := range want {
				if _, ok := got[key]; !ok {
					t.Errorf("seed %d, %s: missing pair %v", seed, name, key)
				}
			}
			for key, count := range got {
				if count > 1 {
					t.Errorf("seed %d, %s: pair %v reported %d times", seed, name, key, count)
				}
			}
		}
	}
}

func TestOctree_LeavesCoverEveryOverlap(t *testing.T) {
	bodies := randomScene(42, 200)
	octree := NewOctree(6, 6)
	leaves := octree.Partition(bodies)
	require.Greater(t, len(leaves), 1)

	for _, pair := range (BruteForce{}).FindPotentialCollisionPairs(bodies) {
		found := false
		for _, leaf := range leaves {
			if containsBody(leaf, pair.BodyA) && containsBody(leaf, pair.BodyB) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no leaf holds both bodies of an overlapping pair")
		}
	}

	for _, leaf := range leaves {
		assert.NotEmpty(t, leaf, "empty partitions are discarded")
	}
}

func TestOctree_StopsAtLimits(t *testing.T) {
	// Stacked identical bodies can never be separated.
	var bodies []*actor.RigidBody
	for i := 0; i < 20; i++ {
		bodies = append(bodies, newSphere(mgl64.Vec3{0, 0, 0}, 1, actor.BodyTypeDynamic))
	}

	leaves := NewOctree(2, 10).Partition(bodies)
	require.Len(t, leaves, 1)
	assert.Len(t, leaves[0], 20)

	pairs := NewOctree(2, 10).FindPotentialCollisionPairs(bodies)
	assert.Len(t, pairs, 20*19/2)

	few := NewOctree(8, 4).Partition(bodies[:3])
	assert.Len(t, few, 1)
	assert.Empty(t, NewOctree(8, 4).Partition(nil))
}

func TestOctree_PlaneReachesLeavesBelowBodies(t *testing.T) {
	ground := newGround()
	bodies := []*actor.RigidBody{ground}
	for i := 0; i < 16; i++ {
		bodies = append(bodies, newSphere(mgl64.Vec3{float64(i) * 5, 0.5, 0}, 1, actor.BodyTypeDynamic))
	}

	set := pairSet(NewOctree(2, 6).FindPotentialCollisionPairs(bodies))
	for _, body := range bodies[1:] {
		assert.Contains(t, set, NewPairKey(ground, body))
	}
}

func TestSortAndSweep_Deterministic(t *testing.T) {
	bodies := randomScene(7, 80)
	first := SortAndSweep{Axis: 2}.FindPotentialCollisionPairs(bodies)
	second := SortAndSweep{Axis: 2}.FindPotentialCollisionPairs(bodies)
	assert.Equal(t, first, second)
}

func TestGrid_PlaneIsTestedAgainstAll(t *testing.T) {
	ground := newGround()
	near := newSphere(mgl64.Vec3{100, 0.5, -30}, 1, actor.BodyTypeDynamic)
	above := newSphere(mgl64.Vec3{0, 10, 0}, 1, actor.BodyTypeDynamic)

	set := pairSet(NewGrid(1, 64).FindPotentialCollisionPairs([]*actor.RigidBody{ground, near, above}))
	assert.Contains(t, set, NewPairKey(ground, near))
	assert.NotContains(t, set, NewPairKey(ground, above))
}

func TestWorldToCell(t *testing.T) {
	grid := NewGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := grid.worldToCell(tt.position); result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCellInRange(t *testing.T) {
	grid := NewGrid(1.0, 100)
	require.Len(t, grid.cells, 128)

	for x := -20; x <= 20; x++ {
		for y := -20; y <= 20; y++ {
			h := grid.hashCell(CellKey{x, y, x - y})
			if h < 0 || h >= len(grid.cells) {
				t.Fatalf("hashCell out of range: %d", h)
			}
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {1000, 1024}, {4096, 4096}}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStrategyText(t *testing.T) {
	for strategy, name := range strategyNames {
		text, err := strategy.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))

		var parsed Strategy
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, strategy, parsed)
	}

	var s Strategy
	assert.Error(t, s.UnmarshalText([]byte("bvh")))
}

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, o.Validate())
	assert.IsType(t, SortAndSweep{}, New(o))

	o.Strategy = StrategyOctree
	require.NoError(t, o.Validate())
	octree, ok := New(o).(*Octree)
	require.True(t, ok)
	assert.IsType(t, BruteForce{}, octree.Secondary)

	o.Strategy = StrategyGrid
	assert.IsType(t, &Grid{}, New(o))
	o.Strategy = StrategyBruteForce
	assert.IsType(t, BruteForce{}, New(o))

	bad := DefaultOptions()
	bad.SortAxis = 3
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.Strategy = StrategyOctree
	bad.Secondary = StrategyOctree
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.Strategy = StrategyGrid
	bad.CellSize = 0
	assert.Error(t, bad.Validate())
}

func containsBody(list []*actor.RigidBody, body *actor.RigidBody) bool {
	for _, b := range list {
		if b == body {
			return true
		}
	}
	return false
}
