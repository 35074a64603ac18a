// Package broadphase prunes the set of body pairs down to the candidates the
// narrowphase has to test. Every implementation is superset-safe: a pair whose
// bounding boxes overlap is never omitted.
package broadphase

import (
	"bytes"
	"fmt"

	"github.com/akmonengine/impulse/actor"
	"github.com/google/uuid"
)

// CollisionPair is an unordered pair of bodies that might be touching.
type CollisionPair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// Key identifies the pair independently of the order of its bodies.
func (p CollisionPair) Key() PairKey {
	return NewPairKey(p.BodyA, p.BodyB)
}

// PairKey orders the two body IDs so (A,B) and (B,A) share a key.
type PairKey struct {
	Low, High uuid.UUID
}

func NewPairKey(a, b *actor.RigidBody) PairKey {
	if bytes.Compare(a.ID[:], b.ID[:]) <= 0 {
		return PairKey{Low: a.ID, High: b.ID}
	}
	return PairKey{Low: b.ID, High: a.ID}
}

type BroadPhase interface {
	FindPotentialCollisionPairs(bodies []*actor.RigidBody) []CollisionPair
}

// canCollide filters pairs no narrowphase test could ever report: a body
// without a shape, or two bodies that are both static or asleep.
func canCollide(a, b *actor.RigidBody) bool {
	if a == b || a.Shape == nil || b.Shape == nil {
		return false
	}
	return a.IsActive() || b.IsActive()
}

// Strategy names a broadphase implementation in configuration.
type Strategy int

const (
	StrategySortAndSweep Strategy = iota
	StrategyBruteForce
	StrategyOctree
	StrategyGrid
)

var strategyNames = map[Strategy]string{
	StrategySortAndSweep: "sort-and-sweep",
	StrategyBruteForce:   "brute-force",
	StrategyOctree:       "octree",
	StrategyGrid:         "grid",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func (s Strategy) MarshalText() ([]byte, error) {
	name, ok := strategyNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown broadphase strategy %d", int(s))
	}
	return []byte(name), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	for strategy, name := range strategyNames {
		if name == string(text) {
			*s = strategy
			return nil
		}
	}
	return fmt.Errorf("unknown broadphase strategy %q", text)
}

// Options configures New.
type Options struct {
	Strategy Strategy `yaml:"strategy"`
	// SortAxis is the sweep axis of sort-and-sweep: 0, 1 or 2.
	SortAxis int `yaml:"sortAxis"`
	// MaxObjects and MaxDepth bound the octree subdivision.
	MaxObjects int `yaml:"maxObjects"`
	MaxDepth   int `yaml:"maxDepth"`
	// Secondary runs inside each octree leaf; it must not be octree.
	Secondary Strategy `yaml:"secondary"`
	CellSize  float64  `yaml:"cellSize"`
	NumCells  int      `yaml:"numCells"`
}

func DefaultOptions() Options {
	return Options{
		Strategy:   StrategySortAndSweep,
		SortAxis:   0,
		MaxObjects: DefaultMaxObjects,
		MaxDepth:   DefaultMaxDepth,
		Secondary:  StrategyBruteForce,
		CellSize:   DefaultCellSize,
		NumCells:   DefaultNumCells,
	}
}

func (o Options) Validate() error {
	if _, ok := strategyNames[o.Strategy]; !ok {
		return fmt.Errorf("unknown broadphase strategy %d", int(o.Strategy))
	}
	if o.SortAxis < 0 || o.SortAxis > 2 {
		return fmt.Errorf("sort axis must be 0, 1 or 2, got %d", o.SortAxis)
	}
	if o.Strategy == StrategyOctree {
		if o.MaxObjects < 1 || o.MaxDepth < 1 {
			return fmt.Errorf("octree needs maxObjects >= 1 and maxDepth >= 1, got %d and %d", o.MaxObjects, o.MaxDepth)
		}
		if o.Secondary == StrategyOctree {
			return fmt.Errorf("octree secondary broadphase cannot be octree")
		}
	}
	if o.Strategy == StrategyGrid && (o.CellSize <= 0 || o.NumCells < 1) {
		return fmt.Errorf("grid needs a positive cell size and cell count, got %v and %d", o.CellSize, o.NumCells)
	}
	return nil
}

// New builds the broadphase described by o. Options are expected to be valid.
func New(o Options) BroadPhase {
	switch o.Strategy {
	case StrategyBruteForce:
		return BruteForce{}
	case StrategyOctree:
		secondary := o
		secondary.Strategy = o.Secondary
		return &Octree{MaxObjects: o.MaxObjects, MaxDepth: o.MaxDepth, Secondary: New(secondary)}
	case StrategyGrid:
		return NewGrid(o.CellSize, o.NumCells)
	default:
		return SortAndSweep{Axis: o.SortAxis}
	}
}
