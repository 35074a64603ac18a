// Package debugdraw defines the boundary between the physics world and the
// renderer that turns debug primitives into geometry.
package debugdraw

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Flags selects which debug primitives are emitted.
type Flags uint32

const (
	AABB Flags = 1 << iota
	Manifold
	Constraint
	CollisionNormals
	BroadphasePairs
	LinearVelocity
	LinearForce
	BoundingRadius

	None Flags = 0
	All  Flags = AABB | Manifold | Constraint | CollisionNormals | BroadphasePairs | LinearVelocity | LinearForce | BoundingRadius
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{AABB, "aabb"},
	{Manifold, "manifold"},
	{Constraint, "constraint"},
	{CollisionNormals, "collision-normals"},
	{BroadphasePairs, "broadphase-pairs"},
	{LinearVelocity, "linear-velocity"},
	{LinearForce, "linear-force"},
	{BoundingRadius, "bounding-radius"},
}

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

func (f Flags) String() string {
	if f == None {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags reads a "|" separated list of flag names. Unknown names are
// returned so the caller can report them.
func ParseFlags(s string) (Flags, []string) {
	var f Flags
	var unknown []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" || part == "none" {
			continue
		}
		if part == "all" {
			f |= All
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == part {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, part)
		}
	}
	return f, unknown
}

func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Flags) UnmarshalText(text []byte) error {
	flags, unknown := ParseFlags(string(text))
	if len(unknown) > 0 {
		return fmt.Errorf("debugdraw: unknown flags %v", unknown)
	}
	*f = flags
	return nil
}

// Renderer is implemented by the rendering collaborator.
type Renderer interface {
	DrawLine(from, to mgl64.Vec3, color mgl64.Vec4)
	DrawPoint(position mgl64.Vec3, size float64, color mgl64.Vec4)
}

var (
	ColorAABBAwake    = mgl64.Vec4{1, 1, 1, 1}
	ColorAABBSleeping = mgl64.Vec4{0.5, 0.5, 0.5, 1}
	ColorContactA     = mgl64.Vec4{0, 1, 0, 1}
	ColorContactB     = mgl64.Vec4{1, 0, 0, 1}
	ColorNormal       = mgl64.Vec4{0, 0, 1, 1}
	ColorConstraint   = mgl64.Vec4{1, 1, 0, 1}
	ColorPair         = mgl64.Vec4{1, 0, 1, 1}
	ColorVelocity     = mgl64.Vec4{0, 1, 1, 1}
	ColorForce        = mgl64.Vec4{1, 0.5, 0, 1}
	ColorRadius       = mgl64.Vec4{0.6, 0.6, 1, 1}
)

// DrawBox emits the 12 edges of the box [min, max].
func DrawBox(r Renderer, min, max mgl64.Vec3, color mgl64.Vec4) {
	corner := func(i int) mgl64.Vec3 {
		c := min
		if i&1 != 0 {
			c[0] = max[0]
		}
		if i&2 != 0 {
			c[1] = max[1]
		}
		if i&4 != 0 {
			c[2] = max[2]
		}
		return c
	}
	for i := 0; i < 8; i++ {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				r.DrawLine(corner(i), corner(i|bit), color)
			}
		}
	}
}

// DrawCircle emits a circle of the given radius in the plane spanned by u and v.
func DrawCircle(r Renderer, center, u, v mgl64.Vec3, radius float64, segments int, color mgl64.Vec4) {
	if segments < 3 {
		segments = 3
	}
	prev := center.Add(u.Mul(radius))
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		next := center.Add(u.Mul(radius * math.Cos(a))).Add(v.Mul(radius * math.Sin(a)))
		r.DrawLine(prev, next, color)
		prev = next
	}
}
