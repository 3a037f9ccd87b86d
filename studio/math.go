package studio

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

// Mat4 is column-major, like glTF.
type Mat4 = mgl64.Mat4

// Box3 is an axis-aligned bounding box. The zero value is not empty; use
// EmptyBox.
type Box3 struct {
	Min, Max Vec3
}

func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b Box3) ExpandByPoint(p Vec3) Box3 {
	for i := range p {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Center of an empty box is the origin.
func (b Box3) Center() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ApplyMatrix returns the bounds of b transformed by m.
func (b Box3) ApplyMatrix(m Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, x := range [2]float64{b.Min[0], b.Max[0]} {
		for _, y := range [2]float64{b.Min[1], b.Max[1]} {
			for _, z := range [2]float64{b.Min[2], b.Max[2]} {
				out = out.ExpandByPoint(mgl64.TransformCoordinate(Vec3{x, y, z}, m))
			}
		}
	}
	return out
}

// ComposeTRS builds translation * rotation * scale. q is (x, y, z, w).
func ComposeTRS(t Vec3, q [4]float64, s Vec3) Mat4 {
	rotation := mgl64.Quat{W: q[3], V: Vec3{q[0], q[1], q[2]}}
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

func mulElem(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
