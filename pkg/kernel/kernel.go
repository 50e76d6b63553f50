// Package kernel defines the abstract geometry kernel façade: a thin,
// typed adapter over whatever BREP/SDF library actually owns the
// solid-modeling math. Implementations (sdfx, manifold) sit behind
// this interface; the rest of the core never imports a backend
// package directly.
package kernel

import "math"

// Vec3 is a 3D point or vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product v.o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v×o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// Axis names a world axis, signed.
type Axis int

const (
	AxisPlusX Axis = iota
	AxisMinusX
	AxisPlusY
	AxisMinusY
	AxisPlusZ
	AxisMinusZ
)

// Vec returns the unit vector for the axis.
func (a Axis) Vec() Vec3 {
	switch a {
	case AxisPlusX:
		return Vec3{1, 0, 0}
	case AxisMinusX:
		return Vec3{-1, 0, 0}
	case AxisPlusY:
		return Vec3{0, 1, 0}
	case AxisMinusY:
		return Vec3{0, -1, 0}
	case AxisPlusZ:
		return Vec3{0, 0, 1}
	case AxisMinusZ:
		return Vec3{0, 0, -1}
	}
	return Vec3{}
}

func (a Axis) String() string {
	switch a {
	case AxisPlusX:
		return "+X"
	case AxisMinusX:
		return "-X"
	case AxisPlusY:
		return "+Y"
	case AxisMinusY:
		return "-Y"
	case AxisPlusZ:
		return "+Z"
	case AxisMinusZ:
		return "-Z"
	}
	return "?"
}

// DominantAxis returns the signed world axis whose component of n is
// largest in magnitude, ties broken z>x>y as §4.C specifies.
func DominantAxis(n Vec3) Axis {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case az >= ax && az >= ay:
		if n.Z >= 0 {
			return AxisPlusZ
		}
		return AxisMinusZ
	case ax >= ay:
		if n.X >= 0 {
			return AxisPlusX
		}
		return AxisMinusX
	default:
		if n.Y >= 0 {
			return AxisPlusY
		}
		return AxisMinusY
	}
}

// Plane is the informational reference-plane tag a Solid carries.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// Transform is a rigid (rotation + translation) 4x4 matrix stored
// row-major; kernel backends translate it into their own matrix type.
type Transform struct {
	M [4][4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.M[i][i] = 1
	}
	return t
}

// Translate returns a pure-translation transform.
func Translate(v Vec3) Transform {
	t := Identity()
	t.M[0][3], t.M[1][3], t.M[2][3] = v.X, v.Y, v.Z
	return t
}

// RotateAxis returns a rotation of angleDeg degrees about the given
// unit axis, using Rodrigues' formula.
func RotateAxis(axis Vec3, angleDeg float64) Transform {
	axis = axis.Normalize()
	rad := angleDeg * math.Pi / 180
	s, c := math.Sin(rad), math.Cos(rad)
	x, y, z := axis.X, axis.Y, axis.Z
	t := Identity()
	t.M[0][0] = c + x*x*(1-c)
	t.M[0][1] = x*y*(1-c) - z*s
	t.M[0][2] = x*z*(1-c) + y*s
	t.M[1][0] = y*x*(1-c) + z*s
	t.M[1][1] = c + y*y*(1-c)
	t.M[1][2] = y*z*(1-c) - x*s
	t.M[2][0] = z*x*(1-c) - y*s
	t.M[2][1] = z*y*(1-c) + x*s
	t.M[2][2] = c + z*z*(1-c)
	return t
}

// Mul composes transforms so that (a.Mul(b)).Apply(p) == a.Apply(b.Apply(p)).
func (a Transform) Mul(b Transform) Transform {
	var out Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.M[i][k] * b.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// Apply transforms a point.
func (a Transform) Apply(p Vec3) Vec3 {
	return Vec3{
		X: a.M[0][0]*p.X + a.M[0][1]*p.Y + a.M[0][2]*p.Z + a.M[0][3],
		Y: a.M[1][0]*p.X + a.M[1][1]*p.Y + a.M[1][2]*p.Z + a.M[1][3],
		Z: a.M[2][0]*p.X + a.M[2][1]*p.Y + a.M[2][2]*p.Z + a.M[2][3],
	}
}

// ApplyVector transforms a direction vector (ignores translation).
func (a Transform) ApplyVector(v Vec3) Vec3 {
	return Vec3{
		X: a.M[0][0]*v.X + a.M[0][1]*v.Y + a.M[0][2]*v.Z,
		Y: a.M[1][0]*v.X + a.M[1][1]*v.Y + a.M[1][2]*v.Z,
		Z: a.M[2][0]*v.X + a.M[2][1]*v.Y + a.M[2][2]*v.Z,
	}
}

// Wire is a closed, ordered loop of points in world space (the last
// point implicitly connects back to the first).
type Wire struct {
	Points []Vec3
}

// Face is a planar loop belonging to a Shape: the analytic stand-in
// for a BREP face this kernel binding uses (see SPEC_FULL.md "Face
// list"). ID is stable across rigid transforms of the owning Shape.
type Face struct {
	ID     string
	Loop   Wire
	Normal Vec3 // outward unit normal, as authored (orientation-correct)
}

// Edge is a straight or circular-arc boundary segment belonging to
// one or two faces.
type Edge struct {
	ID       string
	P0, P1   Vec3
	IsCircle bool
	Centre   Vec3 // valid when IsCircle
	Radius   float64
	FaceIDs  []string
}

// Shape is an opaque handle to a kernel-owned solid.
type Shape interface {
	BoundingBox() (min, max Vec3)
	Volume() float64
}

// Kernel is the narrow, backend-agnostic surface every geometry
// backend implements: primitive construction, booleans, rigid
// transforms, and mesh export. Backends that can also support the
// BREP-ish wire/face/extrude/fillet operations implement the richer
// SolidKernel below.
type Kernel interface {
	Box(x, y, z float64) Shape
	Cylinder(height, radius float64, segments int) Shape

	Union(a, b Shape) Shape
	Difference(a, b Shape) Shape
	Intersection(a, b Shape) Shape

	Translate(s Shape, v Vec3) Shape
	Rotate(s Shape, axis Vec3, angleDeg float64) Shape

	ToMesh(s Shape) (*Mesh, error)
}

// SolidKernel extends Kernel with the wire/face/prism construction and
// edge-rounding operations the pattern/border engines and
// regular_prism/fillet/chamfer shape-algebra operations need. Only a
// kernel backend built on an SDF or BREP representation that supports
// 2D polygon extrusion can implement this; the façade degrades
// gracefully (see pkg/solid) when a Kernel is not also a SolidKernel.
type SolidKernel interface {
	Kernel

	// RegularPrism builds an n-sided regular prism, apothem
	// flatToFlat/2, spanning z=0..height, one flat side horizontal.
	RegularPrism(nSides int, flatToFlat, height float64) (Shape, error)

	// MakeWire builds a closed wire from ordered points.
	MakeWire(points []Vec3) Wire
	// MakeFace builds a planar face from a closed wire, computing its
	// outward normal from the wire's winding order.
	MakeFace(w Wire) (Face, error)
	// ExtrudeFace extrudes a face along a vector into a prism.
	ExtrudeFace(f Face, along Vec3) Shape

	// Round applies uniform corner rounding to an entire shape (the
	// "no edges/faces selected" fillet/chamfer case). The sdfx backend
	// rebuilds a primitive with its native rounding radius and returns
	// composite shapes unchanged.
	Round(s Shape, radius float64) Shape
	// FilletEdge removes a quarter-round wedge along a single
	// straight edge, given the two faces that meet there (used to
	// orient the wedge into the solid's interior).
	FilletEdge(s Shape, e Edge, adjacentNormals [2]Vec3, radius float64) Shape
	// ChamferEdge removes a flat wedge along a single straight edge.
	ChamferEdge(s Shape, e Edge, adjacentNormals [2]Vec3, distance float64) Shape
}

// FuseAll folds Union over a list of shapes using the first as seed,
// the "list API" §4.B/§4.D call for with pairwise fallback — this
// kernel binding's only boolean primitive is pairwise, so FuseAll and
// CutAll *are* that fallback.
func FuseAll(k Kernel, shapes []Shape) Shape {
	if len(shapes) == 0 {
		return nil
	}
	out := shapes[0]
	for _, s := range shapes[1:] {
		out = k.Union(out, s)
	}
	return out
}

// CutAll subtracts every tool from target in turn.
func CutAll(k Kernel, target Shape, tools []Shape) Shape {
	out := target
	for _, t := range tools {
		out = k.Difference(out, t)
	}
	return out
}

// IntersectAll intersects every shape in turn, first as seed.
func IntersectAll(k Kernel, shapes []Shape) Shape {
	if len(shapes) == 0 {
		return nil
	}
	out := shapes[0]
	for _, s := range shapes[1:] {
		out = k.Intersection(out, s)
	}
	return out
}
