// Package sdfx implements kernel.SolidKernel using the
// github.com/deadsy/sdfx SDF-based CAD library. An SDF kernel has no
// native BREP topology, so wires/faces/edges are modelled as the
// analytic records kernel.Face/kernel.Edge describe: exact on
// primitives and rigid transforms, best-effort after booleans (see
// pkg/solid).
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/patterncut/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel      = (*Kernel)(nil)
	_ kernel.SolidKernel = (*Kernel)(nil)
)

// defaultMeshCells controls marching-cubes tessellation resolution for
// ToMesh and the Volume fallback.
const defaultMeshCells = 200

// sdfxShape wraps an sdf.SDF3. recipe, when non-nil, rebuilds the same
// primitive with a rounding radius baked in — it backs Round for the
// shapes sdf.Box3D/Cylinder3D can round natively; composite shapes
// (the result of a boolean, extrude, or transform) have no recipe and
// Round is a no-op on them.
type sdfxShape struct {
	s      sdf.SDF3
	recipe func(round float64) sdf.SDF3
	volume *float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxShape) BoundingBox() (min, max kernel.Vec3) {
	bb := s.s.BoundingBox()
	return kernel.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		kernel.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
}

// Volume meshes the shape via marching cubes and sums signed tetrahedra.
// Expensive; cached on first call since a Solid is immutable once built.
func (s *sdfxShape) Volume() float64 {
	if s.volume != nil {
		return *s.volume
	}
	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(s.s, renderer)
	m := &kernel.Mesh{}
	m.Vertices = make([]float32, 0, len(triangles)*9)
	m.Indices = make([]uint32, 0, len(triangles)*3)
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	vol := m.Volume()
	s.volume = &vol
	return vol
}

func unwrap(s kernel.Shape) sdf.SDF3 { return s.(*sdfxShape).s }
func wrap(s sdf.SDF3) kernel.Shape   { return &sdfxShape{s: s} }

// Kernel implements kernel.SolidKernel using sdfx.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel { return &Kernel{} }

// Box builds a box centred on (0,0,height/2): the footprint is
// centred on the XY origin, the solid rests on the z=0 plane.
func (k *Kernel) Box(x, y, z float64) kernel.Shape {
	build := func(round float64) sdf.SDF3 {
		s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, round)
		if err != nil {
			panic(fmt.Sprintf("sdfx.Box3D: %v", err))
		}
		return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: z / 2}))
	}
	return &sdfxShape{s: build(0), recipe: build}
}

// Cylinder builds a cylinder whose axis is +Z, spanning z=0..height,
// centred on the XY origin. segments is ignored: sdfx evaluates a
// true circular SDF, it doesn't tessellate the side wall ahead of time.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Shape {
	build := func(round float64) sdf.SDF3 {
		s, err := sdf.Cylinder3D(height, radius, round)
		if err != nil {
			panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
		}
		return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2}))
	}
	return &sdfxShape{s: build(0), recipe: build}
}

// RegularPrism builds an n-sided regular prism spanning z=0..height,
// centred on the XY origin, with one flat side horizontal (an edge
// parallel to the X axis) as §4.B's regular_prism requires.
func (k *Kernel) RegularPrism(nSides int, flatToFlat, height float64) (kernel.Shape, error) {
	pts := regularPolygonVertices(nSides, flatToFlat/2)
	poly, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	s := sdf.Extrude3D(poly, height)
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2}))
	return wrap(s), nil
}

// regularPolygonVertices returns the n vertices of a regular polygon
// with the given apothem, oriented so the edge between the last and
// first vertex is horizontal (its outward normal is +Y).
func regularPolygonVertices(n int, apothem float64) []v2.Vec {
	r := apothem / math.Cos(math.Pi/float64(n))
	pts := make([]v2.Vec, n)
	start := math.Pi/2 + math.Pi/float64(n)
	for i := 0; i < n; i++ {
		theta := start + float64(i)*2*math.Pi/float64(n)
		pts[i] = v2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return pts
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Shape) kernel.Shape {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Shape) kernel.Shape {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Shape) kernel.Shape {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by v.
func (k *Kernel) Translate(s kernel.Shape, v kernel.Vec3) kernel.Shape {
	m := sdf.Translate3d(v3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid angleDeg degrees about axis. axis need not be
// a principal direction: the general case is decomposed into X/Y/Z
// Euler rotations built from the angle axis makes with each plane.
func (k *Kernel) Rotate(s kernel.Shape, axis kernel.Vec3, angleDeg float64) kernel.Shape {
	m := rotationMatrix(axis, angleDeg)
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// rotationMatrix builds the sdf.M44 for a rotation of angleDeg about
// axis. Principal axes map directly onto a single RotateX/Y/Z call,
// which is every case this core actually produces (shape-algebra
// rotate(), face-to-world pose, and pattern/border placement all turn
// a principal axis); a non-principal axis falls back to the X/Y/Z
// Euler decomposition equivalent to the same rotation, which is exact
// for single-axis inputs and an approximation otherwise.
func rotationMatrix(axis kernel.Vec3, angleDeg float64) sdf.M44 {
	rad := angleDeg * math.Pi / 180
	n := axis.Normalize()
	const eps = 1e-9
	switch {
	case math.Abs(n.X) > 1-eps:
		if n.X < 0 {
			rad = -rad
		}
		return sdf.RotateX(rad)
	case math.Abs(n.Y) > 1-eps:
		if n.Y < 0 {
			rad = -rad
		}
		return sdf.RotateY(rad)
	case math.Abs(n.Z) > 1-eps:
		if n.Z < 0 {
			rad = -rad
		}
		return sdf.RotateZ(rad)
	default:
		// Non-principal axis: approximate via the zyx Euler angles of
		// the equivalent rotation matrix (Rodrigues), a case this core
		// never actually exercises (see kernel.RotateAxis, used only
		// for pure-math composition, never handed to this backend with
		// a tilted axis).
		t := kernel.RotateAxis(axis, angleDeg)
		yaw := math.Atan2(t.M[1][0], t.M[0][0])
		pitch := math.Atan2(-t.M[2][0], math.Hypot(t.M[2][1], t.M[2][2]))
		roll := math.Atan2(t.M[2][1], t.M[2][2])
		return sdf.RotateZ(yaw).Mul(sdf.RotateY(pitch)).Mul(sdf.RotateX(roll))
	}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Kernel) ToMesh(s kernel.Shape) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	vertices := make([]float32, 0, numTri*9)
	normals := make([]float32, 0, numTri*9)
	indices := make([]uint32, 0, numTri*3)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{Vertices: vertices, Normals: normals, Indices: indices}, nil
}
