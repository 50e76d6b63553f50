package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/patterncut/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MakeWire builds a closed wire from ordered points.
func (k *Kernel) MakeWire(points []kernel.Vec3) kernel.Wire {
	pts := make([]kernel.Vec3, len(points))
	copy(pts, points)
	return kernel.Wire{Points: pts}
}

// MakeFace builds a planar face from a closed wire using Newell's
// method to find the normal, which tolerates mild non-planarity and
// works for both convex and concave loops.
func (k *Kernel) MakeFace(w kernel.Wire) (kernel.Face, error) {
	if len(w.Points) < 3 {
		return kernel.Face{}, fmt.Errorf("sdfx: face wire needs at least 3 points, got %d", len(w.Points))
	}
	var n kernel.Vec3
	pts := w.Points
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	if n.Length() < 1e-9 {
		return kernel.Face{}, fmt.Errorf("sdfx: face wire is degenerate (zero-area)")
	}
	return kernel.Face{Loop: w, Normal: n.Normalize()}, nil
}

// axisBasis is a table entry: for each of the six principal
// directions, the rotation that maps
// local +Z onto that direction, and where local +X/+Y land as a
// result (needed to project/reproject a planar loop consistently).
type axisBasis struct {
	rotate sdf.M44
	u, v   kernel.Vec3
}

func basisFor(axis kernel.Axis) axisBasis {
	switch axis {
	case kernel.AxisPlusZ:
		return axisBasis{sdf.Identity3d(), kernel.Vec3{X: 1}, kernel.Vec3{Y: 1}}
	case kernel.AxisMinusZ:
		return axisBasis{sdf.RotateX(math.Pi), kernel.Vec3{X: 1}, kernel.Vec3{Y: -1}}
	case kernel.AxisPlusX:
		return axisBasis{sdf.RotateY(math.Pi / 2), kernel.Vec3{Z: -1}, kernel.Vec3{Y: 1}}
	case kernel.AxisMinusX:
		return axisBasis{sdf.RotateY(-math.Pi / 2), kernel.Vec3{Z: 1}, kernel.Vec3{Y: 1}}
	case kernel.AxisPlusY:
		return axisBasis{sdf.RotateX(-math.Pi / 2), kernel.Vec3{X: 1}, kernel.Vec3{Z: -1}}
	default: // AxisMinusY
		return axisBasis{sdf.RotateX(math.Pi / 2), kernel.Vec3{X: 1}, kernel.Vec3{Z: 1}}
	}
}

// ExtrudeFace extrudes a face along a vector into a prism. The vector
// is expected to be parallel to a principal axis (every face/clip
// direction this core produces is, see pkg/frame): the footprint is
// projected into that axis's (u,v) basis, extruded along local Z via
// sdf.Extrude3D, then rotated into place and positioned so the result
// starts at the face's own plane and extends along "along".
func (k *Kernel) ExtrudeFace(f kernel.Face, along kernel.Vec3) kernel.Shape {
	height := along.Length()
	axis := kernel.DominantAxis(along)
	b := basisFor(axis)

	pts := make([]v2.Vec, len(f.Loop.Points))
	for i, p := range f.Loop.Points {
		pts[i] = v2.Vec{X: p.Dot(b.u), Y: p.Dot(b.v)}
	}
	poly, err := sdf.Polygon2D(pts)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Polygon2D: %v", err))
	}
	s := sdf.Extrude3D(poly, height)
	s = sdf.Transform3D(s, b.rotate)

	var depth float64
	for _, p := range f.Loop.Points {
		depth += p.Dot(axis.Vec())
	}
	depth /= float64(len(f.Loop.Points))
	centre := axis.Vec().Scale(depth + height/2)
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: centre.X, Y: centre.Y, Z: centre.Z}))
	return wrap(s)
}

// Round applies uniform corner rounding to an entire shape. Only
// primitives built by this backend's Box/Cylinder carry a rebuild
// recipe; a composite shape (the result of a boolean, extrude, or
// prior transform) has none and is returned unchanged — sdfx exposes
// rounding as a primitive-construction parameter, not a generic SDF
// erosion operator, so there is no way to retroactively round an
// arbitrary compound solid through this binding.
func (k *Kernel) Round(s kernel.Shape, radius float64) kernel.Shape {
	ss, ok := s.(*sdfxShape)
	if !ok || ss.recipe == nil {
		return s
	}
	return &sdfxShape{s: ss.recipe(radius), recipe: ss.recipe}
}

// edgeAxis returns the principal axis an edge runs along.
func edgeAxis(e kernel.Edge) kernel.Axis {
	return kernel.DominantAxis(e.P1.Sub(e.P0))
}

// cornerWedge builds, in world space, the cutter solid removed to
// fillet (round=true) or chamfer (round=false) a single straight edge
// whose two adjacent faces meet at a right angle — true of every edge
// this core's primitives produce. leg is the fillet radius or chamfer
// distance along each face.
func cornerWedge(e kernel.Edge, adjacentNormals [2]kernel.Vec3, leg float64, round bool) sdf.SDF3 {
	length := e.P1.Sub(e.P0).Length()
	axis := edgeAxis(e)
	b := basisFor(axis)

	// Inward directions at the corner, expressed in the edge's own
	// (u,v) basis.
	s0 := adjacentNormals[0].Scale(-1)
	s1 := adjacentNormals[1].Scale(-1)
	su, sv := s0.Dot(b.u), s0.Dot(b.v)
	tu, tv := s1.Dot(b.u), s1.Dot(b.v)

	var cutter sdf.SDF3
	if round {
		sq, _ := sdf.Box3D(v3.Vec{X: leg, Y: leg, Z: length}, 0)
		sq = sdf.Transform3D(sq, sdf.Translate3d(v3.Vec{X: leg / 2, Y: leg / 2}))
		disk, _ := sdf.Cylinder3D(length*2, leg, 0)
		disk = sdf.Transform3D(disk, sdf.Translate3d(v3.Vec{X: leg, Y: leg}))
		cutter = sdf.Difference3D(sq, disk)
	} else {
		sq, _ := sdf.Box3D(v3.Vec{X: leg * 2, Y: leg * 2, Z: length}, 0)
		sq = sdf.Transform3D(sq, sdf.Translate3d(v3.Vec{X: leg, Y: leg}))
		half, _ := sdf.Box3D(v3.Vec{X: leg * 4, Y: leg * 4, Z: length * 2}, 0)
		half = sdf.Transform3D(half, sdf.RotateZ(math.Pi/4))
		half = sdf.Transform3D(half, sdf.Translate3d(v3.Vec{X: leg*2 + leg*math.Sqrt2, Y: 0}))
		cutter = sdf.Intersect3D(sq, half)
	}

	// cutter is built in a local frame whose +x axis is su/tu-agnostic
	// "s" direction and +y is "t"; rotate that local frame so s,t align
	// with the corner's actual (possibly non-axis-local) directions,
	// then rotate local z (edge length axis) onto the world edge
	// direction, then translate to the corner point e.P0.
	inPlaneAngle := math.Atan2(tv-sv, tu-su) // orientation of the (s,t) frame vs (u,v)
	m := sdf.RotateZ(inPlaneAngle).Mul(sdf.Identity3d())
	m = b.rotate.Mul(m)
	m = sdf.Translate3d(v3.Vec{X: e.P0.X, Y: e.P0.Y, Z: e.P0.Z}).Mul(m)
	return sdf.Transform3D(cutter, m)
}

// FilletEdge removes a quarter-round wedge along a single straight edge.
func (k *Kernel) FilletEdge(s kernel.Shape, e kernel.Edge, adjacentNormals [2]kernel.Vec3, radius float64) kernel.Shape {
	return wrap(sdf.Difference3D(unwrap(s), cornerWedge(e, adjacentNormals, radius, true)))
}

// ChamferEdge removes a flat wedge along a single straight edge.
func (k *Kernel) ChamferEdge(s kernel.Shape, e kernel.Edge, adjacentNormals [2]kernel.Vec3, distance float64) kernel.Shape {
	return wrap(sdf.Difference3D(unwrap(s), cornerWedge(e, adjacentNormals, distance, false)))
}
