// Package solid implements the fluent shape-algebra layer §4.B
// describes: an immutable value carrying a kernel shape handle, a
// reference plane, selected faces/edges, and opaque metadata, plus
// the primitive constructors, booleans, transforms, fillet/chamfer,
// and selector operators every op returns a fresh value from.
package solid

import (
	"github.com/samber/lo"

	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/kernel"
)

// SelectionKind names which of the three selection states (§3's
// invariant: a Solid carries exactly one) a Solid is in.
type SelectionKind int

const (
	NoSelection SelectionKind = iota
	FacesSelected
	EdgesSelected
)

// Selection is the face/edge selection a Solid carries between calls.
type Selection struct {
	Kind  SelectionKind
	Faces []kernel.Face
	Edges []kernel.Edge
}

// BoundingBox is the public return shape of Solid.BoundingBox().
type BoundingBox struct {
	Min, Max, Size, Center kernel.Vec3
}

// Solid is the immutable shape-algebra value. Every operation returns
// a new Solid; the zero value is not useful (construct one via Box,
// Cylinder, or RegularPrism).
type Solid struct {
	k     kernel.Kernel
	shape kernel.Shape
	plane kernel.Plane

	faces []kernel.Face
	edges []kernel.Edge

	selection Selection
	metadata  map[string]any
}

func (s Solid) with(shape kernel.Shape, faces []kernel.Face, edges []kernel.Edge) Solid {
	s.shape = shape
	s.faces = faces
	s.edges = edges
	s.selection = Selection{}
	return s
}

// Shape returns the underlying kernel handle, for callers (pkg/pattern,
// pkg/border, cmd/patterncut) that need to feed it back into kernel or
// frame operations.
func (s Solid) Shape() kernel.Shape { return s.shape }

// Underlying returns the kernel.Kernel backend s was built against, so
// pkg/pattern and pkg/border can perform kernel-level operations (clip
// volume construction, boolean filtering) outside the Solid method set.
func (s Solid) Underlying() kernel.Kernel { return s.k }

// AllFaces returns the solid's full analytic face list, selection aside.
func (s Solid) AllFaces() []kernel.Face { return s.faces }

// AllEdges returns the solid's full analytic edge list, selection aside.
func (s Solid) AllEdges() []kernel.Edge { return s.edges }

// Selection returns the solid's carried selection.
func (s Solid) Selection() Selection { return s.selection }

// Metadata returns the value stored under key, if any.
func (s Solid) Metadata(key string) (any, bool) {
	v, ok := s.metadata[key]
	return v, ok
}

// HasFace reports whether id names a face of s's current shape — a
// concrete check of §3's "any face in the selections is topologically
// a sub-shape of shape" invariant.
func (s Solid) HasFace(id string) bool {
	return lo.ContainsBy(s.faces, func(f kernel.Face) bool { return f.ID == id })
}

// HasEdge reports whether id names an edge of s's current shape.
func (s Solid) HasEdge(id string) bool {
	return lo.ContainsBy(s.edges, func(e kernel.Edge) bool { return e.ID == id })
}

// Box builds a box centred on (0,0,height/2), per §4.B.
func Box(k kernel.Kernel, length, width, height float64) (Solid, error) {
	if length <= 0 || width <= 0 || height <= 0 {
		return Solid{}, diag.New(diag.InvalidInput, "box", "dimensions must be positive",
			map[string]any{"length": length, "width": width, "height": height})
	}
	faces, edges := boxGeometry(length, width, height)
	return Solid{k: k, plane: kernel.PlaneXY, faces: faces, edges: edges, shape: k.Box(length, width, height)}, nil
}

// Cylinder builds a cylinder centred on axis +Z from z=0, per §4.B.
func Cylinder(k kernel.Kernel, radius, height float64) (Solid, error) {
	if radius <= 0 || height <= 0 {
		return Solid{}, diag.New(diag.InvalidInput, "cylinder", "radius and height must be positive",
			map[string]any{"radius": radius, "height": height})
	}
	const segments = 64
	faces, edges := cylinderGeometry(height, radius, segments)
	return Solid{k: k, plane: kernel.PlaneXY, faces: faces, edges: edges, shape: k.Cylinder(height, radius, segments)}, nil
}

// RegularPrism builds an n-sided regular prism, one flat side
// horizontal, via "wire → face → prism" construction, per §4.B.
// Requires a backend that implements kernel.SolidKernel.
func RegularPrism(k kernel.SolidKernel, nSides int, flatToFlat, height float64) (Solid, error) {
	if nSides < 3 {
		return Solid{}, diag.New(diag.InvalidInput, "regular_prism", "n_sides must be >= 3",
			map[string]any{"n_sides": nSides})
	}
	if flatToFlat <= 0 || height <= 0 {
		return Solid{}, diag.New(diag.InvalidInput, "regular_prism", "flat_to_flat and height must be positive",
			map[string]any{"flat_to_flat": flatToFlat, "height": height})
	}
	shape, err := k.RegularPrism(nSides, flatToFlat, height)
	if err != nil {
		return Solid{}, diag.Wrap(err, diag.KernelBuilderFailed, "regular_prism", "prism construction failed", nil)
	}
	faces, edges := prismGeometry(nSides, flatToFlat, height)
	return Solid{k: k, plane: kernel.PlaneXY, faces: faces, edges: edges, shape: shape}, nil
}

// FromShape wraps a raw kernel shape handle built outside the Box/
// Cylinder/RegularPrism constructors (e.g. a wire-face-extrude result
// from pkg/pattern's sheared-cutter template) into a Solid, with a
// best-effort bounding-box face list since the caller's construction
// path isn't tracked exactly here.
func FromShape(k kernel.Kernel, shape kernel.Shape) Solid {
	min, max := shape.BoundingBox()
	faces, edges := bboxGeometry(min, max)
	return Solid{k: k, plane: kernel.PlaneXY, shape: shape, faces: faces, edges: edges}
}

// Translate applies a rigid translation; the face list carries forward exactly.
func (s Solid) Translate(dx, dy, dz float64) Solid {
	v := kernel.Vec3{X: dx, Y: dy, Z: dz}
	t := kernel.Translate(v)
	faces, edges := applyTransform(s.faces, s.edges, t)
	return s.with(s.k.Translate(s.shape, v), faces, edges)
}

// Rotate applies a rigid rotation of angleDeg about a principal world
// axis; the face list carries forward exactly.
func (s Solid) Rotate(axis kernel.Axis, angleDeg float64) Solid {
	t := kernel.RotateAxis(axis.Vec(), angleDeg)
	faces, edges := applyTransform(s.faces, s.edges, t)
	return s.with(s.k.Rotate(s.shape, axis.Vec(), angleDeg), faces, edges)
}

// Union fuses s with other. The face list degrades to a best-effort
// bounding-box approximation, since a boolean result's true topology
// isn't available through this kernel binding.
func (s Solid) Union(other Solid) (Solid, error) {
	result := s.k.Union(s.shape, other.shape)
	return s.afterBoolean("union", result)
}

// Cut subtracts other from s.
func (s Solid) Cut(other Solid) (Solid, error) {
	result := s.k.Difference(s.shape, other.shape)
	return s.afterBoolean("cut", result)
}

// Intersect intersects s with other.
func (s Solid) Intersect(other Solid) (Solid, error) {
	result := s.k.Intersection(s.shape, other.shape)
	return s.afterBoolean("intersect", result)
}

func (s Solid) afterBoolean(op string, result kernel.Shape) (Solid, error) {
	if result == nil {
		return Solid{}, diag.New(diag.BooleanFailed, op, "boolean operator returned a null shape", nil)
	}
	min, max := result.BoundingBox()
	faces, edges := bboxGeometry(min, max)
	return s.with(result, faces, edges), nil
}

// Fillet rounds edges: selected edges if any are selected, else the
// edges of selected faces, else the whole shape.
func (s Solid) Fillet(radius float64) (Solid, error) {
	return s.round("fillet", radius, func(sk kernel.SolidKernel, shape kernel.Shape, e kernel.Edge, n [2]kernel.Vec3) kernel.Shape {
		return sk.FilletEdge(shape, e, n, radius)
	})
}

// Chamfer cuts a flat wedge along edges, with the same selection
// fallback order as Fillet.
func (s Solid) Chamfer(distance float64) (Solid, error) {
	return s.round("chamfer", distance, func(sk kernel.SolidKernel, shape kernel.Shape, e kernel.Edge, n [2]kernel.Vec3) kernel.Shape {
		return sk.ChamferEdge(shape, e, n, distance)
	})
}

func (s Solid) round(op string, amount float64, apply func(kernel.SolidKernel, kernel.Shape, kernel.Edge, [2]kernel.Vec3) kernel.Shape) (Solid, error) {
	sk, ok := s.k.(kernel.SolidKernel)
	if !ok {
		return Solid{}, diag.New(diag.KernelBuilderFailed, op, "backend does not support edge rounding", nil)
	}
	if amount <= 0 {
		return Solid{}, diag.New(diag.InvalidInput, op, "amount must be positive", map[string]any{"amount": amount})
	}

	targets := s.roundTargets()
	if len(targets) == 0 {
		shape := sk.Round(s.shape, amount)
		min, max := shape.BoundingBox()
		faces, edges := bboxGeometry(min, max)
		return s.with(shape, faces, edges), nil
	}

	shape := s.shape
	for _, e := range targets {
		shape = apply(sk, shape, e, s.adjacentNormals(e))
	}
	min, max := shape.BoundingBox()
	faces, edges := bboxGeometry(min, max)
	return s.with(shape, faces, edges), nil
}

// roundTargets resolves the edge set fillet/chamfer operate on per
// §4.B's fallback order.
func (s Solid) roundTargets() []kernel.Edge {
	switch s.selection.Kind {
	case EdgesSelected:
		return s.selection.Edges
	case FacesSelected:
		ids := lo.SliceToMap(s.selection.Faces, func(f kernel.Face) (string, bool) { return f.ID, true })
		return lo.Filter(s.edges, func(e kernel.Edge, _ int) bool {
			return lo.SomeBy(e.FaceIDs, func(fid string) bool { return ids[fid] })
		})
	default:
		return nil
	}
}

func (s Solid) adjacentNormals(e kernel.Edge) [2]kernel.Vec3 {
	var n [2]kernel.Vec3
	found := 0
	for _, f := range s.faces {
		for _, fid := range e.FaceIDs {
			if f.ID == fid && found < 2 {
				n[found] = f.Normal
				found++
			}
		}
	}
	return n
}

// Faces selects faces per the closed selector grammar §4.B describes.
// An invalid or unmatched selector yields an empty (not erroring)
// selection.
func (s Solid) Faces(selector string) Solid {
	s.selection = Selection{Kind: FacesSelected, Faces: selectFaces(s.faces, selector)}
	return s
}

// Edges selects edges per the same grammar, additionally recognizing
// the "|X"/"|Y"/"|Z" parallel-to-axis words.
func (s Solid) Edges(selector string) Solid {
	s.selection = Selection{Kind: EdgesSelected, Edges: selectEdges(s.edges, selector)}
	return s
}

// BoundingBox returns the world-space bounding box.
func (s Solid) BoundingBox() BoundingBox {
	min, max := s.shape.BoundingBox()
	size := max.Sub(min)
	center := min.Add(max).Scale(0.5)
	return BoundingBox{Min: min, Max: max, Size: size, Center: center}
}

// Color sets the "color" metadata key to a hex string.
func (s Solid) Color(hex string) Solid {
	return s.SetMetadata("color", hex)
}

// SetMetadata returns a copy of s with metadata[key] set to value.
func (s Solid) SetMetadata(key string, value any) Solid {
	out := make(map[string]any, len(s.metadata)+1)
	for k, v := range s.metadata {
		out[k] = v
	}
	out[key] = value
	s.metadata = out
	return s
}
