// Package border implements the border-cutting sibling operation
// SPEC_FULL.md §4.E describes: remove a central region of a face so
// that a frame of a given width remains around its edge.
package border

import (
	"context"
	"math"

	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/frame"
	"github.com/chazu/patterncut/pkg/kernel"
	"github.com/chazu/patterncut/pkg/offset"
	"github.com/chazu/patterncut/pkg/solid"
)

// Descriptor is the border cut's {width, depth?} input (§6).
type Descriptor struct {
	Width    float64
	Depth    float64
	HasDepth bool
}

// Cut implements §4.E's 6-step algorithm: recover the frame, collect
// the outer wire, special-case a circular face, offset a polygon face
// inward by Width, build the cutter, and subtract it. On any
// recoverable failure it returns s unchanged with a *diag.Error.
func Cut(ctx context.Context, s solid.Solid, d Descriptor, sink diag.Sink) (solid.Solid, error) {
	sink = diag.Use(sink)
	if err := ctx.Err(); err != nil {
		return s, diag.Wrap(err, diag.InvalidInput, "cutBorder", "context already cancelled", nil)
	}
	if d.Width <= 0 {
		return s, diag.New(diag.InvalidInput, "cutBorder", "width must be positive", map[string]any{"width": d.Width})
	}

	k := s.Underlying()
	sk, ok := k.(kernel.SolidKernel)
	if !ok {
		return s, diag.New(diag.KernelBuilderFailed, "cutBorder", "backend does not support border cutting", nil)
	}

	// 1. Recover F and its frame.
	fr, facePtr, circle := resolveFace(s)

	bbox := s.BoundingBox()
	maxExtent := math.Max(bbox.Size.X, math.Max(bbox.Size.Y, bbox.Size.Z))
	depth := d.Depth
	if !d.HasDepth || depth <= 0 {
		depth = maxExtent + 2
	}

	// 3. Circular face special case.
	if circle != nil && circle.Radius > d.Width {
		r := circle.Radius - d.Width
		cutter, err := solid.Cylinder(k, r, 2*depth)
		if err != nil {
			return s, err
		}
		cutter = cutter.Translate(fr.Centre.X, fr.Centre.Y, fr.Centre.Z-depth)
		return subtract(s, cutter)
	}

	// 2/4. Collect the outer wire and offset it inward.
	var uv []offset.Point
	if facePtr != nil {
		uv = make([]offset.Point, len(facePtr.Loop.Points))
		for i, p := range facePtr.Loop.Points {
			rel := p.Sub(fr.Centre)
			uv[i] = offset.Point{U: rel.Dot(fr.UAxis), V: rel.Dot(fr.VAxis)}
		}
	} else {
		hu, hv := fr.USize/2, fr.VSize/2
		uv = []offset.Point{{U: -hu, V: -hv}, {U: hu, V: -hv}, {U: hu, V: hv}, {U: -hu, V: hv}}
	}

	offsetPts, err := offset.Polygon(uv, d.Width)
	if err != nil {
		return s, diag.Wrap(err, diag.OffsetDegenerate, "cutBorder", "could not create offset", nil)
	}

	// 5. Build cutter.
	cutter, err := buildCutter(sk, fr, offsetPts, depth)
	if err != nil {
		return s, err
	}

	// 6. Subtract.
	return subtract(s, cutter)
}

func resolveFace(s solid.Solid) (frame.Frame, *kernel.Face, *kernel.Edge) {
	sel := s.Selection()
	if sel.Kind == solid.FacesSelected && len(sel.Faces) > 0 {
		f := sel.Faces[0]
		if fr, err := frame.Analyze(f); err == nil {
			if circ := singleCircularEdge(s, f); circ != nil {
				return fr, &f, circ
			}
			return fr, &f, nil
		}
	}
	min, max := s.Shape().BoundingBox()
	return frame.Synthetic(min, max), nil, nil
}

// singleCircularEdge reports the face's edge when it is the face's
// only boundary edge and that edge is a circle, per §4.E step 3.
func singleCircularEdge(s solid.Solid, f kernel.Face) *kernel.Edge {
	var match *kernel.Edge
	count := 0
	for _, e := range s.AllEdges() {
		for _, fid := range e.FaceIDs {
			if fid == f.ID {
				count++
				edge := e
				match = &edge
				break
			}
		}
	}
	if count == 1 && match != nil && match.IsCircle {
		return match
	}
	return nil
}

// buildCutter implements §4.E step 5: an axis-aligned 4-vertex box
// shortcut, or the general wire -> face -> extrude path.
func buildCutter(sk kernel.SolidKernel, fr frame.Frame, offsetPts []offset.Point, depth float64) (solid.Solid, error) {
	if len(offsetPts) == 4 && axisAligned(offsetPts) {
		minU, maxU, minV, maxV := extents(offsetPts)
		width, height := maxU-minU, maxV-minV
		box, err := solid.Box(sk, width, height, 2*depth)
		if err != nil {
			return solid.Solid{}, err
		}
		box = rotateTemplateToFace(box, fr)
		centreU, centreV := (minU+maxU)/2, (minV+maxV)/2
		target := fr.Centre.Add(fr.UAxis.Scale(centreU)).Add(fr.VAxis.Scale(centreV)).Sub(fr.Normal.Scale(depth))
		box = box.Translate(target.X, target.Y, target.Z)
		return box, nil
	}

	worldPts := make([]kernel.Vec3, len(offsetPts))
	for i, p := range offsetPts {
		worldPts[i] = fr.Centre.Add(fr.UAxis.Scale(p.U)).Add(fr.VAxis.Scale(p.V))
	}
	wire := sk.MakeWire(worldPts)
	face, err := sk.MakeFace(wire)
	if err != nil {
		return solid.Solid{}, diag.Wrap(err, diag.KernelBuilderFailed, "cutBorder", "cutter face build failed", nil)
	}
	lower := sk.ExtrudeFace(face, fr.Normal.Scale(-depth))
	upper := sk.ExtrudeFace(face, fr.Normal.Scale(5))
	fused := sk.Union(lower, upper)
	return solid.FromShape(sk, fused), nil
}

// rotateTemplateToFace aligns a box cutter built in world axes (the
// axis-aligned shortcut skips the general wire construction, so it
// needs the same principal-axis alignment the pattern engine's
// templates use) onto the frame's dominant axis.
func rotateTemplateToFace(s solid.Solid, fr frame.Frame) solid.Solid {
	switch fr.Dominant {
	case kernel.AxisPlusZ:
		return s
	case kernel.AxisMinusZ:
		return s.Rotate(kernel.AxisPlusX, 180)
	case kernel.AxisPlusX:
		return s.Rotate(kernel.AxisPlusY, 90)
	case kernel.AxisMinusX:
		return s.Rotate(kernel.AxisPlusY, -90)
	case kernel.AxisPlusY:
		return s.Rotate(kernel.AxisPlusX, -90)
	default:
		return s.Rotate(kernel.AxisPlusX, 90)
	}
}

func axisAligned(pts []offset.Point) bool {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if math.Abs(a.U-b.U) > 1e-9 && math.Abs(a.V-b.V) > 1e-9 {
			return false
		}
	}
	return true
}

func extents(pts []offset.Point) (minU, maxU, minV, maxV float64) {
	minU, maxU = pts[0].U, pts[0].U
	minV, maxV = pts[0].V, pts[0].V
	for _, p := range pts[1:] {
		minU, maxU = math.Min(minU, p.U), math.Max(maxU, p.U)
		minV, maxV = math.Min(minV, p.V), math.Max(maxV, p.V)
	}
	return
}

func subtract(s, cutter solid.Solid) (solid.Solid, error) {
	result, err := s.Cut(cutter)
	if err != nil {
		return s, diag.Wrap(err, diag.BooleanFailed, "cutBorder", "subtraction failed", nil)
	}
	return result, nil
}
