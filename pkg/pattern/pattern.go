package pattern

import (
	"context"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"

	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/frame"
	"github.com/chazu/patterncut/pkg/kernel"
	"github.com/chazu/patterncut/pkg/offset"
	"github.com/chazu/patterncut/pkg/solid"
)

// Cut implements the 12-step pattern engine §4.D describes: it cuts D
// into whichever face s currently has selected (the first selected
// face, if any), defaulting to the synthetic +Z frame when no face is
// selected, and returns a new solid.Solid equal to s minus the fused,
// optionally clipped set of positioned cutters. On any recoverable
// failure it returns s unchanged together with a *diag.Error; sink may
// be nil (diag.DefaultSink is used).
func Cut(ctx context.Context, s solid.Solid, d Descriptor, sink diag.Sink) (solid.Solid, error) {
	sink = diag.Use(sink)
	if err := ctx.Err(); err != nil {
		return s, diag.Wrap(err, diag.InvalidInput, "cutPattern", "context already cancelled", nil)
	}

	k := s.Underlying()

	// 1. Shape kind is already resolved on d by ParseDescriptor/NewDescriptor.
	// 2. Face frame.
	fr, facePtr := resolveFrame(s)

	// 3. Cut depth.
	bbox := s.BoundingBox()
	maxExtent := math.Max(bbox.Size.X, math.Max(bbox.Size.Y, bbox.Size.Z))
	depth := d.Depth
	if !d.HasDepth || depth <= 0 {
		depth = maxExtent + 2
	}

	// 4. Clip volume.
	var clipShape kernel.Shape
	clipMode := d.Clip
	if clipMode != ClipNone {
		shape, err := buildClipVolume(k, fr, facePtr, d.BorderX, depth)
		if err != nil {
			sink.Warn("cutPattern", "clip volume construction failed, falling back to clip=none", map[string]any{"error": err.Error()})
			clipMode = ClipNone
		} else {
			clipShape = shape
		}
	}

	// 5/6. Positions + template + 8. Position each cutter.
	cutterShapes, err := layOutCutters(k, fr, d, depth)
	if err != nil {
		return s, err
	}
	if len(cutterShapes) == 0 {
		// Identity: an empty usable region yields s unchanged.
		return s, nil
	}

	// 9. Whole-mode filter (and the R-tree pre-filter shared with 11's cost).
	kept := cutterShapes
	if clipMode == ClipWhole {
		kept = filterWholeMode(k, cutterShapes, clipShape)
		if len(kept) == 0 {
			return s, nil
		}
	}

	// 10. Fuse all kept cutters.
	fused := kernel.FuseAll(k, kept)
	if fused == nil {
		return s, diag.New(diag.BooleanFailed, "cutPattern", "fusing cutters produced a null shape", nil)
	}

	// 11. Partial-clip intersect (idempotent safety net for whole).
	if clipMode == ClipPartial || clipMode == ClipWhole {
		clipped := k.Intersection(fused, clipShape)
		if clipped == nil {
			sink.Warn("cutPattern", "clip intersection failed, keeping unclipped fused cutters", nil)
		} else {
			fused = clipped
		}
	}

	// 12. Subtract from s, verifying a non-degenerate result.
	tool := solid.FromShape(k, fused)
	result, err := s.Cut(tool)
	if err != nil {
		return s, diag.Wrap(err, diag.BooleanFailed, "cutPattern", "final subtraction failed", nil)
	}
	rb := result.BoundingBox()
	if rb.Size.X < 1e-9 && rb.Size.Y < 1e-9 && rb.Size.Z < 1e-9 {
		return s, diag.New(diag.BooleanFailed, "cutPattern", "subtraction result contains no solid", nil)
	}
	return result, nil
}

// resolveFrame picks s's first selected face (if any) and returns its
// analyzed frame, falling back to the synthetic +Z frame.
func resolveFrame(s solid.Solid) (frame.Frame, *kernel.Face) {
	sel := s.Selection()
	if sel.Kind == solid.FacesSelected && len(sel.Faces) > 0 {
		f := sel.Faces[0]
		if fr, err := frame.Analyze(f); err == nil {
			return fr, &f
		}
	}
	min, max := s.Shape().BoundingBox()
	return frame.Synthetic(min, max), nil
}

func buildClipVolume(k kernel.Kernel, fr frame.Frame, facePtr *kernel.Face, border, depth float64) (kernel.Shape, error) {
	sk, ok := k.(kernel.SolidKernel)
	if !ok {
		return nil, diag.New(diag.KernelBuilderFailed, "cutPattern", "backend does not support clip volume construction", nil)
	}

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

	offsetPts, err := offset.Polygon(uv, border)
	if err != nil {
		return nil, diag.Wrap(err, diag.OffsetDegenerate, "cutPattern", "clip volume offset collapsed", nil)
	}

	worldPts := make([]kernel.Vec3, len(offsetPts))
	for i, p := range offsetPts {
		worldPts[i] = fr.Centre.Add(fr.UAxis.Scale(p.U)).Add(fr.VAxis.Scale(p.V))
	}
	wire := sk.MakeWire(worldPts)
	face, err := sk.MakeFace(wire)
	if err != nil {
		return nil, diag.Wrap(err, diag.KernelBuilderFailed, "cutPattern", "clip volume face build failed", nil)
	}

	upper := sk.ExtrudeFace(face, fr.Normal.Scale(5))
	lower := sk.ExtrudeFace(face, fr.Normal.Scale(-(depth + 5)))
	return k.Union(upper, lower), nil
}

// layOutCutters implements steps 5/6/7/8: generate positions, then
// build a template cutter for each position and place it there.
func layOutCutters(k kernel.Kernel, fr frame.Frame, d Descriptor, depth float64) ([]kernel.Shape, error) {
	extra90 := 0.0
	if d.Shape == Line && (fr.Dominant == kernel.AxisPlusX || fr.Dominant == kernel.AxisMinusX) {
		extra90 = 90
	}
	rotAxis, rotDeg := faceAlignment(fr.Dominant)

	place := func(u, v float64, length float64) (kernel.Shape, error) {
		cutter, err := buildTemplate(k, d, length, depth)
		if err != nil {
			return nil, err
		}
		cutter = cutter.Rotate(kernel.AxisPlusZ, extra90)
		cutter = cutter.Rotate(kernel.AxisPlusZ, d.Rotation)
		if rotDeg != 0 {
			cutter = cutter.Rotate(rotAxis, rotDeg)
		}
		target := fr.Centre.Add(fr.UAxis.Scale(u)).Add(fr.VAxis.Scale(v)).Sub(fr.Normal.Scale(depth))
		cutter = cutter.Translate(target.X, target.Y, target.Z)
		return cutter.Shape(), nil
	}

	var shapes []kernel.Shape
	if d.Shape == Line {
		layout := linePositions(fr.USize, fr.VSize, d)
		if layout.Length <= 0 {
			return nil, nil
		}
		if layout.AlongV {
			// The line template runs along local X; a further quarter
			// turn makes it run along v.
			extra90 += 90
		}
		for _, perp := range layout.Positions {
			var u, v float64
			if layout.AlongV {
				u, v = perp, 0
			} else {
				u, v = 0, perp
			}
			shape, err := place(u, v, layout.Length)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, shape)
		}
		return shapes, nil
	}

	positions := gridPositions(fr.USize, fr.VSize, d)
	for _, p := range positions {
		shape, err := place(p.U, p.V, d.Length)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// faceAlignment returns the principal-axis rotation that maps local
// +Z onto the world direction dominant names, per §4.C's normal table
// (every dominant axis is itself a principal axis, so this is always
// exact — see DESIGN.md's Kernel.Rotate open-question resolution).
func faceAlignment(dominant kernel.Axis) (kernel.Axis, float64) {
	switch dominant {
	case kernel.AxisPlusZ:
		return kernel.AxisPlusX, 0
	case kernel.AxisMinusZ:
		return kernel.AxisPlusX, 180
	case kernel.AxisPlusX:
		return kernel.AxisPlusY, 90
	case kernel.AxisMinusX:
		return kernel.AxisPlusY, -90
	case kernel.AxisPlusY:
		return kernel.AxisPlusX, -90
	default: // AxisMinusY
		return kernel.AxisPlusX, 90
	}
}

// rtreeItem adapts a cutter's world bounding box to rtreego.Spatial.
type rtreeItem struct {
	index int
	rect  *rtreego.Rect
}

func (it rtreeItem) Bounds() *rtreego.Rect { return it.rect }

func boundsRect(min, max kernel.Vec3) (*rtreego.Rect, error) {
	lengths := []float64{
		math.Max(max.X-min.X, 1e-9),
		math.Max(max.Y-min.Y, 1e-9),
		math.Max(max.Z-min.Z, 1e-9),
	}
	return rtreego.NewRect(rtreego.Point{min.X, min.Y, min.Z}, lengths)
}

// filterWholeMode implements §4.D step 9: an R-tree over the cutters'
// bounding boxes finds which candidates can plausibly overlap the
// clip volume at all before the expensive per-cutter volume-equality
// check (intersection volume == cutter volume, 1% tolerance) runs.
func filterWholeMode(k kernel.Kernel, cutters []kernel.Shape, clipShape kernel.Shape) []kernel.Shape {
	cmin, cmax := clipShape.BoundingBox()
	clipRect, err := boundsRect(cmin, cmax)
	if err != nil {
		return wholeModeNoIndex(k, cutters, clipShape)
	}

	tree := rtreego.NewTree(3, 4, 16)
	for i, c := range cutters {
		min, max := c.BoundingBox()
		rect, err := boundsRect(min, max)
		if err != nil {
			continue
		}
		tree.Insert(rtreeItem{index: i, rect: rect})
	}

	candidates := tree.SearchIntersect(clipRect)
	var kept []kernel.Shape
	for _, obj := range candidates {
		i := obj.(rtreeItem).index
		c := cutters[i]
		if wholeModeKeeps(k, c, clipShape) {
			kept = append(kept, c)
		}
	}
	return kept
}

func wholeModeNoIndex(k kernel.Kernel, cutters []kernel.Shape, clipShape kernel.Shape) []kernel.Shape {
	return lo.Filter(cutters, func(c kernel.Shape, _ int) bool { return wholeModeKeeps(k, c, clipShape) })
}

func wholeModeKeeps(k kernel.Kernel, cutter, clipShape kernel.Shape) bool {
	inside := k.Intersection(cutter, clipShape)
	if inside == nil {
		return false
	}
	full, partial := cutter.Volume(), inside.Volume()
	if full <= 0 {
		return false
	}
	return math.Abs(full-partial)/full <= 0.01
}
