// Package frame derives a face-local (u,v) working frame from a
// kernel.Face's world-space loop and normal, per the algorithm
// SPEC_FULL.md §4.C describes. It never touches a kernel backend
// directly: everything here is arithmetic over kernel.Face/kernel.Vec3.
package frame

import (
	"fmt"

	"github.com/chazu/patterncut/pkg/kernel"
)

// Frame is the face-local working basis the pattern and border
// engines place cutters against.
type Frame struct {
	Normal, Centre kernel.Vec3
	USize, VSize   float64
	UAxis, VAxis   kernel.Vec3
	Dominant       kernel.Axis
}

// Analyze computes a Frame for a face. The face's bounding box stands
// in for the UV-midpoint surface evaluation a real BREP kernel would
// perform (sdfx's analytic faces are always planar, so the bounding
// box already carries the u/v extents exactly); the normal is taken
// as authored on the Face record.
func Analyze(f kernel.Face) (Frame, error) {
	if f.Normal.Length() < 1e-9 {
		return Frame{}, fmt.Errorf("frame: face has no finite normal (degenerate)")
	}
	if len(f.Loop.Points) < 3 {
		return Frame{}, fmt.Errorf("frame: face loop has fewer than 3 points")
	}

	min, max := boundingBox(f.Loop.Points)
	dominant := kernel.DominantAxis(f.Normal)
	uAxis, vAxis := axesFor(dominant)

	return Frame{
		Normal:   f.Normal.Normalize(),
		Centre:   min.Add(max).Scale(0.5),
		USize:    extent(min, max, uAxis),
		VSize:    extent(min, max, vAxis),
		UAxis:    uAxis,
		VAxis:    vAxis,
		Dominant: dominant,
	}, nil
}

// Synthetic builds the world-+Z frame §4.D/§4.E fall back to when no
// face is selected, from a solid's world bounding box.
func Synthetic(min, max kernel.Vec3) Frame {
	return Frame{
		Normal:   kernel.Vec3{Z: 1},
		Centre:   kernel.Vec3{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: max.Z},
		USize:    max.X - min.X,
		VSize:    max.Y - min.Y,
		UAxis:    kernel.Vec3{X: 1},
		VAxis:    kernel.Vec3{Y: 1},
		Dominant: kernel.AxisPlusZ,
	}
}

// axesFor returns the (u,v) world axis pair for a dominant face axis,
// per §4.C step 4's table.
func axesFor(dominant kernel.Axis) (u, v kernel.Vec3) {
	switch dominant {
	case kernel.AxisPlusZ, kernel.AxisMinusZ:
		return kernel.Vec3{X: 1}, kernel.Vec3{Y: 1}
	case kernel.AxisPlusX, kernel.AxisMinusX:
		return kernel.Vec3{Y: 1}, kernel.Vec3{Z: 1}
	default: // ±Y
		return kernel.Vec3{X: 1}, kernel.Vec3{Z: 1}
	}
}

func boundingBox(points []kernel.Vec3) (min, max kernel.Vec3) {
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min = kernel.Vec3{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = kernel.Vec3{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	return min, max
}

// extent returns the bbox span along axis, which is always a unit
// principal-direction vector (so the dot product just selects a
// component).
func extent(min, max kernel.Vec3, axis kernel.Vec3) float64 {
	return max.Dot(axis) - min.Dot(axis)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
