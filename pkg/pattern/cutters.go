package pattern

import (
	"math"

	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/kernel"
	"github.com/chazu/patterncut/pkg/solid"
)

// buildTemplate constructs the cutter template at the origin in the
// XY plane, extending in +Z by depth+1, per §4.D step 7.
func buildTemplate(k kernel.Kernel, d Descriptor, length, depth float64) (solid.Solid, error) {
	zSpan := depth + 1

	switch d.Shape {
	case Line:
		return lineTemplate(k, length, d.Width, zSpan, d.RoundEnds)
	case Rect, Square:
		width, height := d.Width, d.Height
		if d.Shape == Square {
			height = width
		}
		return rectTemplate(k, width, height, zSpan, d.Fillet, d.Shear)
	case Circle:
		return solid.Cylinder(k, d.Width/2, zSpan)
	case Polygon:
		sk, ok := k.(kernel.SolidKernel)
		if !ok {
			return solid.Solid{}, diag.New(diag.KernelBuilderFailed, "cutPattern", "backend does not support polygon cutters", nil)
		}
		return solid.RegularPrism(sk, d.N, d.Width, zSpan)
	default:
		return solid.Solid{}, diag.New(diag.InvalidInput, "cutPattern", "unresolved shape kind", nil)
	}
}

func lineTemplate(k kernel.Kernel, length, width, zSpan float64, roundEnds bool) (solid.Solid, error) {
	if !roundEnds || length <= width {
		// A stadium shorter than it is wide degenerates to a circle.
		if roundEnds && length <= width {
			return solid.Cylinder(k, width/2, zSpan)
		}
		return solid.Box(k, length, width, zSpan)
	}

	straight := length - width
	body, err := solid.Box(k, straight, width, zSpan)
	if err != nil {
		return solid.Solid{}, err
	}
	cap1, err := solid.Cylinder(k, width/2, zSpan)
	if err != nil {
		return solid.Solid{}, err
	}
	cap2, err := solid.Cylinder(k, width/2, zSpan)
	if err != nil {
		return solid.Solid{}, err
	}
	cap1 = cap1.Translate(-straight/2, 0, 0)
	cap2 = cap2.Translate(straight/2, 0, 0)

	stadium, err := body.Union(cap1)
	if err != nil {
		return solid.Solid{}, diag.Wrap(err, diag.BooleanFailed, "cutPattern", "roundEnds cap union failed", nil)
	}
	stadium, err = stadium.Union(cap2)
	if err != nil {
		return solid.Solid{}, diag.Wrap(err, diag.BooleanFailed, "cutPattern", "roundEnds cap union failed", nil)
	}
	return stadium, nil
}

func rectTemplate(k kernel.Kernel, width, height, zSpan, fillet, shear float64) (solid.Solid, error) {
	if shear != 0 {
		sk, ok := k.(kernel.SolidKernel)
		if !ok {
			return solid.Solid{}, diag.New(diag.KernelBuilderFailed, "cutPattern", "backend does not support sheared cutters", nil)
		}
		return parallelogramTemplate(sk, width, height, zSpan, shear)
	}
	if fillet <= 0 {
		return solid.Box(k, width, height, zSpan)
	}
	return filletedRectTemplate(k, width, height, zSpan, fillet)
}

// filletedRectTemplate builds a rounded rectangle as two crossed boxes
// (one shrunk by the fillet radius along each axis) unioned with four
// corner cylinders, per §4.D step 7's "rect/square ... fillet" case.
func filletedRectTemplate(k kernel.Kernel, width, height, zSpan, fillet float64) (solid.Solid, error) {
	if 2*fillet >= width || 2*fillet >= height {
		return solid.Box(k, width, height, zSpan)
	}

	wide, err := solid.Box(k, width, height-2*fillet, zSpan)
	if err != nil {
		return solid.Solid{}, err
	}
	tall, err := solid.Box(k, width-2*fillet, height, zSpan)
	if err != nil {
		return solid.Solid{}, err
	}
	body, err := wide.Union(tall)
	if err != nil {
		return solid.Solid{}, diag.Wrap(err, diag.BooleanFailed, "cutPattern", "fillet cross union failed", nil)
	}

	cx, cy := width/2-fillet, height/2-fillet
	corners := []struct{ x, y float64 }{
		{cx, cy}, {-cx, cy}, {cx, -cy}, {-cx, -cy},
	}
	for _, c := range corners {
		disk, err := solid.Cylinder(k, fillet, zSpan)
		if err != nil {
			return solid.Solid{}, err
		}
		disk = disk.Translate(c.x, c.y, 0)
		body, err = body.Union(disk)
		if err != nil {
			return solid.Solid{}, diag.Wrap(err, diag.BooleanFailed, "cutPattern", "fillet corner union failed", nil)
		}
	}
	return body, nil
}

// parallelogramTemplate builds a sheared rect via wire -> face ->
// extrude, per §4.D step 7's "shear != 0" case.
func parallelogramTemplate(sk kernel.SolidKernel, width, height, zSpan, shearDeg float64) (solid.Solid, error) {
	shear := math.Tan(shearDeg * math.Pi / 180)
	hw, hh := width/2, height/2
	pts := []kernel.Vec3{
		{X: -hw - shear*hh, Y: -hh},
		{X: hw - shear*hh, Y: -hh},
		{X: hw + shear*hh, Y: hh},
		{X: -hw + shear*hh, Y: hh},
	}
	wire := sk.MakeWire(pts)
	face, err := sk.MakeFace(wire)
	if err != nil {
		return solid.Solid{}, diag.Wrap(err, diag.KernelBuilderFailed, "cutPattern", "parallelogram face build failed", nil)
	}
	shape := sk.ExtrudeFace(face, kernel.Vec3{Z: zSpan})
	return solid.FromShape(sk, shape), nil
}
