package pattern

import (
	"context"
	"math"
	"testing"

	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/kernel"
	"github.com/chazu/patterncut/pkg/solid"
)

// stubShape is a bounding-box-plus-volume shape good enough to exercise
// the orchestration in pattern.go without a real geometry backend:
// booleans approximate their result volume from the bbox overlap rather
// than tracking exact topology.
type stubShape struct {
	min, max kernel.Vec3
	vol      float64
}

func (s *stubShape) BoundingBox() (kernel.Vec3, kernel.Vec3) { return s.min, s.max }
func (s *stubShape) Volume() float64                         { return s.vol }

func bboxVolume(min, max kernel.Vec3) float64 {
	d := max.Sub(min)
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return 0
	}
	return d.X * d.Y * d.Z
}

func overlapBounds(aMin, aMax, bMin, bMax kernel.Vec3) (kernel.Vec3, kernel.Vec3) {
	min := kernel.Vec3{X: math.Max(aMin.X, bMin.X), Y: math.Max(aMin.Y, bMin.Y), Z: math.Max(aMin.Z, bMin.Z)}
	max := kernel.Vec3{X: math.Min(aMax.X, bMax.X), Y: math.Min(aMax.Y, bMax.Y), Z: math.Min(aMax.Z, bMax.Z)}
	return min, max
}

type stubKernel struct{}

func (stubKernel) Box(x, y, z float64) kernel.Shape {
	min := kernel.Vec3{X: -x / 2, Y: -y / 2}
	max := kernel.Vec3{X: x / 2, Y: y / 2, Z: z}
	return &stubShape{min: min, max: max, vol: bboxVolume(min, max)}
}

func (stubKernel) Cylinder(height, radius float64, _ int) kernel.Shape {
	min := kernel.Vec3{X: -radius, Y: -radius}
	max := kernel.Vec3{X: radius, Y: radius, Z: height}
	return &stubShape{min: min, max: max, vol: math.Pi * radius * radius * height}
}

func sb(s kernel.Shape) (kernel.Vec3, kernel.Vec3) { return s.BoundingBox() }

func (stubKernel) Union(a, b kernel.Shape) kernel.Shape {
	aMin, aMax := sb(a)
	bMin, bMax := sb(b)
	min := kernel.Vec3{X: math.Min(aMin.X, bMin.X), Y: math.Min(aMin.Y, bMin.Y), Z: math.Min(aMin.Z, bMin.Z)}
	max := kernel.Vec3{X: math.Max(aMax.X, bMax.X), Y: math.Max(aMax.Y, bMax.Y), Z: math.Max(aMax.Z, bMax.Z)}
	oMin, oMax := overlapBounds(aMin, aMax, bMin, bMax)
	vol := a.Volume() + b.Volume() - bboxVolume(oMin, oMax)
	if full := bboxVolume(min, max); vol > full {
		vol = full
	}
	return &stubShape{min: min, max: max, vol: vol}
}

func (stubKernel) Difference(a, b kernel.Shape) kernel.Shape {
	aMin, aMax := sb(a)
	bMin, bMax := sb(b)
	oMin, oMax := overlapBounds(aMin, aMax, bMin, bMax)
	vol := a.Volume() - bboxVolume(oMin, oMax)
	if vol < 0 {
		vol = 0
	}
	return &stubShape{min: aMin, max: aMax, vol: vol}
}

func (stubKernel) Intersection(a, b kernel.Shape) kernel.Shape {
	aMin, aMax := sb(a)
	bMin, bMax := sb(b)
	min, max := overlapBounds(aMin, aMax, bMin, bMax)
	return &stubShape{min: min, max: max, vol: bboxVolume(min, max)}
}

func (stubKernel) Translate(s kernel.Shape, v kernel.Vec3) kernel.Shape {
	min, max := sb(s)
	return &stubShape{min: min.Add(v), max: max.Add(v), vol: s.Volume()}
}

func (stubKernel) Rotate(s kernel.Shape, axis kernel.Vec3, angleDeg float64) kernel.Shape {
	min, max := sb(s)
	t := kernel.RotateAxis(axis, angleDeg)
	a, b := t.Apply(min), t.Apply(max)
	return &stubShape{
		min: kernel.Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		max: kernel.Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
		vol: s.Volume(),
	}
}

func (stubKernel) ToMesh(kernel.Shape) (*kernel.Mesh, error) { return &kernel.Mesh{}, nil }

func (stubKernel) RegularPrism(nSides int, flatToFlat, height float64) (kernel.Shape, error) {
	r := flatToFlat / 2
	min := kernel.Vec3{X: -r, Y: -r}
	max := kernel.Vec3{X: r, Y: r, Z: height}
	return &stubShape{min: min, max: max, vol: bboxVolume(min, max)}, nil
}

func (stubKernel) MakeWire(points []kernel.Vec3) kernel.Wire { return kernel.Wire{Points: points} }

func (stubKernel) MakeFace(w kernel.Wire) (kernel.Face, error) {
	return kernel.Face{Loop: w, Normal: kernel.Vec3{Z: 1}}, nil
}

func (stubKernel) ExtrudeFace(f kernel.Face, along kernel.Vec3) kernel.Shape {
	min, max := boundsOf(f.Loop.Points)
	top := max.Add(along)
	bot := min.Add(along)
	outMin := kernel.Vec3{X: math.Min(min.X, top.X), Y: math.Min(min.Y, top.Y), Z: math.Min(min.Z, bot.Z)}
	outMax := kernel.Vec3{X: math.Max(max.X, top.X), Y: math.Max(max.Y, top.Y), Z: math.Max(max.Z, top.Z)}
	return &stubShape{min: outMin, max: outMax, vol: bboxVolume(outMin, outMax)}
}

func boundsOf(pts []kernel.Vec3) (min, max kernel.Vec3) {
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min = kernel.Vec3{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = kernel.Vec3{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return min, max
}

func (stubKernel) Round(s kernel.Shape, _ float64) kernel.Shape { return s }
func (stubKernel) FilletEdge(s kernel.Shape, _ kernel.Edge, _ [2]kernel.Vec3, _ float64) kernel.Shape {
	return s
}
func (stubKernel) ChamferEdge(s kernel.Shape, _ kernel.Edge, _ [2]kernel.Vec3, _ float64) kernel.Shape {
	return s
}

var _ kernel.SolidKernel = stubKernel{}

func gripLineDescriptor() Descriptor {
	d := NewDescriptor(Line, 1.0)
	d.SpacingX, d.SpacingY = 2.0, 2.0
	d.Depth, d.HasDepth = 0.4, true
	d.BorderX, d.BorderY = 3.0, 3.0
	return d
}

func TestCutMonotonicVolume(t *testing.T) {
	box, err := solid.Box(stubKernel{}, 60, 40, 15)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	before := box.Shape().Volume()

	result, err := Cut(context.Background(), box.Faces(">Z"), gripLineDescriptor(), diag.NopSink{})
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	after := result.Shape().Volume()
	if !(after < before) {
		t.Errorf("Volume() after cut = %v, want strictly less than %v", after, before)
	}
}

func TestCutIdentityWhenUsableRegionEmpty(t *testing.T) {
	box, err := solid.Box(stubKernel{}, 10, 10, 10)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	d := NewDescriptor(Rect, 5)
	d.BorderX, d.BorderY = 100, 100 // border exceeds the face, no usable region

	result, err := Cut(context.Background(), box.Faces(">Z"), d, diag.NopSink{})
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if result.Shape().Volume() != box.Shape().Volume() {
		t.Errorf("Volume() = %v, want unchanged %v", result.Shape().Volume(), box.Shape().Volume())
	}
}

func TestCutIsDeterministic(t *testing.T) {
	d := gripLineDescriptor()
	box1, _ := solid.Box(stubKernel{}, 60, 40, 15)
	box2, _ := solid.Box(stubKernel{}, 60, 40, 15)

	r1, err := Cut(context.Background(), box1.Faces(">Z"), d, diag.NopSink{})
	if err != nil {
		t.Fatalf("Cut (1st): %v", err)
	}
	r2, err := Cut(context.Background(), box2.Faces(">Z"), d, diag.NopSink{})
	if err != nil {
		t.Fatalf("Cut (2nd): %v", err)
	}
	if r1.Shape().Volume() != r2.Shape().Volume() {
		t.Errorf("two Cut calls on identical input produced volumes %v and %v, want equal", r1.Shape().Volume(), r2.Shape().Volume())
	}
}

func TestCutRejectsCancelledContext(t *testing.T) {
	box, _ := solid.Box(stubKernel{}, 10, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Cut(ctx, box.Faces(">Z"), gripLineDescriptor(), diag.NopSink{})
	if err == nil {
		t.Error("expected an error for an already-cancelled context")
	}
}

func TestLinePositionsSpacingLaw(t *testing.T) {
	d := NewDescriptor(Line, 1.0)
	d.SpacingX, d.SpacingY = 2.0, 2.0
	d.BorderX, d.BorderY = 3.0, 3.0

	// Perpendicular (v) extent usable after border: 40 - 2*3 = 34.
	// pitch = width + spacingY = 1 + 2 = 3. floor(34/3)+1 = 11+1 = 12.
	layout := linePositions(60, 40, d)
	want := int(math.Floor((40-2*3)/(1+2))) + 1
	if len(layout.Positions) != want {
		t.Errorf("len(Positions) = %d, want %d", len(layout.Positions), want)
	}
	if layout.AlongV {
		t.Error("AlongV = true, want false for angle 0")
	}
	wantLength := 60.0 - 2*3
	if math.Abs(layout.Length-wantLength) > 1e-9 {
		t.Errorf("Length = %v, want %v", layout.Length, wantLength)
	}
}

func TestLinePositionsClampsToOne(t *testing.T) {
	d := NewDescriptor(Line, 5.0)
	d.SpacingX, d.SpacingY = 50.0, 50.0
	d.BorderX, d.BorderY = 1.0, 1.0

	layout := linePositions(20, 20, d)
	if len(layout.Positions) != 1 {
		t.Errorf("len(Positions) = %d, want 1 (clamped minimum)", len(layout.Positions))
	}
}

func TestLinePositionsEmptyWhenBorderExceedsRun(t *testing.T) {
	d := NewDescriptor(Line, 1.0)
	d.BorderX, d.BorderY = 100, 100

	layout := linePositions(20, 20, d)
	if layout.Length > 0 {
		t.Errorf("Length = %v, want <= 0 when the border consumes the whole run axis", layout.Length)
	}
}

func TestGridPositionsCentredAboutOrigin(t *testing.T) {
	d := NewDescriptor(Rect, 5)
	d.BorderX, d.BorderY = 2, 2
	d.SpacingX, d.SpacingY = 1, 1

	positions := gridPositions(50, 50, d)
	if len(positions) == 0 {
		t.Fatal("gridPositions returned no tiles")
	}
	var sumU, sumV float64
	for _, p := range positions {
		sumU += p.U
		sumV += p.V
	}
	if math.Abs(sumU) > 1e-6 || math.Abs(sumV) > 1e-6 {
		t.Errorf("grid centroid = (%v, %v), want (0, 0) for a symmetric grid", sumU, sumV)
	}
}

func TestFaceAlignmentTableIsPrincipalAxisOnly(t *testing.T) {
	cases := []struct {
		dominant kernel.Axis
		wantAxis kernel.Axis
		wantDeg  float64
	}{
		{kernel.AxisPlusZ, kernel.AxisPlusX, 0},
		{kernel.AxisMinusZ, kernel.AxisPlusX, 180},
		{kernel.AxisPlusX, kernel.AxisPlusY, 90},
		{kernel.AxisMinusX, kernel.AxisPlusY, -90},
		{kernel.AxisPlusY, kernel.AxisPlusX, -90},
		{kernel.AxisMinusY, kernel.AxisPlusX, 90},
	}
	for _, c := range cases {
		axis, deg := faceAlignment(c.dominant)
		if axis != c.wantAxis || deg != c.wantDeg {
			t.Errorf("faceAlignment(%v) = (%v, %v), want (%v, %v)", c.dominant, axis, deg, c.wantAxis, c.wantDeg)
		}
	}
}

func TestWholeModeKeepsOnlyFullyEnclosedCutters(t *testing.T) {
	k := stubKernel{}
	clip := k.Box(10, 10, 10)

	inside := k.Box(2, 2, 2) // fully enclosed, same footprint centre as clip
	straddle := k.Translate(k.Box(2, 2, 2), kernel.Vec3{X: 9}) // x 8..10, wholly outside the clip's x -5..5

	if !wholeModeKeeps(k, inside, clip) {
		t.Error("wholeModeKeeps(inside) = false, want true")
	}
	if wholeModeKeeps(k, straddle, clip) {
		t.Error("wholeModeKeeps(straddle) = true, want false")
	}
}

func TestFilterWholeModeDropsStraddlingCutters(t *testing.T) {
	k := stubKernel{}
	clip := k.Box(20, 20, 20) // footprint -10..10 in x and y, z 0..20

	fullyInside := k.Box(2, 2, 2)
	alsoInside := k.Translate(k.Box(2, 2, 2), kernel.Vec3{X: 3})
	straddling := k.Translate(k.Box(2, 2, 2), kernel.Vec3{X: 9.5})

	cutters := []kernel.Shape{fullyInside, alsoInside, straddling}
	kept := filterWholeMode(k, cutters, clip)

	if len(kept) != 2 {
		t.Fatalf("len(kept) = %d, want 2 (the straddling cutter dropped)", len(kept))
	}
	for _, c := range kept {
		if !wholeModeKeeps(k, c, clip) {
			t.Error("filterWholeMode kept a cutter that wholeModeKeeps rejects")
		}
	}
}
