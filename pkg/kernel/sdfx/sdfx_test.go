package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/patterncut/pkg/kernel"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
}

func TestBoxBoundingBoxCentredFootprint(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := kernel.Vec3{X: -50, Y: -25, Z: 0}
	expectMax := kernel.Vec3{X: 50, Y: 25, Z: 25}

	if math.Abs(min.X-expectMin.X) > tol || math.Abs(min.Y-expectMin.Y) > tol || math.Abs(min.Z-expectMin.Z) > tol {
		t.Errorf("min = %v, want %v", min, expectMin)
	}
	if math.Abs(max.X-expectMax.X) > tol || math.Abs(max.Y-expectMax.Y) > tol || math.Abs(max.Z-expectMax.Z) > tol {
		t.Errorf("max = %v, want %v", max, expectMax)
	}
}

func TestCylinderSpansZeroToHeight(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10, 32)
	min, max := cyl.BoundingBox()
	const tol = 0.5
	if math.Abs(min.Z) > tol || math.Abs(max.Z-50) > tol {
		t.Errorf("cylinder z span = [%v,%v], want [0,50]", min.Z, max.Z)
	}
}

func TestDifference(t *testing.T) {
	k := New()
	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}
	cyl := k.Translate(k.Cylinder(120, 20, 32), kernel.Vec3{Z: -10})
	diff := k.Difference(box, cyl)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), kernel.Vec3{X: 30})
	u := k.Union(box1, box2)
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, kernel.Vec3{X: 100, Y: 200, Z: 300})
	min, max := translated.BoundingBox()
	const tol = 0.5
	if math.Abs(min.X-95) > tol || math.Abs(min.Y-195) > tol || math.Abs(min.Z-300) > tol {
		t.Errorf("min = %v, want ~{95 195 300}", min)
	}
	if math.Abs(max.X-105) > tol || math.Abs(max.Y-205) > tol || math.Abs(max.Z-310) > tol {
		t.Errorf("max = %v, want ~{105 205 310}", max)
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), kernel.Vec3{X: 50})
	inter := k.Intersection(box1, box2)
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestRotateAboutZ(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)
	rotated := k.Rotate(box, kernel.Vec3{Z: 1}, 90)
	min, max := rotated.BoundingBox()
	xExtent := max.X - min.X
	yExtent := max.Y - min.Y
	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestRegularPrismBoundingBox(t *testing.T) {
	k := New()
	hex, err := k.RegularPrism(6, 20, 5)
	if err != nil {
		t.Fatalf("RegularPrism: %v", err)
	}
	min, max := hex.BoundingBox()
	const tol = 0.5
	if math.Abs(min.Z) > tol || math.Abs(max.Z-5) > tol {
		t.Errorf("hex z span = [%v,%v], want [0,5]", min.Z, max.Z)
	}
	// Flat-to-flat is 20, so the Y extent (one flat horizontal) should
	// be exactly 20; the X extent (vertex-to-vertex) should exceed it.
	if math.Abs((max.Y-min.Y)-20) > tol {
		t.Errorf("hex Y extent = %v, want ~20", max.Y-min.Y)
	}
	if max.X-min.X <= 20+tol {
		t.Errorf("hex X extent = %v, want > 20 (vertex-to-vertex)", max.X-min.X)
	}
}

func TestMakeFaceNormal(t *testing.T) {
	k := New()
	w := k.MakeWire([]kernel.Vec3{{X: 0, Y: 0, Z: 10}, {X: 10, Y: 0, Z: 10}, {X: 10, Y: 10, Z: 10}, {X: 0, Y: 10, Z: 10}})
	f, err := k.MakeFace(w)
	if err != nil {
		t.Fatalf("MakeFace: %v", err)
	}
	if math.Abs(f.Normal.Z-1) > 1e-6 {
		t.Errorf("face normal = %v, want +Z", f.Normal)
	}
}

func TestMakeFaceDegenerate(t *testing.T) {
	k := New()
	w := k.MakeWire([]kernel.Vec3{{}, {}, {}})
	if _, err := k.MakeFace(w); err == nil {
		t.Error("MakeFace on a degenerate wire should error")
	}
}

func TestExtrudeFaceVolume(t *testing.T) {
	k := New()
	w := k.MakeWire([]kernel.Vec3{{X: -5, Y: -5, Z: 10}, {X: 5, Y: -5, Z: 10}, {X: 5, Y: 5, Z: 10}, {X: -5, Y: 5, Z: 10}})
	f, err := k.MakeFace(w)
	if err != nil {
		t.Fatalf("MakeFace: %v", err)
	}
	prism := k.ExtrudeFace(f, kernel.Vec3{Z: 3})
	got := prism.Volume()
	want := 10.0 * 10.0 * 3.0
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("ExtrudeFace volume = %v, want ~%v", got, want)
	}
}

func TestRoundPrimitiveRecipe(t *testing.T) {
	k := New()
	box := k.Box(20, 20, 20)
	rounded := k.Round(box, 3)
	if rounded.Volume() >= box.Volume() {
		t.Error("rounding a box should reduce its volume")
	}
}

func TestRoundCompositeIsNoOp(t *testing.T) {
	k := New()
	a := k.Box(20, 20, 20)
	b := k.Translate(k.Box(20, 20, 20), kernel.Vec3{X: 10})
	composite := k.Union(a, b)
	rounded := k.Round(composite, 3)
	if rounded != composite {
		t.Error("Round on a composite shape should return it unchanged")
	}
}
