package kernel

import (
	"math"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// cubeMesh builds an outward-wound cube mesh of side length 2,
// centred at the origin.
func cubeMesh() *Mesh {
	v := []float32{
		-1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1, // back (z=-1): 0,1,2,3
		-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1, // front (z=1): 4,5,6,7
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
	}
	return &Mesh{Vertices: v, Indices: idx}
}

func TestMeshVolume(t *testing.T) {
	m := cubeMesh()
	got := m.Volume()
	want := 8.0 // 2x2x2 cube
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Volume() = %v, want %v", got, want)
	}
}

// --- Vec3 / Transform tests ---

func TestVec3Ops(t *testing.T) {
	a := Vec3{X: 1}
	b := Vec3{Y: 1}
	if got := a.Cross(b); got != (Vec3{Z: 1}) {
		t.Errorf("Cross = %v, want {0 0 1}", got)
	}
	if got := a.Dot(b); got != 0 {
		t.Errorf("Dot = %v, want 0", got)
	}
	sum := a.Add(b)
	if got := sum.Length(); math.Abs(got-math.Sqrt2) > 1e-9 {
		t.Errorf("Length = %v, want sqrt(2)", got)
	}
}

func TestDominantAxisTieBreak(t *testing.T) {
	tests := []struct {
		name string
		n    Vec3
		want Axis
	}{
		{"pure +Z", Vec3{Z: 1}, AxisPlusZ},
		{"pure -X", Vec3{X: -1}, AxisMinusX},
		{"pure +Y", Vec3{Y: 1}, AxisPlusY},
		{"z beats x", Vec3{X: 1, Z: 1}, AxisPlusZ},
		{"x beats y", Vec3{X: 1, Y: 1}, AxisPlusX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantAxis(tt.n); got != tt.want {
				t.Errorf("DominantAxis(%v) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestRotateThenTranslateComposition(t *testing.T) {
	// Composition order must apply rotation first, translation second
	// (§4.D step 8): T.Mul(R).Apply(p) == T.Apply(R.Apply(p)).
	trans := Translate(Vec3{X: 10})
	rot := RotateAxis(Vec3{Z: 1}, 90)
	composed := trans.Mul(rot)

	p := Vec3{X: 1}
	got := composed.Apply(p)
	want := trans.Apply(rot.Apply(p))

	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z-want.Z) > 1e-9 {
		t.Errorf("composed.Apply(p) = %v, want %v", got, want)
	}
	// 90 degrees about Z maps +X to +Y, then translate by +10 in X.
	if math.Abs(want.X-10) > 1e-9 || math.Abs(want.Y-1) > 1e-9 {
		t.Errorf("rotate-then-translate = %v, want {10 1 0}", want)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubShape is a minimal Shape implementation for testing.
type stubShape struct {
	minBB, maxBB Vec3
}

func (s *stubShape) BoundingBox() (min, max Vec3) { return s.minBB, s.maxBB }
func (s *stubShape) Volume() float64 {
	d := s.maxBB.Sub(s.minBB)
	return d.X * d.Y * d.Z
}

// stubKernel is a minimal Kernel implementation that proves the
// interface is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Shape {
	return &stubShape{minBB: Vec3{}, maxBB: Vec3{X: x, Y: y, Z: z}}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) Shape {
	return &stubShape{minBB: Vec3{X: -radius, Y: -radius}, maxBB: Vec3{X: radius, Y: radius, Z: height}}
}

func (k *stubKernel) Union(a, _ Shape) Shape        { return a }
func (k *stubKernel) Difference(a, _ Shape) Shape   { return a }
func (k *stubKernel) Intersection(a, _ Shape) Shape { return a }

func (k *stubKernel) Translate(s Shape, _ Vec3) Shape         { return s }
func (k *stubKernel) Rotate(s Shape, _ Vec3, _ float64) Shape { return s }

func (k *stubKernel) ToMesh(_ Shape) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Shape = (*stubShape)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(10, 20, 30)
	min, max := s.BoundingBox()
	if min != (Vec3{}) {
		t.Errorf("Box min = %v, want {0 0 0}", min)
	}
	if max != (Vec3{X: 10, Y: 20, Z: 30}) {
		t.Errorf("Box max = %v, want {10 20 30}", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(1, 1, 1)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}

func TestFuseAllCutAllIntersectAll(t *testing.T) {
	k := &stubKernel{}
	a := k.Box(1, 1, 1)
	b := k.Box(2, 2, 2)
	c := k.Box(3, 3, 3)

	if got := FuseAll(k, nil); got != nil {
		t.Errorf("FuseAll(nil) = %v, want nil", got)
	}
	if got := FuseAll(k, []Shape{a, b, c}); got != a {
		t.Errorf("FuseAll with stub Union (returns first arg) = %v, want %v", got, a)
	}
	if got := CutAll(k, a, []Shape{b, c}); got != a {
		t.Errorf("CutAll with stub Difference (returns target) = %v, want %v", got, a)
	}
	if got := IntersectAll(k, []Shape{a, b, c}); got != a {
		t.Errorf("IntersectAll with stub Intersection (returns first arg) = %v, want %v", got, a)
	}
}
