package solid

import (
	"math"

	"github.com/google/uuid"

	"github.com/chazu/patterncut/pkg/kernel"
)

// newID returns a stable-enough identifier for a face or edge: stable
// across the rigid transforms that carry a face list forward (callers
// reuse the same ID when propagating), fresh whenever geometry is
// rebuilt from a bounding box after a boolean.
func newID() string { return uuid.NewString() }

// boxGeometry builds the exact analytic face/edge list for a box
// centred on (0,0,height/2), per §4.B's box placement convention.
func boxGeometry(length, width, height float64) ([]kernel.Face, []kernel.Edge) {
	hx, hy := length/2, width/2
	corners := func(z float64) [4]kernel.Vec3 {
		return [4]kernel.Vec3{
			{X: -hx, Y: -hy, Z: z},
			{X: hx, Y: -hy, Z: z},
			{X: hx, Y: hy, Z: z},
			{X: -hx, Y: hy, Z: z},
		}
	}
	bottom, top := corners(0), corners(height)

	type namedFace struct {
		loop   []kernel.Vec3
		normal kernel.Vec3
	}
	named := []namedFace{
		{[]kernel.Vec3{bottom[0], bottom[3], bottom[2], bottom[1]}, kernel.Vec3{Z: -1}},
		{[]kernel.Vec3{top[0], top[1], top[2], top[3]}, kernel.Vec3{Z: 1}},
		{[]kernel.Vec3{bottom[0], bottom[1], top[1], top[0]}, kernel.Vec3{Y: -1}},
		{[]kernel.Vec3{bottom[1], bottom[2], top[2], top[1]}, kernel.Vec3{X: 1}},
		{[]kernel.Vec3{bottom[2], bottom[3], top[3], top[2]}, kernel.Vec3{Y: 1}},
		{[]kernel.Vec3{bottom[3], bottom[0], top[0], top[3]}, kernel.Vec3{X: -1}},
	}

	faces := make([]kernel.Face, len(named))
	var edges []kernel.Edge
	for i, nf := range named {
		faces[i] = kernel.Face{ID: newID(), Loop: kernel.Wire{Points: nf.loop}, Normal: nf.normal}
		edges = append(edges, loopEdges(faces[i].ID, nf.loop)...)
	}
	return faces, mergeSharedEdges(edges)
}

// cylinderGeometry builds an analytic face list for a cylinder: a top
// and bottom circular face (discretized to segments points, each with
// a single circular boundary edge) and a lateral face whose normal is
// left as the zero vector, since it is not planar — frame.Analyze
// correctly rejects it as unanalyzable, matching §4.C's "general
// curved faces are not in scope".
func cylinderGeometry(height, radius float64, segments int) ([]kernel.Face, []kernel.Edge) {
	if segments < 3 {
		segments = 32
	}
	ring := func(z float64) []kernel.Vec3 {
		pts := make([]kernel.Vec3, segments)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = kernel.Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: z}
		}
		return pts
	}
	bottomRing, topRing := ring(0), ring(height)

	bottomID, topID, sideID := newID(), newID(), newID()
	faces := []kernel.Face{
		{ID: bottomID, Loop: kernel.Wire{Points: reverse(bottomRing)}, Normal: kernel.Vec3{Z: -1}},
		{ID: topID, Loop: kernel.Wire{Points: topRing}, Normal: kernel.Vec3{Z: 1}},
		{ID: sideID, Loop: kernel.Wire{Points: append(append([]kernel.Vec3{}, bottomRing...), topRing...)}, Normal: kernel.Vec3{}},
	}
	edges := []kernel.Edge{
		{ID: newID(), P0: bottomRing[0], P1: bottomRing[0], IsCircle: true, Centre: kernel.Vec3{Z: 0}, Radius: radius, FaceIDs: []string{bottomID, sideID}},
		{ID: newID(), P0: topRing[0], P1: topRing[0], IsCircle: true, Centre: kernel.Vec3{Z: height}, Radius: radius, FaceIDs: []string{topID, sideID}},
	}
	return faces, edges
}

func reverse(pts []kernel.Vec3) []kernel.Vec3 {
	out := make([]kernel.Vec3, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// prismGeometry builds the exact analytic face/edge list for a regular
// n-sided prism with apothem flatToFlat/2, spanning z=0..height, using
// the same vertex placement the sdfx backend's RegularPrism uses (one
// flat side horizontal).
func prismGeometry(nSides int, flatToFlat, height float64) ([]kernel.Face, []kernel.Edge) {
	apothem := flatToFlat / 2
	r := apothem / math.Cos(math.Pi/float64(nSides))

	ring := func(z float64) []kernel.Vec3 {
		pts := make([]kernel.Vec3, nSides)
		start := math.Pi/2 + math.Pi/float64(nSides)
		for i := 0; i < nSides; i++ {
			a := start + 2*math.Pi*float64(i)/float64(nSides)
			pts[i] = kernel.Vec3{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
		}
		return pts
	}
	bottomRing, topRing := ring(0), ring(height)

	var faces []kernel.Face
	var edges []kernel.Edge

	bottomFace := kernel.Face{ID: newID(), Loop: kernel.Wire{Points: reverse(bottomRing)}, Normal: kernel.Vec3{Z: -1}}
	topFace := kernel.Face{ID: newID(), Loop: kernel.Wire{Points: topRing}, Normal: kernel.Vec3{Z: 1}}
	faces = append(faces, bottomFace, topFace)
	edges = append(edges, loopEdges(bottomFace.ID, bottomFace.Loop.Points)...)
	edges = append(edges, loopEdges(topFace.ID, topFace.Loop.Points)...)

	for i := 0; i < nSides; i++ {
		j := (i + 1) % nSides
		loop := []kernel.Vec3{bottomRing[i], bottomRing[j], topRing[j], topRing[i]}
		mid := bottomRing[i].Add(bottomRing[j]).Scale(0.5)
		normal := kernel.Vec3{X: mid.X, Y: mid.Y}.Normalize()
		face := kernel.Face{ID: newID(), Loop: kernel.Wire{Points: loop}, Normal: normal}
		faces = append(faces, face)
		edges = append(edges, loopEdges(face.ID, loop)...)
	}

	return faces, mergeSharedEdges(edges)
}

// loopEdges builds one Edge per consecutive pair of loop points,
// tagged as belonging to faceID; mergeSharedEdges later unions the
// FaceIDs of edges that connect the same two endpoints from different
// faces.
func loopEdges(faceID string, loop []kernel.Vec3) []kernel.Edge {
	n := len(loop)
	edges := make([]kernel.Edge, n)
	for i := 0; i < n; i++ {
		p0, p1 := loop[i], loop[(i+1)%n]
		edges[i] = kernel.Edge{ID: newID(), P0: p0, P1: p1, FaceIDs: []string{faceID}}
	}
	return edges
}

// mergeSharedEdges merges edges whose endpoints coincide (in either
// direction) so each physical edge appears once with both owning
// faces recorded.
func mergeSharedEdges(edges []kernel.Edge) []kernel.Edge {
	const eps = 1e-9
	same := func(a, b kernel.Vec3) bool {
		return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
	}
	var out []kernel.Edge
	used := make([]bool, len(edges))
	for i := range edges {
		if used[i] {
			continue
		}
		e := edges[i]
		used[i] = true
		for j := i + 1; j < len(edges); j++ {
			if used[j] {
				continue
			}
			o := edges[j]
			if (same(e.P0, o.P0) && same(e.P1, o.P1)) || (same(e.P0, o.P1) && same(e.P1, o.P0)) {
				e.FaceIDs = append(e.FaceIDs, o.FaceIDs...)
				used[j] = true
			}
		}
		out = append(out, e)
	}
	return out
}

// bboxGeometry approximates a face/edge list from a bounding box
// alone: the best-effort fallback this core uses whenever a boolean
// (or a fillet/chamfer) invalidates the exact face list a primitive or
// rigid transform carried in. It is deliberately the same shape of
// result boxGeometry would produce for a box of that size, since a
// bounding box is the only thing a boolean result reliably offers.
func bboxGeometry(min, max kernel.Vec3) ([]kernel.Face, []kernel.Edge) {
	faces, edges := boxGeometry(max.X-min.X, max.Y-min.Y, max.Z-min.Z)
	centre := kernel.Vec3{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: min.Z}
	return transformFaces(faces, centre), transformEdges(edges, centre)
}

func transformFaces(faces []kernel.Face, shift kernel.Vec3) []kernel.Face {
	out := make([]kernel.Face, len(faces))
	for i, f := range faces {
		pts := make([]kernel.Vec3, len(f.Loop.Points))
		for j, p := range f.Loop.Points {
			pts[j] = p.Add(shift)
		}
		out[i] = kernel.Face{ID: f.ID, Loop: kernel.Wire{Points: pts}, Normal: f.Normal}
	}
	return out
}

func transformEdges(edges []kernel.Edge, shift kernel.Vec3) []kernel.Edge {
	out := make([]kernel.Edge, len(edges))
	for i, e := range edges {
		out[i] = kernel.Edge{
			ID: e.ID, P0: e.P0.Add(shift), P1: e.P1.Add(shift),
			IsCircle: e.IsCircle, Centre: e.Centre.Add(shift), Radius: e.Radius,
			FaceIDs: e.FaceIDs,
		}
	}
	return out
}

// applyTransform propagates a rigid transform through a face/edge
// list exactly: §4.B's "exact for primitives/rigid transforms"
// guarantee.
func applyTransform(faces []kernel.Face, edges []kernel.Edge, t kernel.Transform) ([]kernel.Face, []kernel.Edge) {
	outFaces := make([]kernel.Face, len(faces))
	for i, f := range faces {
		pts := make([]kernel.Vec3, len(f.Loop.Points))
		for j, p := range f.Loop.Points {
			pts[j] = t.Apply(p)
		}
		outFaces[i] = kernel.Face{ID: f.ID, Loop: kernel.Wire{Points: pts}, Normal: t.ApplyVector(f.Normal).Normalize()}
	}
	outEdges := make([]kernel.Edge, len(edges))
	for i, e := range edges {
		outEdges[i] = kernel.Edge{
			ID: e.ID, P0: t.Apply(e.P0), P1: t.Apply(e.P1),
			IsCircle: e.IsCircle, Centre: t.Apply(e.Centre), Radius: e.Radius,
			FaceIDs: e.FaceIDs,
		}
	}
	return outFaces, outEdges
}
