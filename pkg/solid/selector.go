package solid

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/patterncut/pkg/kernel"
)

// selectFaces evaluates the closed face-selector grammar §4.B
// specifies (direction words joined left-to-right by "and"/"or", no
// precedence). An unrecognized atom or malformed expression yields an
// empty result rather than an error.
func selectFaces(faces []kernel.Face, expr string) []kernel.Face {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return nil
	}
	result, ok := matchFaceDirection(faces, tokens[0])
	if !ok {
		return nil
	}
	for i := 1; i+1 < len(tokens); i += 2 {
		op := tokens[i]
		next, ok := matchFaceDirection(faces, tokens[i+1])
		if !ok {
			return nil
		}
		switch op {
		case "and":
			result = intersectFaces(result, next)
		case "or":
			result = unionFaces(result, next)
		default:
			return nil
		}
	}
	return result
}

// selectEdges evaluates the same grammar over edges, additionally
// recognizing the "|X"/"|Y"/"|Z" parallel-to-axis words.
func selectEdges(edges []kernel.Edge, expr string) []kernel.Edge {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return nil
	}
	result, ok := matchEdgeAtom(edges, tokens[0])
	if !ok {
		return nil
	}
	for i := 1; i+1 < len(tokens); i += 2 {
		op := tokens[i]
		next, ok := matchEdgeAtom(edges, tokens[i+1])
		if !ok {
			return nil
		}
		switch op {
		case "and":
			result = intersectEdges(result, next)
		case "or":
			result = unionEdges(result, next)
		default:
			return nil
		}
	}
	return result
}

const directionEps = 1e-6

func directionAxis(word string) (axis int, sign float64, ok bool) {
	if len(word) != 2 {
		return 0, 0, false
	}
	var s float64
	switch word[0] {
	case '>':
		s = 1
	case '<':
		s = -1
	default:
		return 0, 0, false
	}
	switch word[1] {
	case 'X', 'x':
		return 0, s, true
	case 'Y', 'y':
		return 1, s, true
	case 'Z', 'z':
		return 2, s, true
	}
	return 0, 0, false
}

func component(v kernel.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func faceCentroid(f kernel.Face) kernel.Vec3 {
	var sum kernel.Vec3
	for _, p := range f.Loop.Points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(f.Loop.Points)))
}

func edgeMidpoint(e kernel.Edge) kernel.Vec3 {
	return e.P0.Add(e.P1).Scale(0.5)
}

func matchFaceDirection(faces []kernel.Face, word string) ([]kernel.Face, bool) {
	axis, sign, ok := directionAxis(word)
	if !ok {
		return nil, false
	}
	return extremumFaces(faces, axis, sign), true
}

func extremumFaces(faces []kernel.Face, axis int, sign float64) []kernel.Face {
	if len(faces) == 0 {
		return nil
	}
	best := sign * component(faceCentroid(faces[0]), axis)
	for _, f := range faces[1:] {
		v := sign * component(faceCentroid(f), axis)
		if v > best {
			best = v
		}
	}
	var out []kernel.Face
	for _, f := range faces {
		v := sign * component(faceCentroid(f), axis)
		if math.Abs(v-best) < directionEps {
			out = append(out, f)
		}
	}
	return out
}

func matchEdgeAtom(edges []kernel.Edge, word string) ([]kernel.Edge, bool) {
	if len(word) == 2 && word[0] == '|' {
		var want kernel.Vec3
		switch word[1] {
		case 'X', 'x':
			want = kernel.Vec3{X: 1}
		case 'Y', 'y':
			want = kernel.Vec3{Y: 1}
		case 'Z', 'z':
			want = kernel.Vec3{Z: 1}
		default:
			return nil, false
		}
		return parallelEdges(edges, want), true
	}
	axis, sign, ok := directionAxis(word)
	if !ok {
		return nil, false
	}
	return extremumEdges(edges, axis, sign), true
}

func parallelEdges(edges []kernel.Edge, axis kernel.Vec3) []kernel.Edge {
	var out []kernel.Edge
	for _, e := range edges {
		dir := e.P1.Sub(e.P0)
		if dir.Length() < 1e-12 {
			continue
		}
		dir = dir.Normalize()
		if dir.Cross(axis).Length() < 1e-6 {
			out = append(out, e)
		}
	}
	return out
}

func extremumEdges(edges []kernel.Edge, axis int, sign float64) []kernel.Edge {
	if len(edges) == 0 {
		return nil
	}
	best := sign * component(edgeMidpoint(edges[0]), axis)
	for _, e := range edges[1:] {
		v := sign * component(edgeMidpoint(e), axis)
		if v > best {
			best = v
		}
	}
	var out []kernel.Edge
	for _, e := range edges {
		v := sign * component(edgeMidpoint(e), axis)
		if math.Abs(v-best) < directionEps {
			out = append(out, e)
		}
	}
	return out
}

func intersectFaces(a, b []kernel.Face) []kernel.Face {
	in := lo.SliceToMap(b, func(f kernel.Face) (string, bool) { return f.ID, true })
	return lo.Filter(a, func(f kernel.Face, _ int) bool { return in[f.ID] })
}

func unionFaces(a, b []kernel.Face) []kernel.Face {
	return lo.UniqBy(append(append([]kernel.Face{}, a...), b...), func(f kernel.Face) string { return f.ID })
}

func intersectEdges(a, b []kernel.Edge) []kernel.Edge {
	in := lo.SliceToMap(b, func(e kernel.Edge) (string, bool) { return e.ID, true })
	return lo.Filter(a, func(e kernel.Edge, _ int) bool { return in[e.ID] })
}

func unionEdges(a, b []kernel.Edge) []kernel.Edge {
	return lo.UniqBy(append(append([]kernel.Edge{}, a...), b...), func(e kernel.Edge) string { return e.ID })
}
