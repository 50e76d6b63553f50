//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold
// provides guaranteed-manifold mesh boolean operations, an attractive
// alternative backend for the pairwise-boolean-heavy pattern/border
// engines — but this binding has no polygon-extrude entry point, so
// it implements the narrow kernel.Kernel surface only, not
// kernel.SolidKernel: wire/face/prism construction and edge
// fillet/chamfer stay on the sdfx backend.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/patterncut/pkg/kernel"
)

// Compile-time interface check. This backend does not implement
// kernel.SolidKernel (see package doc).
var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.Shape = (*manifoldShape)(nil)

// manifoldShape wraps a C ManifoldManifold pointer and implements kernel.Shape.
type manifoldShape struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldShape) BoundingBox() (min, max kernel.Vec3) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min = kernel.Vec3{
		X: float64(C.manifold_box_min_x(bbox)),
		Y: float64(C.manifold_box_min_y(bbox)),
		Z: float64(C.manifold_box_min_z(bbox)),
	}
	max = kernel.Vec3{
		X: float64(C.manifold_box_max_x(bbox)),
		Y: float64(C.manifold_box_max_y(bbox)),
		Z: float64(C.manifold_box_max_z(bbox)),
	}
	return min, max
}

// Volume queries Manifold's own native volume computation — unlike the
// sdfx backend, no mesh divergence-sum fallback is needed here.
func (s *manifoldShape) Volume() float64 {
	alloc := C.manifold_alloc_properties()
	props := C.manifold_get_properties(alloc, s.ptr)
	defer C.manifold_delete_properties(props)
	return float64(C.manifold_properties_volume(props))
}

// newShape wraps a C ManifoldManifold pointer with Go-side finalizer
// for automatic memory management.
func newShape(ptr *C.ManifoldManifold) *manifoldShape {
	s := &manifoldShape{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldShape) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Shape) *manifoldShape { return s.(*manifoldShape) }

// Kernel implements kernel.Kernel using the Manifold C library.
type Kernel struct{}

// New creates a new Kernel. In this build the returned error is
// always nil.
func New() (kernel.Kernel, error) {
	return &Kernel{}, nil
}

// Box creates a box centred on (0,0,height/2), matching the sdfx
// backend's convention: Manifold centres on all three axes natively,
// so the result is shifted up by height/2 after construction.
func (k *Kernel) Box(x, y, z float64) kernel.Shape {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cube(alloc, C.double(x), C.double(y), C.double(z), C.int(1))
	shifted := C.manifold_translate(C.manifold_alloc_manifold(), ptr, 0, 0, C.double(z/2))
	return newShape(shifted)
}

// Cylinder creates a cylinder along the Z axis spanning z=0..height,
// centred on the XY origin.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Shape {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cylinder(alloc,
		C.double(height),
		C.double(radius),
		C.double(radius),
		C.int(segments),
		C.int(1),
	)
	shifted := C.manifold_translate(C.manifold_alloc_manifold(), ptr, 0, 0, C.double(height/2))
	return newShape(shifted)
}

// Union returns the boolean union of two solids.
func (k *Kernel) Union(a, b kernel.Shape) kernel.Shape {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_union(alloc, unwrap(a).ptr, unwrap(b).ptr)
	return newShape(ptr)
}

// Difference returns the boolean difference (a minus b).
func (k *Kernel) Difference(a, b kernel.Shape) kernel.Shape {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_difference(alloc, unwrap(a).ptr, unwrap(b).ptr)
	return newShape(ptr)
}

// Intersection returns the boolean intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Shape) kernel.Shape {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_intersection(alloc, unwrap(a).ptr, unwrap(b).ptr)
	return newShape(ptr)
}

// Translate moves the solid by v.
func (k *Kernel) Translate(s kernel.Shape, v kernel.Vec3) kernel.Shape {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_translate(alloc, unwrap(s).ptr, C.double(v.X), C.double(v.Y), C.double(v.Z))
	return newShape(ptr)
}

// Rotate rotates the solid angleDeg degrees about axis. Manifold's
// native rotate takes independent Euler angles about X, Y, Z; a
// principal axis (the only case this core produces) maps onto a
// single non-zero angle.
func (k *Kernel) Rotate(s kernel.Shape, axis kernel.Vec3, angleDeg float64) kernel.Shape {
	n := axis.Normalize()
	var ex, ey, ez float64
	switch {
	case math.Abs(n.X) > 0.999:
		ex = angleDeg * math.Copysign(1, n.X)
	case math.Abs(n.Y) > 0.999:
		ey = angleDeg * math.Copysign(1, n.Y)
	default:
		ez = angleDeg * math.Copysign(1, n.Z)
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_rotate(alloc, unwrap(s).ptr, C.double(ex), C.double(ey), C.double(ez))
	return newShape(ptr)
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (k *Kernel) ToMesh(s kernel.Shape) (*kernel.Mesh, error) {
	ms := unwrap(s)

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propLen := numVert * numProp
	propData := make([]float32, propLen)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	triLen := numTri * 3
	indices := make([]uint32, triLen)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i*3+0] = propData[base+0]
		vertices[i*3+1] = propData[base+1]
		vertices[i*3+2] = propData[base+2]
		if hasNormals {
			normals[i*3+0] = propData[base+3]
			normals[i*3+1] = propData[base+4]
			normals[i*3+2] = propData[base+5]
		}
	}

	if !hasNormals {
		normals = computeFlatNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}

	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}

	return mesh, nil
}

// computeFlatNormals generates per-vertex normals by averaging the face normals
// of all triangles incident on each vertex. This is a fallback when MeshGL
// does not include normals in the vertex properties.
func computeFlatNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)

	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0 := indices[t*3+0]
		i1 := indices[t*3+1]
		i2 := indices[t*3+2]

		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	return normals
}
