package kernel

// Mesh is a triangle mesh produced by a kernel backend's marching-cubes
// (or equivalent) renderer. It is not used for display here — the live
// preview / export pipeline is out of scope — but backs Volume() and
// backing test assertions.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Label    string    `json:"label"`    // optional caller-assigned tag
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Volume computes the enclosed volume of a closed, consistently-wound
// triangle mesh via the divergence theorem: summing the signed volume
// of the tetrahedron formed by each triangle and the origin. Winding
// direction determines sign, so the result is always reported as a
// non-negative magnitude.
func (m *Mesh) Volume() float64 {
	var sum float64
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
		ax, ay, az := float64(m.Vertices[i0*3]), float64(m.Vertices[i0*3+1]), float64(m.Vertices[i0*3+2])
		bx, by, bz := float64(m.Vertices[i1*3]), float64(m.Vertices[i1*3+1]), float64(m.Vertices[i1*3+2])
		cx, cy, cz := float64(m.Vertices[i2*3]), float64(m.Vertices[i2*3+1]), float64(m.Vertices[i2*3+2])

		// Signed volume of the tetrahedron (origin, a, b, c) = (a . (b x c)) / 6.
		cross := [3]float64{by*cz - bz*cy, bz*cx - bx*cz, bx*cy - by*cx}
		sum += (ax*cross[0] + ay*cross[1] + az*cross[2]) / 6
	}
	if sum < 0 {
		sum = -sum
	}
	return sum
}
