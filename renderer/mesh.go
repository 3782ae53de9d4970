package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/gotouchripple/shader"
)

// floats per vertex: position vec4, texcoord vec2, color vec4
const vertexStride = 4 + 2 + 4

// gridMesh is a tessellated unit square. Displacement is computed per vertex,
// so the ring resolution is bounded by the grid density.
type gridMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// buildGrid returns interleaved vertices and triangle indices for a
// cols x rows grid spanning [0,1]^2, y up.
func buildGrid(cols, rows int) ([]float32, []uint32) {
	vertices := make([]float32, 0, (cols+1)*(rows+1)*vertexStride)
	for j := 0; j <= rows; j++ {
		v := float32(j) / float32(rows)
		for i := 0; i <= cols; i++ {
			u := float32(i) / float32(cols)
			vertices = append(vertices,
				u, v, 0, 1,
				u, v,
				1, 1, 1, 1,
			)
		}
	}

	indices := make([]uint32, 0, cols*rows*6)
	stride := uint32(cols + 1)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			bl := uint32(j)*stride + uint32(i)
			br := bl + 1
			tl := bl + stride
			tr := tl + 1
			indices = append(indices, bl, br, tr, bl, tr, tl)
		}
	}
	return vertices, indices
}

func newGridMesh(cols, rows int) *gridMesh {
	vertices, indices := buildGrid(cols, rows)
	m := &gridMesh{indexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.EnableVertexAttribArray(shader.PositionAttrib)
	gl.VertexAttribPointer(shader.PositionAttrib, 4, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shader.TexCoordAttrib)
	gl.VertexAttribPointer(shader.TexCoordAttrib, 2, gl.FLOAT, false, stride, gl.PtrOffset(4*4))
	gl.EnableVertexAttribArray(shader.ColorAttrib)
	gl.VertexAttribPointer(shader.ColorAttrib, 4, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

func (m *gridMesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (m *gridMesh) Destroy() {
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
