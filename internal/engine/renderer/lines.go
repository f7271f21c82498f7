package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sectorview/internal/engine/debug"
	"github.com/Faultbox/sectorview/internal/engine/shader"
	"github.com/Faultbox/sectorview/pkg/math"
)

// LineLayer is a set of coloured debug lines kept on the GPU.
type LineLayer struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	count   int32
}

func newLineLayer() (*LineLayer, error) {
	program, err := shader.New(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, err
	}

	l := &LineLayer{program: program}
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)

	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)

	stride := int32(unsafe.Sizeof(debug.LineVertex{}))

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Color (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return l, nil
}

// Set replaces the lines. vertices are consumed in pairs.
func (l *LineLayer) Set(vertices []debug.LineVertex) {
	l.count = int32(len(vertices) &^ 1)
	if l.count == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	size := len(vertices) * int(unsafe.Sizeof(debug.LineVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw renders the lines with depth testing so walls hide them.
func (l *LineLayer) Draw(viewProj math.Mat4) {
	if l.count == 0 {
		return
	}

	l.program.Use()
	gl.UniformMatrix4fv(l.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.BindVertexArray(l.vao)
	gl.DrawArrays(gl.LINES, 0, l.count)
	gl.BindVertexArray(0)
}

func (l *LineLayer) delete() {
	if l.vao != 0 {
		gl.DeleteVertexArrays(1, &l.vao)
		l.vao = 0
	}
	if l.vbo != 0 {
		gl.DeleteBuffers(1, &l.vbo)
		l.vbo = 0
	}
	l.program.Delete()
}
