package renderer

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gotouchripple/graphics"
	"github.com/richinsley/gotouchripple/shader"
	xlate "github.com/richinsley/gotouchripple/translator"
)

// GLProgram is a linked program on the current context.
type GLProgram struct {
	id uint32
	// uniform renames introduced by the translator, empty when untranslated
	mapped map[string]string
}

var _ graphics.Program = (*GLProgram)(nil)

func (p *GLProgram) UniformLocation(name string) int32 {
	if m, ok := p.mapped[name]; ok {
		name = m
	}
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *GLProgram) Use() { gl.UseProgram(p.id) }

func (p *GLProgram) SetFloat(loc int32, v float32) { gl.Uniform1f(loc, v) }

func (p *GLProgram) SetVec2(loc int32, v mgl32.Vec2) { gl.Uniform2f(loc, v[0], v[1]) }

func (p *GLProgram) SetMat4(loc int32, m mgl32.Mat4) { gl.UniformMatrix4fv(loc, 1, false, &m[0]) }

func (p *GLProgram) SetInt(loc int32, v int32) { gl.Uniform1i(loc, v) }

func (p *GLProgram) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// GLCompiler compiles programs on the current context. With Translate set the
// sources are expected to be GLSL ES 3.00 and are rewritten for desktop GL
// by goshadertranslator first.
type GLCompiler struct {
	Translate bool
}

var _ graphics.Compiler = (*GLCompiler)(nil)

func (c *GLCompiler) Compile(vertex, fragment string) (graphics.Program, error) {
	mapped := make(map[string]string)
	if c.Translate {
		vs, err := xlate.ToDesktop(vertex, "vertex")
		if err != nil {
			return nil, err
		}
		fs, err := xlate.ToDesktop(fragment, "fragment")
		if err != nil {
			return nil, err
		}
		vertex, fragment = vs.Code, fs.Code
		for name, m := range vs.Uniforms {
			mapped[name] = m
		}
		for name, m := range fs.Uniforms {
			mapped[name] = m
		}
	}

	id, err := newProgram(vertex, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	return &GLProgram{id: id, mapped: mapped}, nil
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment stage: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}

// hostCompiler rejects programs that lack the uniforms the renderer sets
// itself, so a filter never commits to a program the renderer cannot drive.
type hostCompiler struct {
	graphics.Compiler
}

func (c hostCompiler) Compile(vertex, fragment string) (graphics.Program, error) {
	prog, err := c.Compiler.Compile(vertex, fragment)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{shader.MVPUniform, shader.TextureUniform} {
		if prog.UniformLocation(name) < 0 {
			prog.Delete()
			return nil, fmt.Errorf("uniform %s not found in ripple program", name)
		}
	}
	return prog, nil
}
