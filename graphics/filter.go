package graphics

import "github.com/go-gl/mathgl/mgl32"

// Program is a linked shader program owned by the host.
type Program interface {
	// UniformLocation returns the handle for a uniform, or -1 if the linked
	// program has no such uniform.
	UniformLocation(name string) int32
	Use()
	SetFloat(loc int32, v float32)
	SetVec2(loc int32, v mgl32.Vec2)
	SetMat4(loc int32, m mgl32.Mat4)
	SetInt(loc int32, v int32)
	Delete()
}

// Compiler builds a Program from vertex and fragment source.
type Compiler interface {
	Compile(vertex, fragment string) (Program, error)
}

// Filter is a post-processing effect drawn once per frame by the host.
type Filter interface {
	VertexShader() string
	FragmentShader() string
	// Install (re)generates the shader source, compiles it and resolves every
	// uniform the filter uploads. Calling it again after a program swap is
	// required before the next Upload.
	Install(c Compiler) error
	// Program returns the program produced by the last Install.
	Program() Program
	// Upload writes the per-frame uniforms. The program must be bound.
	Upload()
	RequiresDepth() bool
}
