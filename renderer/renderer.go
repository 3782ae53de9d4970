package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gotouchripple/graphics"
	"github.com/richinsley/gotouchripple/options"
	"github.com/richinsley/gotouchripple/ripple"
	"github.com/richinsley/gotouchripple/shader"
)

var glInitOnce sync.Once

// RippleFilter is the filter surface the renderer drives: the generic
// post-processing hooks plus the ripple state setters.
type RippleFilter interface {
	graphics.Filter
	AddRipple(x, y, startTime float32)
	SetTime(t float32)
	SetScreenSize(width, height int)
}

type Renderer struct {
	context     graphics.Context
	filter      RippleFilter
	compiler    graphics.Compiler
	mesh        *gridMesh
	source      *sourceTexture
	offscreen   *OffscreenRenderer
	blitProgram graphics.Program
	quadVAO     uint32
	quadVBO     uint32
	mvp         mgl32.Mat4
	mvpLoc      int32
	textureLoc  int32
	width       int
	height      int
	recordMode  bool
	startTime   float64
	touches     int
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// NewRenderer makes ctx current, installs filter and allocates the mesh,
// background and offscreen target. In record mode the target keeps the
// configured size; otherwise it follows the window framebuffer.
func NewRenderer(ctx graphics.Context, filter RippleFilter, opts *options.RippleOptions) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		filter:     filter,
		compiler:   &GLCompiler{Translate: *opts.Translate},
		width:      *opts.Width,
		height:     *opts.Height,
		recordMode: *opts.Record,
		mvp:        mgl32.Ortho2D(0, 1, 0, 1),
	}

	r.context.MakeCurrent()
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if !r.recordMode {
		r.width, r.height = r.context.GetFramebufferSize()
	}

	if err := r.installFilter(); err != nil {
		return nil, err
	}

	var err error
	r.blitProgram, err = r.compiler.Compile(shader.GetBlitVertexShader(*opts.Translate), shader.GetBlitFragmentShader(*opts.Translate))
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}

	r.mesh = newGridMesh(*opts.GridSize, *opts.GridSize)
	r.initQuad()

	r.source, err = newSourceTexture(*opts.Background, r.width, r.height)
	if err != nil {
		r.Shutdown()
		return nil, err
	}

	r.offscreen, err = NewOffscreenRenderer(r.width, r.height, filter.RequiresDepth())
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
	}
	r.filter.SetScreenSize(r.width, r.height)
	r.startTime = r.context.Time()

	return r, nil
}

// installFilter (re)templates the filter and resolves the host uniforms on
// the resulting program. On failure the previous program and handles stay.
func (r *Renderer) installFilter() error {
	mvpLoc, textureLoc, err := installWithHostUniforms(r.filter, r.compiler)
	if err != nil {
		return err
	}
	r.mvpLoc, r.textureLoc = mvpLoc, textureLoc
	return nil
}

func installWithHostUniforms(f graphics.Filter, c graphics.Compiler) (int32, int32, error) {
	if err := f.Install(hostCompiler{c}); err != nil {
		return -1, -1, err
	}
	prog := f.Program()
	return prog.UniformLocation(shader.MVPUniform), prog.UniformLocation(shader.TextureUniform), nil
}

// Reload rebuilds the filter program, for example after a context loss.
func (r *Renderer) Reload() error {
	if err := r.installFilter(); err != nil {
		return fmt.Errorf("failed to reload ripple filter: %w", err)
	}
	log.Println("Ripple filter reloaded")
	return nil
}

func (r *Renderer) initQuad() {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) Shutdown() {
	if r.mesh != nil {
		r.mesh.Destroy()
	}
	if r.source != nil {
		r.source.Destroy()
	}
	if r.offscreen != nil {
		r.offscreen.Destroy()
	}
	if r.blitProgram != nil {
		r.blitProgram.Delete()
	}
	if r.quadVAO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
}

// Now returns seconds since the renderer was created on the context clock.
// It is the time base for ripple start times.
func (r *Renderer) Now() float64 {
	return r.context.Time() - r.startTime
}

// Touch converts a framebuffer pixel press into a ripple starting at t.
func (r *Renderer) Touch(px, py float64, t float64) {
	origin := ripple.OriginFromPixel(px, py, r.width, r.height)
	r.filter.AddRipple(origin.X(), origin.Y(), float32(t))
	r.touches++
}

// RenderFrame draws the filtered background into the offscreen target at
// time t.
func (r *Renderer) RenderFrame(t float64) {
	if !r.recordMode {
		fbWidth, fbHeight := r.context.GetFramebufferSize()
		if (fbWidth != r.width || fbHeight != r.height) && fbWidth > 0 && fbHeight > 0 {
			if err := r.offscreen.Resize(fbWidth, fbHeight); err != nil {
				log.Printf("Error resizing offscreen target: %v", err)
				return
			}
			r.width, r.height = fbWidth, fbHeight
			r.filter.SetScreenSize(fbWidth, fbHeight)
		}
	}

	r.filter.SetTime(float32(t))

	r.offscreen.Bind()
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	prog := r.filter.Program()
	prog.Use()
	prog.SetMat4(r.mvpLoc, r.mvp)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.source.textureID)
	prog.SetInt(r.textureLoc, 0)
	r.filter.Upload()
	r.mesh.Draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.offscreen.Unbind()
}

// Run drives the interactive loop until the window closes. Presses on the
// window start ripples.
func (r *Renderer) Run() {
	r.context.SetTouchHandler(func(x, y float64) {
		r.Touch(x, y, r.Now())
	})

	for !r.context.ShouldClose() {
		r.RenderFrame(r.Now())

		fbWidth, fbHeight := r.context.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		gl.Clear(gl.COLOR_BUFFER_BIT)
		r.blitProgram.Use()
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.offscreen.textureID)
		gl.BindVertexArray(r.quadVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		gl.BindTexture(gl.TEXTURE_2D, 0)

		r.context.EndFrame()
	}
	log.Printf("Interactive loop finished after %d touches", r.touches)
}
