package graphics

// TouchHandler receives a press in framebuffer pixels, origin top-left.
type TouchHandler func(x, y float64)

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// SetTouchHandler registers the function called for every primary press.
	SetTouchHandler(h TouchHandler)
}
