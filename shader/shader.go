package shader

// ────────────────────────────────── Headers ─────────────────────────────────────

const headerGL = "#version 410 core\n"

const headerGLES = `#version 300 es
precision highp float;
precision highp int;
`

// Header returns the version preamble for the target GL flavour.
func Header(isGLES bool) string {
	if isGLES {
		return headerGLES
	}
	return headerGL
}

// ──────────────────────────────────── Blit ──────────────────────────────────────

const blitVertexShaderSource = `
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSource = `
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ────────────────────────────────── Public API ─────────────────────────────────

// GetBlitVertexShader returns the full-screen triangle pair vertex stage used to
// copy the offscreen target onto the window.
func GetBlitVertexShader(isGLES bool) string {
	return Header(isGLES) + blitVertexShaderSource
}

// GetBlitFragmentShader samples the offscreen target as is; both it and the
// window framebuffer are bottom-up.
func GetBlitFragmentShader(isGLES bool) string {
	return Header(isGLES) + blitFragmentShaderSource
}
