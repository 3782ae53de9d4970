package shader

import (
	"fmt"
	"strings"
)

// Placeholder tokens substituted by GenerateSource.
const (
	DeclarationsToken = "#RIPPLE_DECLARATIONS#"
	StatementsToken   = "#RIPPLE_STATEMENTS#"
)

// Global uniform names shared by every ripple program.
const (
	TimeUniform     = "u_Time"
	DurationUniform = "u_Duration"
	SpeedUniform    = "u_RippleSpeed"
	SizeUniform     = "u_RippleSize"
	AspectUniform   = "u_Aspect"

	MVPUniform     = "u_MVPMatrix"
	TextureUniform = "u_Texture"
)

// Vertex attribute locations expected by the ripple vertex stage.
const (
	PositionAttrib = 0
	TexCoordAttrib = 1
	ColorAttrib    = 2
)

// Template is a shader body with the two ripple placeholders and the
// per-index snippets that replace them. Snippets use %[1]d for the index.
type Template struct {
	Source      string
	Declaration string
	Statement   string
}

var RippleVertex = Template{
	Source: `
layout (location = 0) in vec4 a_Position;
layout (location = 1) in vec2 a_TexCoord;
layout (location = 2) in vec4 a_Color;

uniform mat4  u_MVPMatrix;
uniform float u_Time;
uniform float u_Duration;
uniform float u_RippleSpeed;
uniform float u_RippleSize;
uniform vec2  u_Aspect;

out vec2 v_TexCoord;
out vec4 v_Color;

#RIPPLE_DECLARATIONS#
const float PI = 3.14159265358979;

vec2 processRipple(vec2 origin, float elapsed) {
    if (u_Duration <= 0.0 || u_RippleSize <= 0.0 || elapsed > u_Duration) {
        return vec2(0.0);
    }
    float completeness = elapsed / u_Duration;

    // surface position is y-down so it shares the origin's space
    vec2 position = vec2(a_Position.x, 1.0 - a_Position.y) * u_Aspect;
    vec2 center = origin * u_Aspect;

    float dist = distance(center, position);
    float radius = u_RippleSpeed * elapsed;
    float ripplePos = (dist - radius) / (u_RippleSize / 2.0);
    if (ripplePos < -1.0 || ripplePos > 1.0 || dist == 0.0) {
        return vec2(0.0);
    }

    vec2 direction = normalize(center - position);
    float fade = 1.0 - completeness;
    float amplitude = fade * fade * fade * u_RippleSize;
    vec2 displacement = direction * sin(ripplePos * PI) * amplitude;
    // texture coordinates are y-up
    return vec2(displacement.x, -displacement.y);
}

void main() {
    v_TexCoord = a_TexCoord;
    v_Color = a_Color;
#RIPPLE_STATEMENTS#
    gl_Position = u_MVPMatrix * a_Position;
}
`,
	Declaration: "uniform vec2  u_RippleOrigin%[1]d;\nuniform float u_RippleStart%[1]d;\nout vec2 v_Displacement%[1]d;\n",
	Statement:   "    v_Displacement%[1]d = processRipple(u_RippleOrigin%[1]d, u_Time - u_RippleStart%[1]d);\n",
}

var RippleFragment = Template{
	Source: `
in vec2 v_TexCoord;
in vec4 v_Color;
#RIPPLE_DECLARATIONS#
uniform sampler2D u_Texture;

out vec4 fragColor;

void main() {
    vec2 displacement = vec2(0.0);
#RIPPLE_STATEMENTS#
    fragColor = texture(u_Texture, v_TexCoord + displacement) * v_Color;
}
`,
	Declaration: "in vec2 v_Displacement%[1]d;\n",
	Statement:   "    displacement += v_Displacement%[1]d;\n",
}

// GenerateSource expands the declaration and statement placeholders of t with
// n copies of the per-index snippets. The output depends only on t and n.
func GenerateSource(t Template, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("ripple count must be positive, got %d", n)
	}
	if !strings.Contains(t.Source, DeclarationsToken) || !strings.Contains(t.Source, StatementsToken) {
		return "", fmt.Errorf("template is missing %s or %s", DeclarationsToken, StatementsToken)
	}

	var decls, stmts strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&decls, t.Declaration, i)
		fmt.Fprintf(&stmts, t.Statement, i)
	}

	src := strings.ReplaceAll(t.Source, DeclarationsToken, decls.String())
	return strings.ReplaceAll(src, StatementsToken, stmts.String()), nil
}

// VertexShader returns the complete ripple vertex stage for n ripples.
func VertexShader(n int, isGLES bool) (string, error) {
	body, err := GenerateSource(RippleVertex, n)
	if err != nil {
		return "", fmt.Errorf("vertex template: %w", err)
	}
	return Header(isGLES) + body, nil
}

// FragmentShader returns the complete ripple fragment stage for n ripples.
func FragmentShader(n int, isGLES bool) (string, error) {
	body, err := GenerateSource(RippleFragment, n)
	if err != nil {
		return "", fmt.Errorf("fragment template: %w", err)
	}
	return Header(isGLES) + body, nil
}

func OriginUniform(i int) string { return fmt.Sprintf("u_RippleOrigin%d", i) }
func StartUniform(i int) string { return fmt.Sprintf("u_RippleStart%d", i) }

// UniformNames lists the 2n+5 uniforms the ripple effect uploads every frame:
// per-index origins and start times followed by the five globals.
func UniformNames(n int) []string {
	names := make([]string, 0, 2*n+5)
	for i := 0; i < n; i++ {
		names = append(names, OriginUniform(i), StartUniform(i))
	}
	return append(names, TimeUniform, DurationUniform, SpeedUniform, SizeUniform, AspectUniform)
}
