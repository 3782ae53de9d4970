package shader

import (
	"strings"
	"testing"
)

// TestGenerateSourceCounts verifies one set of declarations per ripple
func TestGenerateSourceCounts(t *testing.T) {
	for n := 1; n <= 8; n++ {
		vs, err := VertexShader(n, false)
		if err != nil {
			t.Fatalf("VertexShader(%d) failed: %v", n, err)
		}
		fs, err := FragmentShader(n, false)
		if err != nil {
			t.Fatalf("FragmentShader(%d) failed: %v", n, err)
		}

		counts := []struct {
			src  string
			text string
		}{
			{vs, "uniform vec2  u_RippleOrigin"},
			{vs, "uniform float u_RippleStart"},
			{vs, "out vec2 v_Displacement"},
			{vs, "= processRipple(u_RippleOrigin"},
			{fs, "in vec2 v_Displacement"},
			{fs, "displacement += v_Displacement"},
		}
		for _, c := range counts {
			if got := strings.Count(c.src, c.text); got != n {
				t.Errorf("N=%d: expected %d occurrences of %q, got %d", n, n, c.text, got)
			}
		}

		for i := 0; i < n; i++ {
			if !strings.Contains(vs, OriginUniform(i)+";") {
				t.Errorf("N=%d: missing declaration of %s", n, OriginUniform(i))
			}
			if !strings.Contains(vs, StartUniform(i)+";") {
				t.Errorf("N=%d: missing declaration of %s", n, StartUniform(i))
			}
		}

		for _, src := range []string{vs, fs} {
			if strings.Contains(src, DeclarationsToken) || strings.Contains(src, StatementsToken) {
				t.Errorf("N=%d: placeholder left in generated source", n)
			}
		}
	}
}

// TestGenerateSourceDeterministic verifies repeated templating is byte-identical
func TestGenerateSourceDeterministic(t *testing.T) {
	first, err := GenerateSource(RippleVertex, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := GenerateSource(RippleVertex, 5)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("Expected identical source on run %d", i)
		}
	}
}

func TestGenerateSourceRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		if _, err := GenerateSource(RippleFragment, n); err == nil {
			t.Errorf("Expected error for n=%d", n)
		}
	}
}

func TestGenerateSourceRequiresPlaceholders(t *testing.T) {
	tmpl := Template{Source: "void main() {}", Declaration: "x%[1]d", Statement: "y%[1]d"}
	if _, err := GenerateSource(tmpl, 1); err == nil {
		t.Error("Expected error for template without placeholders")
	}
}

func TestUniformNames(t *testing.T) {
	names := UniformNames(3)
	if len(names) != 2*3+5 {
		t.Fatalf("Expected %d names, got %d", 2*3+5, len(names))
	}
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("Duplicate uniform name %s", name)
		}
		seen[name] = true
	}
	for _, want := range []string{"u_RippleOrigin2", "u_RippleStart0", TimeUniform, AspectUniform} {
		if !seen[want] {
			t.Errorf("Expected %s in uniform names", want)
		}
	}
}

func TestHeaders(t *testing.T) {
	vs, _ := VertexShader(1, true)
	if !strings.HasPrefix(vs, "#version 300 es") {
		t.Errorf("Expected GLES header, got %q", vs[:20])
	}
	fs, _ := FragmentShader(1, false)
	if !strings.HasPrefix(fs, "#version 410 core") {
		t.Errorf("Expected desktop header, got %q", fs[:20])
	}
	if !strings.HasPrefix(GetBlitFragmentShader(true), "#version 300 es") {
		t.Error("Expected GLES header on the blit shader")
	}
	if !strings.Contains(GetBlitFragmentShader(false), "texture(u_texture, frag_uv)") {
		t.Error("Expected blit shader to sample frag_uv directly")
	}
}

// TestProcessRippleGuards checks the wave is disabled for degenerate
// parameters and its result is returned in y-up texture space
func TestProcessRippleGuards(t *testing.T) {
	vs, err := VertexShader(2, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"u_Duration <= 0.0 || u_RippleSize <= 0.0 || elapsed > u_Duration",
		"dist == 0.0",
		"return vec2(displacement.x, -displacement.y);",
	} {
		if !strings.Contains(vs, want) {
			t.Errorf("Expected vertex shader to contain %q", want)
		}
	}
}
