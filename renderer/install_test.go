package renderer

import (
	"regexp"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gotouchripple/effect"
	"github.com/richinsley/gotouchripple/graphics"
	"github.com/richinsley/gotouchripple/ripple"
	"github.com/richinsley/gotouchripple/shader"
)

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+);`)

type stubProgram struct {
	locs    map[string]int32
	deleted bool
}

func (p *stubProgram) UniformLocation(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	return -1
}
func (p *stubProgram) Use() {}
func (p *stubProgram) SetFloat(loc int32, v float32) {}
func (p *stubProgram) SetVec2(loc int32, v mgl32.Vec2) {}
func (p *stubProgram) SetMat4(loc int32, m mgl32.Mat4) {}
func (p *stubProgram) SetInt(loc int32, v int32) {}
func (p *stubProgram) Delete() { p.deleted = true }

// stubCompiler resolves every declared uniform except drop.
type stubCompiler struct {
	drop     string
	compiled []*stubProgram
}

func (c *stubCompiler) Compile(vertex, fragment string) (graphics.Program, error) {
	p := &stubProgram{locs: make(map[string]int32)}
	for _, m := range uniformDecl.FindAllStringSubmatch(vertex+fragment, -1) {
		if _, ok := p.locs[m[1]]; !ok && m[1] != c.drop {
			p.locs[m[1]] = int32(len(p.locs))
		}
	}
	c.compiled = append(c.compiled, p)
	return p, nil
}

func TestInstallWithHostUniforms(t *testing.T) {
	tr, err := effect.NewTouchRipple(2, ripple.DefaultParams(), false)
	if err != nil {
		t.Fatal(err)
	}
	c := &stubCompiler{}
	mvpLoc, textureLoc, err := installWithHostUniforms(tr, c)
	if err != nil {
		t.Fatal(err)
	}
	p := c.compiled[0]
	if mvpLoc != p.locs[shader.MVPUniform] || textureLoc != p.locs[shader.TextureUniform] {
		t.Errorf("Expected host handles %d/%d, got %d/%d", p.locs[shader.MVPUniform], p.locs[shader.TextureUniform], mvpLoc, textureLoc)
	}
}

// TestReloadMissingHostUniformKeepsProgram verifies a program lacking a host
// uniform is rejected before the filter switches to it
func TestReloadMissingHostUniformKeepsProgram(t *testing.T) {
	tr, _ := effect.NewTouchRipple(2, ripple.DefaultParams(), false)
	c := &stubCompiler{}
	if _, _, err := installWithHostUniforms(tr, c); err != nil {
		t.Fatal(err)
	}
	installed := tr.Program()

	for _, missing := range []string{shader.MVPUniform, shader.TextureUniform} {
		c.drop = missing
		_, _, err := installWithHostUniforms(tr, c)
		if err == nil || !strings.Contains(err.Error(), missing) {
			t.Fatalf("Expected error naming %s, got %v", missing, err)
		}
		if rejected := c.compiled[len(c.compiled)-1]; !rejected.deleted {
			t.Errorf("Expected the program without %s to be deleted", missing)
		}
		if tr.Program() != installed {
			t.Errorf("Expected the filter to keep its program after missing %s", missing)
		}
		if c.compiled[0].deleted {
			t.Error("Expected the installed program to survive a failed reload")
		}
	}
}
