package translator

import (
	"context"
	"fmt"
	"log"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	initOnce   sync.Once
)

// GetTranslator returns the process-wide shader translator, creating it on
// first use. The wasm runtime behind it is expensive to start.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = fmt.Errorf("failed to start shader translator: %w", initErr)
			return
		}
		log.Println("Shader translator initialized")
	})
	return translator, initErr
}

// Translated is a stage rewritten for desktop GL plus the rename map for
// its uniforms.
type Translated struct {
	Code     string
	Uniforms map[string]string
}

// ToDesktop translates WebGL2 (GLSL ES 3.00) source of the given stage
// ("vertex" or "fragment") to GLSL 4.10.
func ToDesktop(source, stage string) (*Translated, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, err
	}
	out, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	uniforms := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		uniforms[name] = v.MappedName
	}
	return &Translated{Code: out.Code, Uniforms: uniforms}, nil
}
