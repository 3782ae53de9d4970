package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// sourceTexture is the image the ripple filter distorts.
type sourceTexture struct {
	textureID uint32
	width     int32
	height    int32
}

// vflip vertically flips the provided RGBA image so that row 0 ends up at the
// bottom of the GL texture, matching the mesh texcoords.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// checkerboard draws a two-tone grid of square cells, used when no
// background image is configured. Ripples read well against straight edges.
func checkerboard(width, height, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	light := color.RGBA{R: 0xe8, G: 0xec, B: 0xf2, A: 0xff}
	dark := color.RGBA{R: 0x2a, G: 0x4d, B: 0x7a, A: 0xff}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open background image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background image %s: %w", path, err)
	}
	return img, nil
}

// newSourceTexture uploads the image at path, or a checkerboard sized to the
// viewport when path is empty.
func newSourceTexture(path string, width, height int) (*sourceTexture, error) {
	var img image.Image
	if path == "" {
		img = checkerboard(width, height, 48)
		log.Printf("Using %dx%d checkerboard background", width, height)
	} else {
		var err error
		if img, err = loadImage(path); err != nil {
			return nil, err
		}
		log.Printf("Loaded background image %s", path)
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	rgba = vflip(rgba)

	t := &sourceTexture{
		width:  int32(rgba.Rect.Dx()),
		height: int32(rgba.Rect.Dy()),
	}
	gl.GenTextures(1, &t.textureID)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	// clamp so displaced lookups at the border do not wrap around
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return t, nil
}

func (t *sourceTexture) Destroy() {
	gl.DeleteTextures(1, &t.textureID)
}
