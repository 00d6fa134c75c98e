package cv

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"
)

// Template is the grayscale reference image of the movable object.
// It is loaded once and only read afterwards.
type Template struct {
	Name   string
	Path   string
	Scale  float64
	Width  int
	Height int

	mat gocv.Mat
}

// LoadTemplate reads a template image from disk. A scale other than 0 or 1
// resizes it first, for templates captured at a different resolution.
func LoadTemplate(path string, scale float64) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := NewTemplate(name, img, scale)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

// NewTemplate builds a template from an in-memory image
func NewTemplate(name string, img image.Image, scale float64) (*Template, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("template %s: %w", name, ErrEmptyImage)
	}

	var filters []gift.Filter
	if scale > 0 && scale != 1 {
		width := int(math.Round(float64(bounds.Dx()) * scale))
		if width < 1 {
			return nil, fmt.Errorf("template %s: scale %.3f leaves nothing to match", name, scale)
		}
		filters = append(filters, gift.Resize(width, 0, gift.LanczosResampling))
	}
	filters = append(filters, gift.Grayscale())

	g := gift.New(filters...)
	gray := image.NewGray(g.Bounds(bounds))
	g.Draw(gray, img)

	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("template %s: failed to convert to matrix: %w", name, err)
	}

	if scale <= 0 {
		scale = 1
	}
	return &Template{
		Name:   name,
		Scale:  scale,
		Width:  mat.Cols(),
		Height: mat.Rows(),
		mat:    mat,
	}, nil
}

// Close releases the template matrix
func (t *Template) Close() error {
	return t.mat.Close()
}
