package cv

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patternImage returns a textured size×size grayscale patch. A flat patch
// has zero variance, which normalized correlation cannot score.
func patternImage(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(30 + 20*x + 5*y)})
		}
	}
	return img
}

func newTestTemplate(t *testing.T) *Template {
	t.Helper()
	tmpl, err := NewTemplate("object", patternImage(10), 1)
	require.NoError(t, err)
	t.Cleanup(func() { tmpl.Close() })
	return tmpl
}

// canvas returns a black RGBA canvas with the pattern drawn at offset
func canvas(width, height int, offset image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	patch := patternImage(10)
	draw.Draw(img, patch.Bounds().Add(offset), patch, image.Point{}, draw.Src)
	return img
}

func whiteRow(img *image.RGBA, row int) {
	for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
		img.Set(x, row, color.White)
	}
}

func newTestFrame(t *testing.T, img image.Image) *Frame {
	t.Helper()
	frame, err := NewFrameFromImage(img)
	require.NoError(t, err)
	t.Cleanup(func() { frame.Close() })
	return frame
}

func TestNewTemplateCachesSize(t *testing.T) {
	tmpl := newTestTemplate(t)
	assert.Equal(t, 10, tmpl.Width)
	assert.Equal(t, 10, tmpl.Height)
	assert.Equal(t, 1.0, tmpl.Scale)
}

func TestNewTemplateScales(t *testing.T) {
	tmpl, err := NewTemplate("object", patternImage(10), 2)
	require.NoError(t, err)
	defer tmpl.Close()

	assert.Equal(t, 20, tmpl.Width)
	assert.Equal(t, 20, tmpl.Height)
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate("does-not-exist.png", 1)
	assert.Error(t, err)
}

func TestLocateKnownOffset(t *testing.T) {
	tmpl := newTestTemplate(t)
	locator := NewLocator(tmpl, 0)

	offsets := []image.Point{{40, 60}, {0, 0}, {90, 90}, {13, 71}}
	for _, offset := range offsets {
		frame := newTestFrame(t, canvas(100, 100, offset))

		match, err := locator.Locate(frame)
		require.NoError(t, err)
		assert.Equal(t, Point{X: offset.X, Y: offset.Y}, match.Box.TopLeft(), "offset %v", offset)
		assert.Equal(t, Point{X: offset.X + 10, Y: offset.Y + 10}, match.Box.BottomRight())
		assert.InDelta(t, 1.0, match.Confidence, 1e-3)
	}
}

func TestLocateGrayscaleFrame(t *testing.T) {
	tmpl := newTestTemplate(t)

	gray := image.NewGray(image.Rect(0, 0, 100, 100))
	draw.Draw(gray, image.Rect(40, 60, 50, 70), patternImage(10), image.Point{}, draw.Src)
	frame := newTestFrame(t, gray)
	require.True(t, frame.IsGray())

	match, err := NewLocator(tmpl, 0).Locate(frame)
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}, match.Box)
}

func TestLocateTemplateTooLarge(t *testing.T) {
	tmpl := newTestTemplate(t)
	frame := newTestFrame(t, image.NewRGBA(image.Rect(0, 0, 8, 50)))

	_, err := NewLocator(tmpl, 0).Locate(frame)
	assert.ErrorIs(t, err, ErrTemplateTooLarge)
}

func TestLocateConfidenceGate(t *testing.T) {
	tmpl := newTestTemplate(t)

	// Object absent: only a white line to correlate against
	img := canvas(100, 100, image.Point{-20, -20})
	whiteRow(img, 50)
	frame := newTestFrame(t, img)

	// Gate disabled: a spurious but well-formed box comes back
	match, err := NewLocator(tmpl, 0).Locate(frame)
	require.NoError(t, err)
	assert.Equal(t, 10, match.Box.Width())
	assert.Equal(t, 10, match.Box.Height())

	_, err = NewLocator(tmpl, 0.99).Locate(frame)
	var degenerate *DegenerateMatchError
	require.True(t, errors.As(err, &degenerate))
	assert.Less(t, degenerate.Confidence, 0.99)
	assert.Equal(t, 0.99, degenerate.MinConfidence)
}
