package cv

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEdgesBlanksObject(t *testing.T) {
	img := canvas(100, 100, image.Point{40, 60})
	for row := 30; row < 35; row++ {
		whiteRow(img, row)
	}
	frame := newTestFrame(t, img)
	box := BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}

	edges, err := ExtractEdges(frame, box, DefaultEdgeConfig())
	require.NoError(t, err)
	require.Equal(t, 100, edges.Width())
	require.Equal(t, 100, edges.Height())

	bandEdges := 0
	for row := 0; row < edges.Height(); row++ {
		for col := 0; col < edges.Width(); col++ {
			v := edges.At(row, col)
			require.True(t, v == 0 || v == EdgeValue, "pixel (%d,%d) = %d", row, col, v)
			if box.Contains(Point{X: col, Y: row}) {
				require.Zero(t, v, "object pixel (%d,%d) not blanked", row, col)
			}
			if row >= 28 && row <= 37 && v == EdgeValue {
				bandEdges++
			}
		}
	}
	assert.Positive(t, bandEdges, "bar outline should produce edges")
}

func TestExtractEdgesRejectsEvenKernel(t *testing.T) {
	frame := newTestFrame(t, canvas(50, 50, image.Point{10, 10}))
	cfg := DefaultEdgeConfig()
	cfg.BlurKernel = 4

	_, err := ExtractEdges(frame, BoundingBox{}, cfg)
	assert.Error(t, err)
}

// Object at (40,60) and a line at row 20, above the band of rows 25..49:
// the object is found but the band holds no edge.
func TestMeasureBandRestriction(t *testing.T) {
	tmpl := newTestTemplate(t)
	img := canvas(100, 100, image.Point{40, 60})
	whiteRow(img, 20)
	frame := newTestFrame(t, img)

	match, err := NewLocator(tmpl, 0).Locate(frame)
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}, match.Box)

	_, err = NewService(tmpl, DefaultOptions()).Measure(frame)
	assert.ErrorIs(t, err, ErrMissingEdge)
}

// Object at (40,60) and an edge line at row 30 spanning every column.
func TestMeasureLineInsideBand(t *testing.T) {
	tmpl := newTestTemplate(t)
	frame := newTestFrame(t, canvas(100, 100, image.Point{40, 60}))

	match, err := NewLocator(tmpl, 0).Locate(frame)
	require.NoError(t, err)
	require.Equal(t, BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}, match.Box)

	edges := NewEdgeMap(100, 100)
	horizontalLine(edges, 30, 0, 99)
	edges.Blank(match.Box)

	start, end := DefaultScanBand().Rows(edges.Height())
	anchor, ok := findLaunchEdge(edges, start, end)
	require.True(t, ok)
	assert.Equal(t, Point{X: 0, Y: 30}, anchor)

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 0, Y: 30}, center)

	launch := match.Box.LaunchPoint()
	assert.Equal(t, Point{X: 45, Y: 70}, launch)
	assert.InDelta(t, 60.2079, Distance(launch, center), 1e-3)
}

// A 1px white row at 30: Canny outlines it on the rows just above and
// below, and the object sits below the band.
func TestMeasureThinLine(t *testing.T) {
	tmpl := newTestTemplate(t)
	img := canvas(100, 100, image.Point{40, 60})
	whiteRow(img, 30)
	frame := newTestFrame(t, img)

	m, err := NewService(tmpl, DefaultOptions()).Measure(frame)
	require.NoError(t, err)

	assert.Equal(t, BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}, m.Box)
	assert.Equal(t, Point{X: 45, Y: 70}, m.Launch)
	assert.Equal(t, 0, m.Center.X)
	assert.GreaterOrEqual(t, m.Center.Y, 29)
	assert.LessOrEqual(t, m.Center.Y, 31)
	assert.InDelta(t, Distance(m.Launch, m.Center), m.Distance, 1e-9)
	assert.InDelta(t, 60.2, m.Distance, 1.5)
}

func TestMeasureIsDeterministic(t *testing.T) {
	tmpl := newTestTemplate(t)
	img := canvas(100, 100, image.Point{40, 60})
	for row := 30; row < 35; row++ {
		whiteRow(img, row)
	}
	frame := newTestFrame(t, img)
	service := NewService(tmpl, DefaultOptions())

	first, err := service.Measure(frame)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := service.Measure(frame)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	assert.Equal(t, BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}, first.Box)
	assert.Equal(t, Point{X: 45, Y: 70}, first.Launch)
	assert.GreaterOrEqual(t, first.Center.Y, 25)
	assert.Less(t, first.Center.Y, 50)
	assert.InDelta(t, Distance(first.Launch, first.Center), first.Distance, 1e-9)
}

func TestLoadFrameFromDisk(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFrame(filepath.Join(dir, "missing.png"))
	var unavailable *CaptureUnavailableError
	require.ErrorAs(t, err, &unavailable)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0644))
	_, err = LoadFrame(garbage)
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, garbage, unavailable.Path)
}

func TestDecodeFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, canvas(30, 20, image.Point{5, 5})))

	frame, err := DecodeFrame(buf.Bytes())
	require.NoError(t, err)
	defer frame.Close()
	assert.Equal(t, 30, frame.Width())
	assert.Equal(t, 20, frame.Height())
	assert.Equal(t, 3, frame.Channels())

	_, err = DecodeFrame([]byte("not an image"))
	var unavailable *CaptureUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestWriteDebugImage(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	horizontalLine(edges, 30, 0, 99)
	m := &Measurement{
		Box:    BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70},
		Launch: Point{X: 45, Y: 70},
		Center: Point{X: 0, Y: 30},
	}

	path := filepath.Join(t.TempDir(), "debug.png")
	require.NoError(t, WriteDebugImage(path, edges, m))

	frame, err := LoadFrame(path)
	require.NoError(t, err)
	defer frame.Close()
	assert.Equal(t, 100, frame.Width())
	assert.Equal(t, 3, frame.Channels())
}

func TestNewFrameFromImageRejectsEmpty(t *testing.T) {
	_, err := NewFrameFromImage(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrEmptyImage)

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.White)
	frame := newTestFrame(t, img)
	assert.Equal(t, 4, frame.Width())
	assert.Equal(t, 3, frame.Height())
	assert.False(t, frame.IsGray())
}
