package cv

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	debugBoxColor    = color.RGBA{R: 255, A: 255}
	debugCenterColor = color.RGBA{B: 255, A: 255}
	debugPathColor   = color.RGBA{G: 255, A: 255}
)

// WriteDebugImage renders the edge map with the object box, the launch to
// landing path, and the resolved center, and writes it to path. The image
// format follows the file extension.
func WriteDebugImage(path string, edges *EdgeMap, m *Measurement) error {
	gray, err := gocv.ImageGrayToMatGray(edges.Gray())
	if err != nil {
		return fmt.Errorf("failed to convert edge map: %w", err)
	}
	defer gray.Close()

	canvas := gocv.NewMat()
	defer canvas.Close()
	gocv.CvtColor(gray, &canvas, gocv.ColorGrayToBGR)

	if m != nil {
		center := image.Pt(m.Center.X, m.Center.Y)
		gocv.Rectangle(&canvas, m.Box.Rect(), debugBoxColor, 2)
		gocv.Line(&canvas, image.Pt(m.Launch.X, m.Launch.Y), center, debugPathColor, 1)
		gocv.Circle(&canvas, center, 10, debugCenterColor, -1)
	}

	if !gocv.IMWrite(path, canvas) {
		return fmt.Errorf("failed to write debug image %s", path)
	}
	return nil
}
