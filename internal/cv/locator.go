package cv

import (
	"gocv.io/x/gocv"
)

// MatchResult contains template matching results
type MatchResult struct {
	Box        BoundingBox
	Confidence float64 // TM_CCOEFF_NORMED score in [-1, 1]
}

// Locator finds the movable object in a frame by normalized
// cross-correlation against the preloaded template.
type Locator struct {
	template      *Template
	minConfidence float64 // 0 disables the gate
}

// NewLocator creates a locator. minConfidence <= 0 accepts every best match.
func NewLocator(template *Template, minConfidence float64) *Locator {
	return &Locator{
		template:      template,
		minConfidence: minConfidence,
	}
}

// Locate returns the box of the best-scoring template position. There is
// no "not found" outcome unless a minimum confidence was configured: an
// absent object still yields the highest-scoring window.
func (l *Locator) Locate(frame *Frame) (*MatchResult, error) {
	if frame.Width() == 0 || frame.Height() == 0 {
		return nil, ErrEmptyImage
	}
	if l.template.Width > frame.Width() || l.template.Height > frame.Height() {
		return nil, ErrTemplateTooLarge
	}

	src := frame.mat
	if !frame.IsGray() {
		gray := gocv.NewMat()
		defer gray.Close()
		code := gocv.ColorBGRToGray
		if frame.Channels() == 4 {
			code = gocv.ColorBGRAToGray
		}
		gocv.CvtColor(frame.mat, &gray, code)
		src = gray
	}

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, l.template.mat, &result, gocv.TmCcoeffNormed, mask)
	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

	topLeft := Point{X: maxLoc.X, Y: maxLoc.Y}
	match := &MatchResult{
		Box:        NewBoundingBox(topLeft, l.template.Width, l.template.Height),
		Confidence: float64(maxVal),
	}

	if l.minConfidence > 0 && match.Confidence < l.minConfidence {
		return nil, &DegenerateMatchError{
			Confidence:    match.Confidence,
			MinConfidence: l.minConfidence,
			Location:      topLeft,
		}
	}
	return match, nil
}
