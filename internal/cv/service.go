package cv

import (
	"fmt"

	"jordanella.com/autojump-go/internal/logging"
)

// Measurement is the outcome of one detection pass
type Measurement struct {
	Box        BoundingBox
	Confidence float64
	Launch     Point
	Center     Point
	Distance   float64
}

// Options configures the measurement pipeline
type Options struct {
	Edge          EdgeConfig
	Band          ScanBand
	Policy        RunPolicy
	MinConfidence float64
}

// DefaultOptions returns recommended settings
func DefaultOptions() Options {
	return Options{
		Edge:   DefaultEdgeConfig(),
		Band:   DefaultScanBand(),
		Policy: RunPolicyLegacy,
	}
}

// Service runs the measurement pipeline: locate, extract edges, resolve
// the landing center, and measure the gap.
type Service struct {
	locator *Locator
	opts    Options
	logger  *logging.Logger
}

// NewService creates a new CV service around a loaded template
func NewService(template *Template, opts Options) *Service {
	return &Service{
		locator: NewLocator(template, opts.MinConfidence),
		opts:    opts,
		logger:  logging.NewLogger("Detector"),
	}
}

// WithLogger replaces the service logger
func (s *Service) WithLogger(logger *logging.Logger) *Service {
	s.logger = logger
	return s
}

// Measure returns the distance between the object's launch point and the
// landing center. Identical frames always give identical measurements.
func (s *Service) Measure(frame *Frame) (*Measurement, error) {
	m, _, err := s.MeasureWithEdges(frame)
	return m, err
}

// MeasureWithEdges is Measure that also hands back the edge map, for
// debug dumps.
func (s *Service) MeasureWithEdges(frame *Frame) (*Measurement, *EdgeMap, error) {
	match, err := s.locator.Locate(frame)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate object: %w", err)
	}
	s.logger.DebugWithContext("Object located", map[string]interface{}{
		"box":        fmt.Sprintf("(%d,%d)-(%d,%d)", match.Box.X1, match.Box.Y1, match.Box.X2, match.Box.Y2),
		"confidence": fmt.Sprintf("%.3f", match.Confidence),
	})

	edges, err := ExtractEdges(frame, match.Box, s.opts.Edge)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract edges: %w", err)
	}

	center, err := ResolveCenter(edges, s.opts.Band, s.opts.Policy)
	if err != nil {
		return nil, edges, fmt.Errorf("failed to resolve landing center: %w", err)
	}

	launch := match.Box.LaunchPoint()
	m := &Measurement{
		Box:        match.Box,
		Confidence: match.Confidence,
		Launch:     launch,
		Center:     center,
		Distance:   Distance(launch, center),
	}
	s.logger.DebugWithContext("Center resolved", map[string]interface{}{
		"center":   fmt.Sprintf("(%d,%d)", center.X, center.Y),
		"distance": fmt.Sprintf("%.2f", m.Distance),
	})
	return m, edges, nil
}
