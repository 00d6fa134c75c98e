package cv

import (
	"fmt"
	"strings"
)

// ScanBand restricts the launch-edge search to a horizontal strip,
// expressed as fractions of the image height.
type ScanBand struct {
	StartFrac float64
	EndFrac   float64
}

// DefaultScanBand covers rows height/4 up to height/2
func DefaultScanBand() ScanBand {
	return ScanBand{StartFrac: 0.25, EndFrac: 0.5}
}

// Rows returns the half-open row range [start, end) for an image height
func (b ScanBand) Rows(height int) (start, end int) {
	start = clampRow(int(float64(height)*b.StartFrac), height)
	end = clampRow(int(float64(height)*b.EndFrac), height)
	return start, end
}

func clampRow(row, height int) int {
	if row < 0 {
		return 0
	}
	if row > height {
		return height
	}
	return row
}

// RunPolicy decides which rows make up the landing platform's border run
type RunPolicy string

const (
	// RunPolicyLegacy: a column's first hit extends the carried rows and
	// every further hit in that column restarts them with its own row.
	// Single-pixel columns therefore average over the whole run.
	RunPolicyLegacy RunPolicy = "legacy"
	// RunPolicyLastColumn keeps the rows of the most recent non-empty column
	RunPolicyLastColumn RunPolicy = "last-column"
)

// ParseRunPolicy converts a config string into a RunPolicy
func ParseRunPolicy(s string) (RunPolicy, error) {
	switch RunPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RunPolicyLegacy:
		return RunPolicyLegacy, nil
	case RunPolicyLastColumn:
		return RunPolicyLastColumn, nil
	default:
		return "", fmt.Errorf("unknown run policy %q", s)
	}
}

// ResolveCenter finds the launch column and the landing row in an edge map.
// The returned point's X is the column of the first edge pixel inside the
// scan band, Y the floor mean of the border run that follows it.
func ResolveCenter(edges *EdgeMap, band ScanBand, policy RunPolicy) (Point, error) {
	start, end := band.Rows(edges.Height())

	anchor, ok := findLaunchEdge(edges, start, end)
	if !ok {
		return Point{}, ErrMissingEdge
	}

	return Point{X: anchor.X, Y: resolveLandingRow(edges, anchor, end, policy)}, nil
}

// findLaunchEdge scans the band row-major and stops at the first edge pixel
func findLaunchEdge(edges *EdgeMap, start, end int) (Point, bool) {
	width := edges.Width()
	for row := start; row < end; row++ {
		for col := 0; col < width; col++ {
			if edges.IsEdge(row, col) {
				return Point{X: col, Y: row}, true
			}
		}
	}
	return Point{}, false
}

type runState int

const (
	stateAccumulating runState = iota
	stateTerminated
)

// borderRun collects the rows of the border segment column by column
type borderRun struct {
	state  runState
	policy RunPolicy
	rows   []int
}

func (r *borderRun) column(hits []int) {
	if len(hits) == 0 {
		r.state = stateTerminated
		return
	}

	switch r.policy {
	case RunPolicyLastColumn:
		r.rows = append(r.rows[:0], hits...)
	default:
		r.rows = append(r.rows, hits[0])
		if len(hits) > 1 {
			r.rows = append(r.rows[:0], hits[len(hits)-1])
		}
	}
}

func (r *borderRun) mean(fallback int) int {
	if len(r.rows) == 0 {
		return fallback
	}
	sum := 0
	for _, row := range r.rows {
		sum += row
	}
	return sum / len(r.rows)
}

// resolveLandingRow walks columns right of the anchor, rows from the anchor
// row down to the band end, until a column without any edge pixel.
func resolveLandingRow(edges *EdgeMap, anchor Point, end int, policy RunPolicy) int {
	run := &borderRun{state: stateAccumulating, policy: policy}
	hits := make([]int, 0, end-anchor.Y)

	for col := anchor.X; col < edges.Width() && run.state == stateAccumulating; col++ {
		hits = hits[:0]
		for row := anchor.Y; row < end; row++ {
			if edges.IsEdge(row, col) {
				hits = append(hits, row)
			}
		}
		run.column(hits)
	}

	return run.mean(anchor.Y)
}
