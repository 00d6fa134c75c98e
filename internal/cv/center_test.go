package cv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func horizontalLine(edges *EdgeMap, row, fromCol, toCol int) {
	for col := fromCol; col <= toCol; col++ {
		edges.Set(row, col, EdgeValue)
	}
}

func TestScanBandRows(t *testing.T) {
	start, end := DefaultScanBand().Rows(100)
	assert.Equal(t, 25, start)
	assert.Equal(t, 50, end)

	start, end = DefaultScanBand().Rows(1920)
	assert.Equal(t, 480, start)
	assert.Equal(t, 960, end)

	start, end = ScanBand{StartFrac: -1, EndFrac: 2}.Rows(10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}

func TestResolveCenterSingleLine(t *testing.T) {
	for _, policy := range []RunPolicy{RunPolicyLastColumn, RunPolicyLegacy} {
		t.Run(string(policy), func(t *testing.T) {
			for _, row := range []int{25, 30, 42, 49} {
				edges := NewEdgeMap(100, 100)
				horizontalLine(edges, row, 0, 99)

				center, err := ResolveCenter(edges, DefaultScanBand(), policy)
				require.NoError(t, err)
				assert.Equal(t, Point{X: 0, Y: row}, center)
			}
		})
	}
}

func TestResolveCenterAllZeros(t *testing.T) {
	edges := NewEdgeMap(100, 100)

	_, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	assert.True(t, errors.Is(err, ErrMissingEdge))
}

func TestResolveCenterIgnoresEdgesOutsideBand(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	horizontalLine(edges, 20, 0, 99) // above the band
	horizontalLine(edges, 50, 0, 99) // band end is exclusive
	horizontalLine(edges, 80, 0, 99)

	_, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	assert.ErrorIs(t, err, ErrMissingEdge)
}

func TestResolveCenterFirstMatchIsRowMajor(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	edges.Set(40, 5, EdgeValue)  // leftmost, but lower
	edges.Set(30, 70, EdgeValue) // upper row wins

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, 70, center.X)
	assert.Equal(t, 30, center.Y)
}

func TestResolveCenterStopsAtFirstEmptyColumn(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	// Platform top: rows 30..31 over columns 10..19, then a gap
	horizontalLine(edges, 30, 10, 19)
	horizontalLine(edges, 31, 10, 19)
	// Anything after the gap must not count
	horizontalLine(edges, 45, 21, 99)

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 30}, center) // (30+31)/2
}

func TestResolveCenterKeepsMostRecentColumn(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	// A slanted border: each column's run sits one row lower
	for col := 10; col < 15; col++ {
		row := 30 + (col - 10)
		edges.Set(row, col, EdgeValue)
		edges.Set(row+4, col, EdgeValue)
	}

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	// Last non-empty column is 14 with rows 34 and 38
	assert.Equal(t, Point{X: 10, Y: 36}, center)
}

func TestResolveCenterLegacyPolicy(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	// Column 10 has a single hit, columns 11 and 12 single hits too:
	// the legacy buffer accumulates all of them.
	edges.Set(30, 10, EdgeValue)
	edges.Set(33, 11, EdgeValue)
	edges.Set(36, 12, EdgeValue)

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLegacy)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 33}, center) // (30+33+36)/3

	center, err = ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 36}, center)
}

func TestResolveCenterDiagonalBorder(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	// Thin slanted platform top, one pixel per column: columns 50..70,
	// dropping a row every second column (rows 30..40)
	for col := 50; col <= 70; col++ {
		edges.Set(30+(col-50)/2, col, EdgeValue)
	}

	// The default averages every column of the run: 730/21
	center, err := ResolveCenter(edges, DefaultScanBand(), DefaultOptions().Policy)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 50, Y: 34}, center)

	center, err = ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 50, Y: 40}, center)
}

func TestResolveCenterLegacyMultiHitColumnRestarts(t *testing.T) {
	edges := NewEdgeMap(100, 100)
	edges.Set(30, 10, EdgeValue)
	// Column 11 has three hits: only the last survives
	edges.Set(31, 11, EdgeValue)
	edges.Set(35, 11, EdgeValue)
	edges.Set(40, 11, EdgeValue)

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLegacy)
	require.NoError(t, err)
	assert.Equal(t, 40, center.Y)

	center, err = ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, (31+35+40)/3, center.Y)
}

func TestResolveCenterRunsToScanBoundary(t *testing.T) {
	edges := NewEdgeMap(60, 100)
	horizontalLine(edges, 40, 20, 59)
	edges.Set(44, 59, EdgeValue)

	center, err := ResolveCenter(edges, DefaultScanBand(), RunPolicyLastColumn)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 20, Y: 42}, center) // last column 59 holds rows 40 and 44
}

func TestParseRunPolicy(t *testing.T) {
	p, err := ParseRunPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RunPolicyLegacy, p)

	p, err = ParseRunPolicy(" Last-Column ")
	require.NoError(t, err)
	assert.Equal(t, RunPolicyLastColumn, p)

	_, err = ParseRunPolicy("best")
	assert.Error(t, err)
}

func TestEdgeMapBlankClipsToBounds(t *testing.T) {
	edges := NewEdgeMap(20, 20)
	horizontalLine(edges, 5, 0, 19)
	horizontalLine(edges, 19, 0, 19)

	edges.Blank(BoundingBox{X1: 15, Y1: 4, X2: 40, Y2: 30})

	assert.True(t, edges.IsEdge(5, 14))
	assert.False(t, edges.IsEdge(5, 15))
	assert.False(t, edges.IsEdge(19, 19))
	assert.True(t, edges.IsEdge(19, 0))
}

func TestLaunchPointAndDistance(t *testing.T) {
	box := BoundingBox{X1: 40, Y1: 60, X2: 50, Y2: 70}
	launch := box.LaunchPoint()
	assert.Equal(t, Point{X: 45, Y: 70}, launch)

	assert.InDelta(t, 5.0, Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}), 1e-9)
	assert.InDelta(t, Distance(launch, Point{X: 0, Y: 30}), Distance(Point{X: 0, Y: 30}, launch), 1e-9)
}
