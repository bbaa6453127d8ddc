package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(s Selector) []ControlKind {
	out := make([]ControlKind, len(s.Controls))
	for i, c := range s.Controls {
		out[i] = c.Kind
	}
	return out
}

func labels(s Selector) []string {
	out := make([]string, len(s.Controls))
	for i, c := range s.Controls {
		out[i] = c.Label
	}
	return out
}

func TestBuildSelector_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		number      int
		totalPages  int
		wantWindow  []int
		wantLabels  []string
		wantStart   int
		wantEnd     int
		prevEnabled bool
		nextEnabled bool
	}{
		{
			name:        "first of ten",
			number:      0,
			totalPages:  10,
			wantWindow:  []int{0, 1, 2, 3, 4, 9},
			wantLabels:  []string{"Previous", "1", "2", "3", "4", "5", "…", "10", "Next"},
			wantStart:   0,
			wantEnd:     4,
			nextEnabled: true,
		},
		{
			name:        "last of ten",
			number:      9,
			totalPages:  10,
			wantWindow:  []int{0, 5, 6, 7, 8, 9},
			wantLabels:  []string{"Previous", "1", "…", "6", "7", "8", "9", "10", "Next"},
			wantStart:   5,
			wantEnd:     9,
			prevEnabled: true,
		},
		{
			name:        "middle of ten",
			number:      5,
			totalPages:  10,
			wantWindow:  []int{0, 3, 4, 5, 6, 7, 9},
			wantLabels:  []string{"Previous", "1", "…", "4", "5", "6", "7", "8", "…", "10", "Next"},
			wantStart:   3,
			wantEnd:     7,
			prevEnabled: true,
			nextEnabled: true,
		},
		{
			name:        "leading page adjacent to window has no ellipsis",
			number:      3,
			totalPages:  10,
			wantWindow:  []int{0, 1, 2, 3, 4, 5, 9},
			wantLabels:  []string{"Previous", "1", "2", "3", "4", "5", "6", "…", "10", "Next"},
			wantStart:   1,
			wantEnd:     5,
			prevEnabled: true,
			nextEnabled: true,
		},
		{
			name:        "trailing page adjacent to window has no ellipsis",
			number:      6,
			totalPages:  10,
			wantWindow:  []int{0, 4, 5, 6, 7, 8, 9},
			wantLabels:  []string{"Previous", "1", "…", "5", "6", "7", "8", "9", "10", "Next"},
			wantStart:   4,
			wantEnd:     8,
			prevEnabled: true,
			nextEnabled: true,
		},
		{
			name:        "fewer pages than window",
			number:      1,
			totalPages:  3,
			wantWindow:  []int{0, 1, 2},
			wantLabels:  []string{"Previous", "1", "2", "3", "Next"},
			wantStart:   0,
			wantEnd:     2,
			prevEnabled: true,
			nextEnabled: true,
		},
		{
			name:        "exactly window size",
			number:      4,
			totalPages:  5,
			wantWindow:  []int{0, 1, 2, 3, 4},
			wantLabels:  []string{"Previous", "1", "2", "3", "4", "5", "Next"},
			wantStart:   0,
			wantEnd:     4,
			prevEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := BuildSelector(tt.number, tt.totalPages)

			assert.Equal(t, tt.wantWindow, sel.Pages())
			assert.Equal(t, tt.wantLabels, labels(sel))
			assert.Equal(t, tt.wantStart, sel.WindowStart)
			assert.Equal(t, tt.wantEnd, sel.WindowEnd)

			first := sel.Controls[0]
			lastCtl := sel.Controls[len(sel.Controls)-1]
			assert.Equal(t, ControlPrevious, first.Kind)
			assert.Equal(t, ControlNext, lastCtl.Kind)
			assert.Equal(t, !tt.prevEnabled, first.Disabled)
			assert.Equal(t, !tt.nextEnabled, lastCtl.Disabled)
			if tt.prevEnabled {
				assert.Equal(t, tt.number-1, first.Page)
			}
			if tt.nextEnabled {
				assert.Equal(t, tt.number+1, lastCtl.Page)
			}
		})
	}
}

func TestBuildSelector_EmptyForSinglePage(t *testing.T) {
	for _, total := range []int{-1, 0, 1} {
		sel := BuildSelector(0, total)
		assert.True(t, sel.Empty(), "totalPages=%d", total)
		assert.Empty(t, sel.Controls)
	}
}

func TestBuildSelector_Properties(t *testing.T) {
	for total := 2; total <= 25; total++ {
		for number := 0; number < total; number++ {
			sel := BuildSelector(number, total)

			windowLen := sel.WindowEnd - sel.WindowStart + 1
			assert.LessOrEqual(t, windowLen, WindowSize)
			assert.Equal(t, min(WindowSize, total), windowLen, "total=%d number=%d", total, number)
			assert.GreaterOrEqual(t, number, sel.WindowStart)
			assert.LessOrEqual(t, number, sel.WindowEnd)

			active := 0
			for _, c := range sel.Controls {
				if c.Kind == ControlPage {
					assert.GreaterOrEqual(t, c.Page, 0)
					assert.Less(t, c.Page, total)
				}
				if c.Active {
					active++
					assert.Equal(t, number, c.Page)
					assert.False(t, c.Interactive())
				}
				if c.Kind == ControlEllipsis {
					assert.False(t, c.Interactive())
				}
			}
			assert.Equal(t, 1, active)
			assert.Equal(t, sel, BuildSelector(number, total), "deterministic")
		}
	}
}

func TestBuildSelector_NumberPastLastPage(t *testing.T) {
	sel := BuildSelector(12, 10)

	require.False(t, sel.Empty())
	assert.Equal(t, []int{0, 5, 6, 7, 8, 9}, sel.Pages())
	for _, c := range sel.Controls {
		assert.False(t, c.Active)
	}
	prev := sel.Controls[0]
	assert.False(t, prev.Disabled)
	assert.Equal(t, 9, prev.Page)
	assert.True(t, sel.Controls[len(sel.Controls)-1].Disabled)
}

func TestBuildSelector_Kinds(t *testing.T) {
	sel := BuildSelector(5, 10)
	assert.Equal(t, []ControlKind{
		ControlPrevious, ControlPage, ControlEllipsis,
		ControlPage, ControlPage, ControlPage, ControlPage, ControlPage,
		ControlEllipsis, ControlPage, ControlNext,
	}, kinds(sel))
}
