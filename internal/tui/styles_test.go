package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestRateBarClampsAndFills(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{-5, 0},
		{0, 0},
		{50, 10},
		{100, 20},
		{250, 20},
	}
	for _, tt := range tests {
		bar := RateBar(tt.percent, 20)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "percent %v", tt.percent)
		assert.Equal(t, 20-tt.filled, strings.Count(bar, "░"), "percent %v", tt.percent)
	}
}

func TestRateBarDefaultWidth(t *testing.T) {
	bar := RateBar(33.7, 0)
	assert.Equal(t, 20, strings.Count(bar, "█")+strings.Count(bar, "░"))
	assert.GreaterOrEqual(t, runewidth.StringWidth(bar), 20)
}
