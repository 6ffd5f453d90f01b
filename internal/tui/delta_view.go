package tui

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/footprint/internal/greenops"
)

const (
	deltaPrecision = 2
	ellipsis       = "..."
)

// deltaStyles maps the sign of a rounded delta to its arrow and color: an
// increase warns, a reduction is good news.
var deltaStyles = map[int]struct { //nolint:gochecknoglobals // lookup table
	icon  string
	color lipgloss.Color
}{
	1:  {IconArrowUp, ColorWarning},
	-1: {IconArrowDown, ColorOK},
	0:  {IconArrowRight, ColorMuted},
}

// RenderDelta renders a footprint change rounded to two decimals with an
// explicit sign and a direction arrow. Changes that round to zero render as
// an unsigned zero.
func RenderDelta(delta float64) string {
	mult := math.Pow10(deltaPrecision)
	rounded := math.Round(delta*mult) / mult

	sign := 0
	switch {
	case rounded > 0:
		sign = 1
	case rounded < 0:
		sign = -1
	default:
		rounded = 0
	}
	ds := deltaStyles[sign]

	return lipgloss.NewStyle().Foreground(ds.color).Bold(true).
		Render(greenops.FormatSigned(rounded, deltaPrecision) + " " + ds.icon)
}

// RenderLoadingIndicator is shown while the session recomputes.
func RenderLoadingIndicator() string {
	return lipgloss.NewStyle().Foreground(ColorSpinner).Bold(true).Render("Recalculating footprint...")
}

// truncate shortens s to maxLen runes, ending in an ellipsis when there is
// room for one.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	switch {
	case len(r) <= maxLen:
		return s
	case maxLen <= len(ellipsis):
		return string(r[:maxLen])
	default:
		return string(r[:maxLen-len(ellipsis)]) + ellipsis
	}
}
