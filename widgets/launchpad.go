package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PadGrid is an 8x8 block of pad colors, row 0 at the bottom
type PadGrid [8][8][3]uint8

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderPadRow renders a row of colored pads with spacing
func RenderPadRow(colors [][3]uint8) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// RenderPadGrid renders an 8x8 grid of pads (row 0 at bottom, row 7 at top)
// Optional rightCol adds a 9th column (scene buttons)
func RenderPadGrid(grid PadGrid, rightCol *[8][3]uint8) string {
	var lines []string
	for row := 7; row >= 0; row-- {
		line := RenderPadRow(grid[row][:])
		if rightCol != nil {
			line += " " + RenderPad(rightCol[row])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	if desc == "" {
		return fmt.Sprintf("  %s %s", RenderPad(color), name)
	}
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// RenderLegend lays legend items out in columns of at most perCol rows
func RenderLegend(items []string, perCol int) string {
	if perCol <= 0 || len(items) == 0 {
		return strings.Join(items, "\n")
	}
	var cols []string
	for start := 0; start < len(items); start += perCol {
		end := start + perCol
		if end > len(items) {
			end = len(items)
		}
		cols = append(cols, lipgloss.NewStyle().PaddingRight(2).Render(strings.Join(items[start:end], "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
