package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/diagramkit/core/graph"
)

// nodeSize computes a node's box size from its label, using
// go-runewidth's display-width measurer as the real text-width backend
// and falling back to the line's byte length whenever a non-empty line
// measures out at zero width. The widest line then gives a width of
// max(80, maxLine*8+60) and the line count a height of
// max(40, lines*18+40), before the diamond and circle adjustments.
func nodeSize(label string, kind graph.NodeKind) (float64, float64) {
	lines := strings.Split(label, "\n")

	maxLineWidth := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 && line != "" {
			w = len(line)
		}
		if w > maxLineWidth {
			maxLineWidth = w
		}
	}

	width := float64(maxLineWidth)*8 + 60
	if width < 80 {
		width = 80
	}
	height := float64(len(lines))*18 + 40
	if height < 40 {
		height = 40
	}

	switch kind {
	case graph.KindDiamond:
		width *= 1.05
		height *= 1.05
		if width < 90 {
			width = 90
		}
		if height < 90 {
			height = 90
		}
	case graph.KindCircle:
		side := width
		if height > side {
			side = height
		}
		side += 10
		width, height = side, side
	}

	return width, height
}
