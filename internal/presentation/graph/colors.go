package graph

import (
	"github.com/lucasb-eyer/go-colorful"
)

// playFontColor is used on top of every play fill.
const playFontColor = "#ffffff"

// PlayColor picks a fill color for the play at index out of total plays,
// spreading hues evenly around the wheel so adjacent plays stay visually
// distinct. The same (index, total) pair always yields the same color.
func PlayColor(index, total int) string {
	if total < 1 {
		total = 1
	}
	hue := float64(index%total) * 360.0 / float64(total)
	return colorful.Hsv(hue, 0.6, 0.55).Hex()
}
