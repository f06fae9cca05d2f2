package pdf

// PageSpace holds a page's dimensions in the document's native units (points).
type PageSpace struct {
	Width  float64
	Height float64
}

// MapToPage converts a normalized placement position into the page's own
// coordinate space. Input coordinates are ratios in [0,1] with the origin at
// the top-left and y increasing downward, as captured on the viewer surface.
// PDF pages put the origin at the bottom-left with y increasing upward, and
// drawing anchors at a mark's bottom edge, so the vertical axis is flipped
// and the mark height subtracted to keep the mark's top at the click point.
//
// markHeight is the rendered height of the mark about to be drawn: the scaled
// image height for stamps, the font size for text.
//
// Pure arithmetic; out-of-range inputs are clamped by the caller, not here.
func MapToPage(x, y float64, page PageSpace, markHeight float64) (absX, absY float64) {
	absX = x * page.Width
	absY = page.Height - y*page.Height - markHeight
	return absX, absY
}
