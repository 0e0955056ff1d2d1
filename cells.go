package consoleimg

import "strings"

const (
	upperHalfBlock = "▀"
	lowerHalfBlock = "▄"
	fullBlock      = "█"
	halfCell       = "  "
)

// glyphRule maps a luminance band to glyphs. A split rule has separate
// top and bottom glyphs; other rules only have full.
type glyphRule struct {
	split             bool
	top, full, bottom string
	low, high         uint8
}

// glyphRules are tried in order; the first match wins.
var glyphRules = []glyphRule{
	{split: true, top: "▘", full: "▮", bottom: "▖", low: 153, high: 204},
	{full: "▪", low: 122, high: 204},
	{full: "▫", low: 100, high: 204},
	{full: ",", low: 75, high: 204},
	{full: ".", low: 51, high: 204},
}

func (r glyphRule) contains(v uint8) bool { return r.low < v && v < r.high }

// lumaGlyph picks the glyph for a top/bottom pair of luminance samples.
func lumaGlyph(top, bottom uint8) string {
	for _, r := range glyphRules {
		if r.split {
			switch {
			case r.contains(top) && r.contains(bottom):
				return r.full
			case r.contains(top):
				return r.top
			case r.contains(bottom):
				return r.bottom
			}
			continue
		}
		if (r.low < top || r.low < bottom) && top < r.high && bottom < r.high {
			return r.full
		}
	}

	switch {
	case top > 128 && bottom > 128:
		return fullBlock
	case top > 128:
		return upperHalfBlock
	case bottom > 128:
		return lowerHalfBlock
	default:
		return " "
	}
}

// fullCell resolves the escape and glyph for two stacked samples.
func fullCell(top, bottom PixelColor, topLuma, bottomLuma uint8, compression bool) (string, string) {
	switch {
	case top.Transparent() && bottom.Transparent():
		return ResetEscape, " "
	case top.Transparent():
		return ResetEscape + bottom.Fg(), lowerHalfBlock
	case bottom.Transparent():
		return ResetEscape + top.Fg(), upperHalfBlock
	case topLuma > bottomLuma:
		return top.Fg() + bottom.Bg(), upperHalfBlock
	case bottomLuma > topLuma:
		return top.Bg() + bottom.Fg(), lowerHalfBlock
	case compression:
		return top.Bg(), " "
	default:
		return top.Fg(), fullBlock
	}
}

// cellWriter appends cells, skipping escapes the terminal already has set.
type cellWriter struct {
	sb          strings.Builder
	compression bool
	last        string
	started     bool
}

func (w *cellWriter) write(escape, glyph string) {
	redundant := w.compression && w.started &&
		(escape == w.last || (glyph == " " && strings.Contains(w.last, escape)))
	if !redundant {
		w.sb.WriteString(escape)
	}
	w.sb.WriteString(glyph)
	w.last = escape
	w.started = true
}

func (c *ImageConverter) halfColorRow(y int) (string, error) {
	w := cellWriter{compression: c.opts.Compression}
	for x := 0; x < c.opts.Width; x++ {
		p := c.img.colorAt(x, y)
		if p.Transparent() {
			w.write(ResetEscape, halfCell)
		} else {
			w.write(p.Bg(), halfCell)
		}
	}
	return c.assembleRow(w.sb.String()), nil
}

func (c *ImageConverter) asciiRow(y int) (string, error) {
	var sb strings.Builder
	for x := 0; x < c.opts.Width; x++ {
		g := lumaGlyph(c.img.lumaAt(x, y), c.img.lumaAt(x, y))
		sb.WriteString(g)
		sb.WriteString(g)
	}
	return c.assembleRow(sb.String()), nil
}

func (c *ImageConverter) fullColorRow(row int) (string, error) {
	y := row * 2
	if y+1 >= c.opts.Height {
		return c.oddColorRow(y), nil
	}

	w := cellWriter{compression: c.opts.Compression}
	for x := 0; x < c.opts.Width; x++ {
		escape, glyph := fullCell(
			c.img.colorAt(x, y), c.img.colorAt(x, y+1),
			c.img.lumaAt(x, y), c.img.lumaAt(x, y+1),
			c.opts.Compression,
		)
		w.write(escape, glyph)
	}
	return c.assembleRow(w.sb.String()), nil
}

// oddColorRow draws the last source row of an odd-height image in the top half of each cell.
func (c *ImageConverter) oddColorRow(y int) string {
	w := cellWriter{compression: c.opts.Compression}
	for x := 0; x < c.opts.Width; x++ {
		p := c.img.colorAt(x, y)
		if p.Transparent() {
			w.write(ResetEscape, " ")
			continue
		}
		w.write(p.Fg(), upperHalfBlock)
	}
	return c.assembleRow(w.sb.String())
}

func (c *ImageConverter) fullNoColorRow(row int) (string, error) {
	y := row * 2
	var sb strings.Builder
	for x := 0; x < c.opts.Width; x++ {
		if y+1 >= c.opts.Height {
			if c.img.lumaAt(x, y) > 128 {
				sb.WriteString(upperHalfBlock)
			} else {
				sb.WriteString(" ")
			}
			continue
		}
		sb.WriteString(lumaGlyph(c.img.lumaAt(x, y), c.img.lumaAt(x, y+1)))
	}
	return c.assembleRow(sb.String()), nil
}
