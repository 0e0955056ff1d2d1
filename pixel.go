package consoleimg

import (
	"fmt"
	"image/color"
)

// ANSI escapes shared by the character-cell encoders.
const (
	ResetEscape           = "\x1b[0m"
	BlackBackgroundEscape = "\x1b[40m"
)

// alphaThreshold is the lowest alpha value still drawn as opaque.
const alphaThreshold = 128

// PixelColor is a single RGBA sample.
type PixelColor struct {
	R, G, B, A uint8
}

// NewPixelColor converts any color to a non-premultiplied PixelColor.
func NewPixelColor(c color.Color) PixelColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return PixelColor{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Fg returns the truecolor foreground escape.
func (p PixelColor) Fg() string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", p.R, p.G, p.B)
}

// Bg returns the truecolor background escape.
func (p PixelColor) Bg() string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", p.R, p.G, p.B)
}

// Transparent reports whether the sample is drawn as empty.
func (p PixelColor) Transparent() bool {
	return p.A < alphaThreshold
}

// Luma returns the Rec. 709 luminance of the sample, alpha ignored.
func (p PixelColor) Luma() uint8 {
	return luma709(p.R, p.G, p.B)
}

func luma709(r, g, b uint8) uint8 {
	return uint8((2126*uint32(r) + 7152*uint32(g) + 722*uint32(b)) / 10000)
}
