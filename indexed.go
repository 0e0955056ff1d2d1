package consoleimg

import (
	"image"
	"image/color"
	"math"

	"github.com/apex/log"
	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/soniakeys/quant/median"
	xdraw "golang.org/x/image/draw"
)

// MaxQuantizePixels is the largest pixel count NewIndexedImage accepts.
const MaxQuantizePixels = math.MaxUint32

// IndexedImage is a palette plus one palette index per pixel, row-major.
type IndexedImage struct {
	Palette []color.RGBA
	Indices []uint8
	Width   int
	Height  int
}

// NewIndexedImage quantizes img to at most maxColors colors with a median
// cut palette, optionally applying Floyd-Steinberg dithering.
func NewIndexedImage(img image.Image, maxColors int, dithering bool) (*IndexedImage, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyData
	}
	if uint64(b.Dx())*uint64(b.Dy()) > MaxQuantizePixels {
		return nil, &ConvertError{
			Kind:    AboveMaxLength,
			Limit:   MaxQuantizePixels,
			Context: ErrorContext{Function: "NewIndexedImage"},
		}
	}
	maxColors = min(max(maxColors, 1), 256)

	src := imaging.Clone(img)
	palette := median.Quantizer(maxColors).Palette(src).ColorPalette()
	if len(palette) == 0 {
		return nil, ErrEmptyData
	}

	var mapped image.Image = src
	if dithering && len(palette) > 1 {
		if d := dither.NewDitherer(palette); d != nil {
			d.Matrix = dither.FloydSteinberg
			mapped = d.Dither(src)
		}
	}

	paletted := image.NewPaletted(src.Bounds(), palette)
	xdraw.Draw(paletted, paletted.Bounds(), mapped, image.Point{}, xdraw.Src)

	out := &IndexedImage{
		Palette: make([]color.RGBA, len(palette)),
		Indices: paletted.Pix,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}
	for i, c := range palette {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		rgba.A = 0xff
		out.Palette[i] = rgba
	}

	log.WithFields(log.Fields{
		"width":  out.Width,
		"height": out.Height,
		"colors": len(out.Palette),
		"dither": dithering,
	}).Debug("quantized image")

	return out, nil
}

// At returns the palette index of pixel (x, y).
func (m *IndexedImage) At(x, y int) uint8 {
	return m.Indices[y*m.Width+x]
}

// ColorAt returns the palette color of pixel (x, y).
func (m *IndexedImage) ColorAt(x, y int) color.RGBA {
	return m.Palette[m.At(x, y)]
}
