package consoleimg

import (
	"image"

	"github.com/apex/log"
	"github.com/nfnt/resize"
)

// Sixel pixels addressable per character cell.
const (
	sixelFullCellWidth  = 12
	sixelFullCellHeight = 21
	sixelHalfCellWidth  = 6
	sixelHalfCellHeight = 10
)

// ResizeMode is one of AutoResize, CustomResize or NoResize.
type ResizeMode interface {
	isResizeMode()
}

// AutoResize shrinks the flagged axes to fit the terminal, keeping the aspect ratio.
type AutoResize struct {
	Width  bool
	Height bool
}

// CustomResize scales to exact dimensions. A zero axis keeps its current size.
type CustomResize struct {
	Width  uint
	Height uint
}

// NoResize leaves the image untouched.
type NoResize struct{}

func (AutoResize) isResizeMode()   {}
func (CustomResize) isResizeMode() {}
func (NoResize) isResizeMode()     {}

func NewAutoResize() AutoResize        { return AutoResize{Width: true, Height: true} }
func AutoResizeWidthOnly() AutoResize  { return AutoResize{Width: true} }
func AutoResizeHeightOnly() AutoResize { return AutoResize{Height: true} }

func NewCustomResize(width, height uint) CustomResize {
	return CustomResize{Width: width, Height: height}
}

func (c CustomResize) WithWidth(width uint) CustomResize {
	c.Width = width
	return c
}

func (c CustomResize) WithHeight(height uint) CustomResize {
	c.Height = height
	return c
}

// AutoCaps returns the largest pixel size mode can show in a cols x rows terminal.
func AutoCaps(mode DisplayMode, cols, rows int) (maxWidth, maxHeight int) {
	full := mode.IsFull()
	switch {
	case mode.IsSixel() && full:
		return cols * sixelFullCellWidth, rows * sixelFullCellHeight
	case mode.IsSixel():
		return cols * sixelHalfCellWidth, rows * sixelHalfCellHeight
	case full:
		return cols, rows * 2
	default:
		return cols / 2, rows
	}
}

// ResizeImage applies rm to img. cols and rows are only read by AutoResize,
// which only acts on character-cell and Sixel modes.
func ResizeImage(img image.Image, rm ResizeMode, mode DisplayMode, cols, rows int) image.Image {
	switch rm := rm.(type) {
	case AutoResize:
		if !mode.IsNormal() && !mode.IsSixel() {
			return img
		}
		maxWidth, maxHeight := AutoCaps(mode, cols, rows)
		return fitImage(img, rm, maxWidth, maxHeight)
	case CustomResize:
		b := img.Bounds()
		width, height := rm.Width, rm.Height
		if width == 0 {
			width = uint(b.Dx())
		}
		if height == 0 {
			height = uint(b.Dy())
		}
		if width == uint(b.Dx()) && height == uint(b.Dy()) {
			return img
		}
		log.WithFields(log.Fields{"width": width, "height": height}).Debug("custom resize")
		return resize.Resize(width, height, img, resize.Lanczos3)
	default:
		return img
	}
}

// fitImage shrinks each flagged axis that exceeds its cap, width first.
// Images already inside the caps are returned unchanged.
func fitImage(img image.Image, rm AutoResize, maxWidth, maxHeight int) image.Image {
	if rm.Width && maxWidth > 0 {
		b := img.Bounds()
		if b.Dx() > maxWidth {
			img = resize.Thumbnail(uint(maxWidth), uint(b.Dy()), img, resize.Lanczos3)
			log.WithFields(log.Fields{"cap": maxWidth, "width": img.Bounds().Dx(), "height": img.Bounds().Dy()}).
				Debug("fit image width")
		}
	}
	if rm.Height && maxHeight > 0 {
		b := img.Bounds()
		if b.Dy() > maxHeight {
			img = resize.Thumbnail(uint(b.Dx()), uint(maxHeight), img, resize.Lanczos3)
			log.WithFields(log.Fields{"cap": maxHeight, "width": img.Bounds().Dx(), "height": img.Bounds().Dy()}).
				Debug("fit image height")
		}
	}
	return img
}
