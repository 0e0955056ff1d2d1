package consoleimg

import (
	"strings"
)

// SixelOptions controls palette quantization for the Sixel modes.
type SixelOptions struct {
	MaxColors int  // palette size, 1 to 256
	Dither    bool // Floyd-Steinberg error diffusion
}

// DefaultSixelOptions returns 256 colors with dithering.
func DefaultSixelOptions() SixelOptions {
	return SixelOptions{MaxColors: 256, Dither: true}
}

// ImageConverterOptions configures a single conversion.
type ImageConverterOptions struct {
	// Width and Height are the raster size; NewImageConverter fills them in.
	Width  int
	Height int
	// LineInit is written at the start of every character-cell row, or once
	// before a binary payload (centering padding or a cursor move).
	LineInit        string
	Mode            DisplayMode
	Center          bool
	BlackBackground bool
	Compression     bool
	// TermCols and TermRows enable the iTerm2/WezTerm size hint when non-zero.
	TermCols int
	TermRows int
	Sixel    *SixelOptions
	// Tmux wraps binary payloads in a tmux passthrough sequence.
	Tmux bool
}

// DefaultConverterOptions returns options for mode with compression on.
func DefaultConverterOptions(mode DisplayMode) ImageConverterOptions {
	return ImageConverterOptions{Mode: mode, Compression: true}
}

func (o ImageConverterOptions) sixelOptions() SixelOptions {
	if o.Sixel == nil {
		return DefaultSixelOptions()
	}
	return *o.Sixel
}

// ImageConverter encodes a ProcessedImage into terminal lines.
type ImageConverter struct {
	img  *ProcessedImage
	opts ImageConverterOptions
}

// NewImageConverter binds img to opts.
func NewImageConverter(img *ProcessedImage, opts ImageConverterOptions) *ImageConverter {
	if img != nil {
		b := img.Bounds()
		opts.Width, opts.Height = b.Dx(), b.Dy()
	}
	return &ImageConverter{img: img, opts: opts}
}

// Options returns the options in effect.
func (c *ImageConverter) Options() ImageConverterOptions { return c.opts }

// Convert encodes the image according to the display mode.
func (c *ImageConverter) Convert() ([]string, error) {
	if c.img == nil {
		return nil, ErrEmptyData
	}
	if want := c.opts.Mode.ExpectImageType(); c.img.Type() != want {
		return nil, newWrongImageType(want, c.img.Type())
	}
	if c.opts.Width == 0 || c.opts.Height == 0 {
		return nil, ErrEmptyData
	}

	switch mode := c.opts.Mode; {
	case mode == HalfColor:
		return parallelMap("HalfColor", c.opts.Height, c.halfColorRow)
	case mode == Ascii:
		return parallelMap("Ascii", c.opts.Height, c.asciiRow)
	case mode == FullColor:
		return parallelMap("FullColor", (c.opts.Height+1)/2, c.fullColorRow)
	case mode == FullNoColor:
		return parallelMap("FullNoColor", (c.opts.Height+1)/2, c.fullNoColorRow)
	case mode.IsKitty():
		return c.kittyConvert()
	case mode.IsITerm2():
		return c.inlineConvert(iterm2Terminator)
	case mode.IsWezTerm():
		return c.inlineConvert(weztermTerminator)
	case mode.IsSixel():
		return c.sixelConvert()
	}
	return nil, newWrongImageType(c.opts.Mode.ExpectImageType(), c.img.Type())
}

// assembleRow wraps the cells of one character-cell row.
func (c *ImageConverter) assembleRow(cells string) string {
	var sb strings.Builder
	sb.Grow(len(c.opts.LineInit) + len(cells) + 2*len(ResetEscape))
	sb.WriteString(c.opts.LineInit)
	if c.opts.BlackBackground {
		sb.WriteString(BlackBackgroundEscape)
	}
	sb.WriteString(cells)
	if c.opts.Mode.IsColor() {
		sb.WriteString(ResetEscape)
	}
	return sb.String()
}
