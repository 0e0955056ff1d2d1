package consoleimg

import (
	"image"
	"image/color"
	"image/gif"
	"time"

	"github.com/apex/log"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// DisposalMethod says what happens to a frame's area before the next frame is drawn.
type DisposalMethod int

const (
	DisposeAny DisposalMethod = iota
	DisposeKeep
	DisposeBackground
	DisposePrevious
)

func (d DisposalMethod) String() string {
	switch d {
	case DisposeKeep:
		return "keep"
	case DisposeBackground:
		return "background"
	case DisposePrevious:
		return "previous"
	default:
		return "any"
	}
}

// GifFrame is one sub-frame as delivered by a GIF demuxer.
type GifFrame struct {
	Left, Top     int
	Width, Height int
	Disposal      DisposalMethod
	// Palette holds RGB triplets. A nil palette selects the global palette.
	Palette []byte
	// Transparent is the palette index that is not drawn when HasTransparent is set.
	Transparent    uint8
	HasTransparent bool
	// Buffer holds Width*Height palette indices, row-major.
	Buffer []byte
	Delay  time.Duration
}

// Bounds returns the frame rectangle on the canvas.
func (f *GifFrame) Bounds() image.Rectangle {
	return image.Rect(f.Left, f.Top, f.Left+f.Width, f.Top+f.Height)
}

// GifFrameProcessor composites GIF sub-frames into full canvas images.
// It is not safe for concurrent use; feed it frames in stream order.
type GifFrameProcessor struct {
	globalPalette []byte
	lastDisposal  DisposalMethod
	lastArea      image.Rectangle
	canvas        *image.NRGBA
	previous      *image.NRGBA
}

// NewGifFrameProcessor starts a session with a transparent width x height canvas.
func NewGifFrameProcessor(width, height int, globalPalette []byte) *GifFrameProcessor {
	return &GifFrameProcessor{
		globalPalette: globalPalette,
		lastDisposal:  DisposeAny,
		canvas:        image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// ProcessFrame applies the previous frame's disposal, draws f and returns
// an independent copy of the canvas.
func (p *GifFrameProcessor) ProcessFrame(f *GifFrame) (*image.NRGBA, error) {
	palette := f.Palette
	if palette == nil {
		palette = p.globalPalette
	}
	if palette == nil {
		return nil, ErrMissingPalette
	}
	if f.Width < 0 || f.Height < 0 || len(f.Buffer) < f.Width*f.Height {
		return nil, ErrInvalidGifFrame
	}

	switch p.lastDisposal {
	case DisposeBackground:
		xdraw.Draw(p.canvas, p.lastArea, image.Transparent, image.Point{}, xdraw.Src)
	case DisposePrevious:
		if p.previous != nil {
			copy(p.canvas.Pix, p.previous.Pix)
		}
	}

	if f.Disposal == DisposePrevious {
		p.previous = imaging.Clone(p.canvas)
	}

	area := f.Bounds().Intersect(p.canvas.Rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := f.Buffer[(y-f.Top)*f.Width:]
		for x := area.Min.X; x < area.Max.X; x++ {
			idx := int(row[x-f.Left])
			if f.HasTransparent && idx == int(f.Transparent) {
				continue
			}
			off := idx * 3
			if off+2 >= len(palette) {
				continue
			}
			i := p.canvas.PixOffset(x, y)
			p.canvas.Pix[i+0] = palette[off]
			p.canvas.Pix[i+1] = palette[off+1]
			p.canvas.Pix[i+2] = palette[off+2]
			p.canvas.Pix[i+3] = 0xff
		}
	}

	log.WithFields(log.Fields{
		"area":     f.Bounds().String(),
		"disposal": f.Disposal.String(),
		"previous": p.lastDisposal.String(),
	}).Debug("composited gif frame")

	p.lastDisposal = f.Disposal
	p.lastArea = f.Bounds()
	return imaging.Clone(p.canvas), nil
}

// FramesFromGIF converts a stdlib-decoded GIF into GifFrame records and
// returns them with the logical screen size and global palette.
func FramesFromGIF(g *gif.GIF) (frames []GifFrame, width, height int, global []byte) {
	width, height = g.Config.Width, g.Config.Height
	if pal, ok := g.Config.ColorModel.(color.Palette); ok {
		global, _ = paletteBytes(pal)
	}

	grow := width == 0 || height == 0
	frames = make([]GifFrame, 0, len(g.Image))
	for i, pm := range g.Image {
		b := pm.Bounds()
		if grow {
			width, height = max(width, b.Max.X), max(height, b.Max.Y)
		}

		frame := GifFrame{
			Left:   b.Min.X,
			Top:    b.Min.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
			Buffer: make([]byte, 0, b.Dx()*b.Dy()),
		}
		var transparent int
		frame.Palette, transparent = paletteBytes(pm.Palette)
		if transparent >= 0 {
			frame.Transparent, frame.HasTransparent = uint8(transparent), true
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			start := pm.PixOffset(b.Min.X, y)
			frame.Buffer = append(frame.Buffer, pm.Pix[start:start+b.Dx()]...)
		}
		if i < len(g.Disposal) {
			frame.Disposal = disposalFromGIF(g.Disposal[i])
		}
		if i < len(g.Delay) {
			frame.Delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		frames = append(frames, frame)
	}
	return frames, width, height, global
}

// paletteBytes flattens pal to RGB triplets and returns the index of the
// first fully transparent entry, or -1.
func paletteBytes(pal color.Palette) ([]byte, int) {
	out := make([]byte, 0, len(pal)*3)
	transparent := -1
	for i, c := range pal {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if n.A == 0 && transparent < 0 {
			transparent = i
		}
		out = append(out, n.R, n.G, n.B)
	}
	return out, transparent
}

func disposalFromGIF(d byte) DisposalMethod {
	switch d {
	case gif.DisposalNone:
		return DisposeKeep
	case gif.DisposalBackground:
		return DisposeBackground
	case gif.DisposalPrevious:
		return DisposePrevious
	default:
		return DisposeAny
	}
}
