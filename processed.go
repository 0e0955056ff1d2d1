package consoleimg

import (
	"image"

	"github.com/disintegration/imaging"
)

// ImageType tags the raster representation held by a ProcessedImage.
type ImageType int

const (
	// ImageColor holds RGBA samples.
	ImageColor ImageType = iota
	// ImageColor2 holds opaque RGB samples, used by Sixel.
	ImageColor2
	// ImageNoColor holds luminance samples.
	ImageNoColor
	// ImageBoth holds RGBA and luminance samples.
	ImageBoth
)

func (t ImageType) String() string {
	switch t {
	case ImageColor:
		return "Color"
	case ImageColor2:
		return "Color2"
	case ImageNoColor:
		return "NoColor"
	case ImageBoth:
		return "Both"
	default:
		return "Unknown"
	}
}

// ProcessedImage is the raster in the shape a DisplayMode needs.
// It is read-only once built.
type ProcessedImage struct {
	kind ImageType
	rgba *image.NRGBA
	luma *image.Gray
}

// NewProcessedImage extracts the channels required by mode from img.
func NewProcessedImage(mode DisplayMode, img image.Image) *ProcessedImage {
	kind := mode.ExpectImageType()
	src := imaging.Clone(img)
	p := &ProcessedImage{kind: kind}

	switch kind {
	case ImageColor:
		p.rgba = src
	case ImageColor2:
		for i := 3; i < len(src.Pix); i += 4 {
			src.Pix[i] = 0xff
		}
		p.rgba = src
	case ImageNoColor:
		p.luma = toLuma(src)
	case ImageBoth:
		p.rgba = src
		p.luma = toLuma(src)
	}
	return p
}

func toLuma(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = luma709(row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return dst
}

// Type returns the variant tag.
func (p *ProcessedImage) Type() ImageType { return p.kind }

// Bounds returns the raster bounds; the origin is always (0, 0).
func (p *ProcessedImage) Bounds() image.Rectangle {
	if p.rgba != nil {
		return p.rgba.Bounds()
	}
	if p.luma != nil {
		return p.luma.Bounds()
	}
	return image.Rectangle{}
}

// RGBA returns the color raster of a Color or Both image.
func (p *ProcessedImage) RGBA() *image.NRGBA {
	if p.kind == ImageColor || p.kind == ImageBoth {
		return p.rgba
	}
	return nil
}

// RGB returns the opaque raster of a Color2 image.
func (p *ProcessedImage) RGB() *image.NRGBA {
	if p.kind == ImageColor2 {
		return p.rgba
	}
	return nil
}

// Luma returns the luminance raster of a NoColor or Both image.
func (p *ProcessedImage) Luma() *image.Gray {
	if p.kind == ImageNoColor || p.kind == ImageBoth {
		return p.luma
	}
	return nil
}

func (p *ProcessedImage) colorAt(x, y int) PixelColor {
	i := y*p.rgba.Stride + x*4
	s := p.rgba.Pix[i : i+4 : i+4]
	return PixelColor{R: s[0], G: s[1], B: s[2], A: s[3]}
}

func (p *ProcessedImage) lumaAt(x, y int) uint8 {
	return p.luma.Pix[y*p.luma.Stride+x]
}
