package consoleimg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// imageData returns the PNG encoding of the color or luminance raster.
func (c *ImageConverter) imageData() ([]byte, error) {
	var src image.Image
	switch c.img.Type() {
	case ImageColor, ImageBoth:
		src = c.img.rgba
	case ImageNoColor:
		src = c.img.luma
	default:
		return nil, newWrongImageType(c.opts.Mode.ExpectImageType(), c.img.Type())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, newImageError("png.Encode", err)
	}
	return buf.Bytes(), nil
}

// kittyConvert transmits the PNG with the Kitty graphics protocol. The
// first chunk carries the control data, every chunk but the last has m=1.
func (c *ImageConverter) kittyConvert() ([]string, error) {
	data, err := c.imageData()
	if err != nil {
		return nil, err
	}
	chunks, err := EncodeChunks(data, KITTY_BASE64_CHUNK_SIZE)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(c.opts.LineInit)
	for i, chunk := range chunks {
		more := 1
		if i == len(chunks)-1 {
			more = 0
		}

		var apc strings.Builder
		apc.WriteString("\x1b_G")
		if i == 0 {
			fmt.Fprintf(&apc, "a=T,f=100,s=%d,v=%d,S=%d,", c.opts.Width, c.opts.Height, len(data))
		}
		fmt.Fprintf(&apc, "m=%d;%s\x1b\\", more, chunk)
		sb.WriteString(c.wrap(apc.String()))
	}
	return []string{sb.String()}, nil
}
