package consoleimg

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rgbPalette = []byte{
	255, 0, 0,
	0, 255, 0,
	0, 0, 255,
}

func filledFrame(left, top, width, height int, index byte, disposal DisposalMethod) *GifFrame {
	return &GifFrame{
		Left:     left,
		Top:      top,
		Width:    width,
		Height:   height,
		Disposal: disposal,
		Buffer:   bytes.Repeat([]byte{index}, width*height),
	}
}

func TestGifFrameProcessorDisposal(t *testing.T) {
	p := NewGifFrameProcessor(4, 4, rgbPalette)

	first, err := p.ProcessFrame(filledFrame(0, 0, 4, 4, 0, DisposeKeep))
	require.NoError(t, err)
	assert.Equal(t, red, first.NRGBAAt(2, 2))

	second, err := p.ProcessFrame(filledFrame(1, 1, 2, 2, 1, DisposeBackground))
	require.NoError(t, err)
	assert.Equal(t, green, second.NRGBAAt(1, 1))
	assert.Equal(t, red, second.NRGBAAt(0, 0))

	third, err := p.ProcessFrame(filledFrame(0, 0, 1, 1, 2, DisposePrevious))
	require.NoError(t, err)
	assert.Equal(t, blue, third.NRGBAAt(0, 0))
	assert.Equal(t, transparent, third.NRGBAAt(1, 1), "background disposal clears the area")
	assert.Equal(t, transparent, third.NRGBAAt(2, 2))
	assert.Equal(t, red, third.NRGBAAt(3, 3))

	fourth, err := p.ProcessFrame(filledFrame(3, 3, 1, 1, 1, DisposeKeep))
	require.NoError(t, err)
	assert.Equal(t, red, fourth.NRGBAAt(0, 0), "previous disposal restores the snapshot")
	assert.Equal(t, transparent, fourth.NRGBAAt(1, 1))
	assert.Equal(t, green, fourth.NRGBAAt(3, 3))

	assert.Equal(t, blue, third.NRGBAAt(0, 0), "returned frames do not alias the canvas")
}

func TestGifFrameProcessorTransparency(t *testing.T) {
	p := NewGifFrameProcessor(2, 1, rgbPalette)
	_, err := p.ProcessFrame(filledFrame(0, 0, 2, 1, 0, DisposeKeep))
	require.NoError(t, err)

	f := filledFrame(0, 0, 2, 1, 2, DisposeKeep)
	f.Buffer[0] = 1
	f.Transparent, f.HasTransparent = 1, true
	out, err := p.ProcessFrame(f)
	require.NoError(t, err)

	assert.Equal(t, red, out.NRGBAAt(0, 0))
	assert.Equal(t, blue, out.NRGBAAt(1, 0))
}

func TestGifFrameProcessorLocalPalette(t *testing.T) {
	p := NewGifFrameProcessor(1, 1, rgbPalette)
	f := filledFrame(0, 0, 1, 1, 0, DisposeKeep)
	f.Palette = []byte{255, 255, 255}
	out, err := p.ProcessFrame(f)
	require.NoError(t, err)
	assert.Equal(t, white, out.NRGBAAt(0, 0))
}

func TestGifFrameProcessorClipsAndSkips(t *testing.T) {
	p := NewGifFrameProcessor(2, 2, rgbPalette)

	out, err := p.ProcessFrame(filledFrame(1, 1, 3, 3, 0, DisposeKeep))
	require.NoError(t, err)
	assert.Equal(t, red, out.NRGBAAt(1, 1))
	assert.Equal(t, transparent, out.NRGBAAt(0, 0))

	out, err = p.ProcessFrame(filledFrame(0, 0, 1, 1, 9, DisposeKeep))
	require.NoError(t, err)
	assert.Equal(t, transparent, out.NRGBAAt(0, 0), "out of range index is not drawn")
}

func TestGifFrameProcessorErrors(t *testing.T) {
	p := NewGifFrameProcessor(2, 2, nil)
	_, err := p.ProcessFrame(filledFrame(0, 0, 1, 1, 0, DisposeKeep))
	assert.ErrorIs(t, err, ErrMissingPalette)

	p = NewGifFrameProcessor(2, 2, rgbPalette)
	f := filledFrame(0, 0, 2, 2, 0, DisposeKeep)
	f.Buffer = f.Buffer[:3]
	_, err = p.ProcessFrame(f)
	assert.ErrorIs(t, err, ErrInvalidGifFrame)
}

func encodeTestGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{red, green, blue, black}

	full := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	part := image.NewPaletted(image.Rect(1, 1, 3, 3), pal)
	for i := range part.Pix {
		part.Pix[i] = 2
	}

	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{full, part},
		Delay:    []int{10, 25},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground},
		Config:   image.Config{ColorModel: pal, Width: 4, Height: 4},
	})
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFramesFromGIF(t *testing.T) {
	g, err := gif.DecodeAll(bytes.NewReader(encodeTestGIF(t)))
	require.NoError(t, err)

	frames, width, height, global := FramesFromGIF(g)
	assert.Equal(t, 4, width)
	assert.Equal(t, 4, height)
	assert.Equal(t, []byte{255, 0, 0}, global[:3])
	require.Len(t, frames, 2)

	assert.Equal(t, 100*time.Millisecond, frames[0].Delay)
	assert.Equal(t, DisposeKeep, frames[0].Disposal)
	assert.Equal(t, image.Rect(1, 1, 3, 3), frames[1].Bounds())
	assert.Equal(t, DisposeBackground, frames[1].Disposal)
	assert.Equal(t, 250*time.Millisecond, frames[1].Delay)
	assert.Equal(t, []byte{2, 2, 2, 2}, frames[1].Buffer)
}

func TestProcessGIF(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = HalfColor
	opts.Resize = NoResize{}
	frames, err := ProcessGIF(bytes.NewReader(encodeTestGIF(t)), opts, term80x24)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		require.NotNil(t, f.Result)
		assert.Len(t, f.Result.Lines, 4)
	}
	assert.Equal(t, 100*time.Millisecond, frames[0].Delay)
	assert.Contains(t, frames[1].Result.Lines[1], "\x1b[48;2;0;0;255m")
}

func TestProcessGIFInvalid(t *testing.T) {
	_, err := ProcessGIF(bytes.NewReader([]byte("not a gif")), DefaultOptions(), term80x24)
	assert.ErrorIs(t, err, ErrImage)
}
