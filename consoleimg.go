package consoleimg

import (
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Image is a fluent front end to ImageProcessor.
type Image struct {
	source image.Image
	reader io.Reader
	path   string

	opts     ImageProcessorOptions
	terminal TerminalInfo
	builder  *DisplayModeBuilder
}

// New wraps a decoded image.
func New(img image.Image) *Image {
	if img == nil {
		return nil
	}
	return &Image{source: img, opts: DefaultOptions()}
}

// Open prepares an image file; it is decoded on first use.
func Open(path string) (*Image, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	return &Image{path: path, opts: DefaultOptions()}, nil
}

// From prepares an image read from r; it is decoded on first use.
func From(r io.Reader) *Image {
	if r == nil {
		return nil
	}
	return &Image{reader: r, opts: DefaultOptions()}
}

// Mode sets the display mode directly.
func (i *Image) Mode(m DisplayMode) *Image {
	i.opts.Mode = m
	i.builder = nil
	return i
}

// Protocol picks the mode from a protocol and the full/color flags when
// the image is processed, so Auto follows the configured terminal.
func (i *Image) Protocol(p Protocol, full, color bool) *Image {
	i.builder = &DisplayModeBuilder{Protocol: p, Full: full, Color: color}
	return i
}

// Resize sets the resize policy.
func (i *Image) Resize(rm ResizeMode) *Image {
	i.opts.Resize = rm
	return i
}

// Center centers the output in the terminal.
func (i *Image) Center(c bool) *Image {
	i.opts.Center = c
	return i
}

// BlackBackground paints a black background behind character-cell output.
func (i *Image) BlackBackground(b bool) *Image {
	i.opts.BlackBackground = b
	return i
}

// Compression toggles skipping of repeated color escapes.
func (i *Image) Compression(c bool) *Image {
	i.opts.Compression = c
	return i
}

// Sixel sets the palette size and dithering for Sixel output.
func (i *Image) Sixel(maxColors int, dither bool) *Image {
	i.opts.Sixel = &SixelOptions{MaxColors: maxColors, Dither: dither}
	return i
}

// Tmux wraps binary payloads for tmux passthrough.
func (i *Image) Tmux(t bool) *Image {
	i.opts.Tmux = t
	return i
}

// Terminal sets the terminal to lay out for. The default is SystemTerminal.
func (i *Image) Terminal(t TerminalInfo) *Image {
	i.terminal = t
	return i
}

// Options returns the options the image will be processed with.
func (i *Image) Options() ImageProcessorOptions {
	opts := i.opts
	if i.builder != nil {
		opts.Mode = i.builder.Build(i.term())
	}
	return opts
}

func (i *Image) term() TerminalInfo {
	if i.terminal == nil {
		return SystemTerminal{}
	}
	return i.terminal
}

// Process decodes the source if needed and renders it.
func (i *Image) Process() (*ImageProcessorResult, error) {
	img, err := i.loadImage()
	if err != nil {
		return nil, err
	}
	return NewImageProcessor(i.Options(), i.term()).Process(img)
}

// Render returns the printable output.
func (i *Image) Render() (string, error) {
	res, err := i.Process()
	if err != nil {
		return "", err
	}
	return res.Display(), nil
}

// Print writes the output to stdout.
func (i *Image) Print() error {
	res, err := i.Process()
	if err != nil {
		return err
	}
	return res.Print(os.Stdout)
}

func (i *Image) loadImage() (image.Image, error) {
	if i.source != nil {
		return i.source, nil
	}

	if i.path != "" {
		file, err := os.Open(i.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			return nil, newImageError("image.Decode", err)
		}
		i.source = img
		return img, nil
	}

	if i.reader != nil {
		img, _, err := image.Decode(i.reader)
		if err != nil {
			return nil, newImageError("image.Decode", err)
		}
		i.source = img
		return img, nil
	}

	return nil, fmt.Errorf("no image source configured")
}

// ProcessOne renders a single image.
func ProcessOne(img image.Image, opts ImageProcessorOptions, term TerminalInfo) (*ImageProcessorResult, error) {
	return NewImageProcessor(opts, term).Process(img)
}

// ProcessMany renders images in parallel and returns results in input order.
// The first error aborts the batch.
func ProcessMany(imgs []image.Image, opts ImageProcessorOptions, term TerminalInfo) ([]*ImageProcessorResult, error) {
	p := NewImageProcessor(opts, term)
	return parallelMap("ProcessMany", len(imgs), func(i int) (*ImageProcessorResult, error) {
		res, err := p.Process(imgs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to process image %d: %w", i, err)
		}
		return res, nil
	})
}

// Frame is one rendered animation frame.
type Frame struct {
	Index  int
	Delay  time.Duration
	Result *ImageProcessorResult
}

// ProcessGIF decodes an animated GIF, composites its frames and renders
// them in parallel. Frames are returned in stream order.
func ProcessGIF(r io.Reader, opts ImageProcessorOptions, term TerminalInfo) ([]Frame, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, newImageError("gif.DecodeAll", err)
	}

	frames, width, height, global := FramesFromGIF(g)
	compositor := NewGifFrameProcessor(width, height, global)
	canvases := make([]*image.NRGBA, len(frames))
	for i := range frames {
		if canvases[i], err = compositor.ProcessFrame(&frames[i]); err != nil {
			return nil, fmt.Errorf("failed to composite frame %d: %w", i, err)
		}
	}

	p := NewImageProcessor(opts, term)
	return parallelMap("ProcessGIF", len(canvases), func(i int) (Frame, error) {
		res, err := p.Process(canvases[i])
		if err != nil {
			return Frame{}, fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		return Frame{Index: i, Delay: frames[i].Delay, Result: res}, nil
	})
}
