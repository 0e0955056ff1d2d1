package consoleimg

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	"github.com/apex/log"
)

// ImageProcessorOptions configures a render.
type ImageProcessorOptions struct {
	Mode DisplayMode
	// Resize is AutoResize, CustomResize or NoResize; nil means NewAutoResize().
	Resize          ResizeMode
	Center          bool
	BlackBackground bool
	Compression     bool
	// Sixel is only read by the Sixel modes; nil means DefaultSixelOptions().
	Sixel *SixelOptions
	Tmux  bool
}

// DefaultOptions returns full color output, fit to the terminal, with compression.
func DefaultOptions() ImageProcessorOptions {
	return ImageProcessorOptions{
		Mode:        FullColor,
		Resize:      NewAutoResize(),
		Compression: true,
	}
}

// ImageProcessorResult is the outcome of one render.
type ImageProcessorResult struct {
	// Width and Height are the pixel size actually encoded.
	Width  int
	Height int
	// AirLines is the number of blank lines to print before Lines.
	AirLines int
	Lines    []string
	Start    time.Time
	Elapsed  time.Duration
	Options  ImageProcessorOptions
}

// Display joins the air lines and output lines into printable text.
func (r *ImageProcessorResult) Display() string {
	return strings.Repeat("\n", r.AirLines) + strings.Join(r.Lines, "\n")
}

// Print writes Display and a trailing newline to w.
func (r *ImageProcessorResult) Print(w io.Writer) error {
	if _, err := io.WriteString(w, r.Display()+"\n"); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// FormatElapsed formats Elapsed as MM:SS.mmm.
func (r *ImageProcessorResult) FormatElapsed() string {
	ms := r.Elapsed.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// ImageProcessor renders images for one terminal.
type ImageProcessor struct {
	Options  ImageProcessorOptions
	Terminal TerminalInfo
}

// NewImageProcessor returns a processor. A nil terminal means SystemTerminal.
func NewImageProcessor(opts ImageProcessorOptions, term TerminalInfo) *ImageProcessor {
	if term == nil {
		term = SystemTerminal{}
	}
	return &ImageProcessor{Options: opts, Terminal: term}
}

// Process resizes, lays out and encodes img. The terminal is only queried
// when the options need its size.
func (p *ImageProcessor) Process(img image.Image) (*ImageProcessorResult, error) {
	start := time.Now()
	opts := p.Options
	if opts.Resize == nil {
		opts.Resize = NewAutoResize()
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyData
	}

	_, auto := opts.Resize.(AutoResize)
	var cols, rows int
	if auto || opts.Center {
		var err error
		if cols, rows, err = terminalSize(p.Terminal); err != nil {
			return nil, err
		}
	}

	img = ResizeImage(img, opts.Resize, opts.Mode, cols, rows)
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	var lineInit string
	var airLines int
	if opts.Center {
		lineInit, airLines = centerLayout(opts.Mode, width, height, cols, rows)
	}

	log.WithFields(log.Fields{
		"mode":      opts.Mode.String(),
		"width":     width,
		"height":    height,
		"cols":      cols,
		"rows":      rows,
		"air_lines": airLines,
	}).Debug("image geometry")

	copts := ImageConverterOptions{
		LineInit:        lineInit,
		Mode:            opts.Mode,
		Center:          opts.Center,
		BlackBackground: opts.BlackBackground,
		Compression:     opts.Compression,
		Sixel:           opts.Sixel,
		Tmux:            opts.Tmux,
	}
	if auto && (opts.Mode.IsITerm2() || opts.Mode.IsWezTerm()) {
		copts.TermCols, copts.TermRows = cols, rows
	}

	lines, err := NewImageConverter(NewProcessedImage(opts.Mode, img), copts).Convert()
	if err != nil {
		return nil, err
	}

	return &ImageProcessorResult{
		Width:    width,
		Height:   height,
		AirLines: airLines,
		Lines:    lines,
		Start:    start,
		Elapsed:  time.Since(start),
		Options:  opts,
	}, nil
}

// centerLayout returns the row prefix and leading blank lines that center
// a width x height image in a cols x rows terminal.
func centerLayout(mode DisplayMode, width, height, cols, rows int) (string, int) {
	full := mode.IsFull()
	switch {
	case mode.IsNormal():
		var airLines int
		if full && height < rows/2 {
			airLines = rows/2 - height/4
		} else if !full && height < rows {
			airLines = rows/2 - height/2
		}

		cellWidth, divisor := 2, 1.0
		if full {
			cellWidth, divisor = 1, 2.0
		}
		var lineInit string
		if width < cols/cellWidth {
			pad := int(math.Round(float64(cols)/2 - float64(width)/divisor))
			lineInit = strings.Repeat(" ", max(pad, 0))
		}
		return lineInit, airLines
	case mode.IsSixel():
		return "", 0
	default:
		return cursorPosition(width, height, cols, rows), rows
	}
}

// cursorPosition places a binary protocol image by comparing its aspect
// ratio with the terminal's, where a cell is twice as tall as wide.
func cursorPosition(width, height, cols, rows int) string {
	terminalRate := float64(cols) / float64(rows) / 2
	rate := float64(width) / float64(height)

	switch {
	case rate < terminalRate:
		imageCols := int(float64(rows) * rate)
		offset := max(cols/2-imageCols, 0)
		if rate > 1 {
			offset -= offset / 2
		}
		return fmt.Sprintf("\x1b[1;%dH", offset)
	case rate == terminalRate:
		switch {
		case cols > rows:
			offset := (cols - rows) / 2
			return fmt.Sprintf("\x1b[1;%dH", offset-offset/2)
		case cols < rows:
			offset := (rows*2 - cols/2) / 2
			return fmt.Sprintf("\x1b[%d;1H", offset-offset/2)
		}
		return ""
	default:
		imageRows := int(float64(cols) / 2 / rate)
		offset := max(rows*2-imageRows, 0)
		return fmt.Sprintf("\x1b[%d;1H", offset-offset/2)
	}
}
