/*
Package consoleimg renders images and animated GIFs as terminal output.

Character-cell output uses Unicode half blocks with 24-bit color escapes, or
luminance glyphs for terminals without color. Terminals that accept binary
images get a Kitty, iTerm2, WezTerm or Sixel payload instead. Every render
produces a slice of lines plus a count of blank lines to print before them.

Display modes:

  - HalfColor and Ascii draw one pixel per two cells
  - FullColor and FullNoColor draw two pixel rows per cell
  - Kitty, Iterm2 and WezTerm send a PNG, in color or grayscale
  - SixelFull and SixelHalf send a quantized DECSIXEL image

Basic Usage:

	img, err := consoleimg.Open("image.png")
	if err != nil {
	    log.Fatal(err)
	}
	if err := img.Mode(consoleimg.FullColor).Center(true).Print(); err != nil {
	    log.Fatal(err)
	}

Picking a mode from the terminal:

	out, err := consoleimg.New(src).
	    Protocol(consoleimg.Auto, true, true).
	    Sixel(64, true).
	    Render()

Lower level:

	p := consoleimg.NewImageProcessor(consoleimg.DefaultOptions(), nil)
	res, err := p.Process(src)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(res.Display())

Animations:

	frames, err := consoleimg.ProcessGIF(f, consoleimg.DefaultOptions(), nil)

Errors returned by the processor and converter are *ConvertError values and
match the Err* sentinels with errors.Is.
*/
package consoleimg
