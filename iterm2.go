package consoleimg

import (
	"fmt"
	"strings"
)

// OSC 1337 terminators.
const (
	iterm2Terminator  = "\x07"
	weztermTerminator = "\x1b\\"
)

// inlineConvert emits an OSC 1337 inline image. iTerm2 ends it with BEL,
// WezTerm with ST.
func (c *ImageConverter) inlineConvert(terminator string) ([]string, error) {
	data, err := c.imageData()
	if err != nil {
		return nil, err
	}

	args := []string{fmt.Sprintf("size=%d", len(data)), "inline=1"}
	if hint := c.sizeHint(); hint != "" {
		args = append(args, hint)
	}
	payload := "\x1b]1337;File=" + strings.Join(args, ";") + ":" + Base64Encode(data) + terminator

	return []string{" ", c.opts.LineInit + c.wrap(payload)}, nil
}

// sizeHint asks the terminal to scale the image to its full height when
// the image is relatively taller than the terminal, otherwise to its full
// width. It is only given when the terminal size is known and the image
// is not centered.
func (c *ImageConverter) sizeHint() string {
	cols, rows := c.opts.TermCols, c.opts.TermRows
	if c.opts.Center || cols <= 0 || rows <= 0 {
		return ""
	}

	terminalRate := float64(cols) / float64(rows) / 2
	rate := float64(c.opts.Width) / float64(c.opts.Height)
	if rate < terminalRate {
		return fmt.Sprintf("height=%d", rows)
	}
	return fmt.Sprintf("width=%d", cols)
}
