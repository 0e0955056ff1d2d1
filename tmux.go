package consoleimg

import (
	"os"
	"strings"
)

// InTmux reports whether the process runs inside tmux.
func InTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// WrapTmuxPassthrough wraps an escape sequence so tmux forwards it to the
// outer terminal. Every ESC inside the sequence is doubled.
func WrapTmuxPassthrough(seq string) string {
	if !strings.HasPrefix(seq, "\x1b") {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}

func (c *ImageConverter) wrap(seq string) string {
	if c.opts.Tmux {
		return WrapTmuxPassthrough(seq)
	}
	return seq
}
