package consoleimg

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// TerminalInfo reports the character-cell size and preferred protocol of
// the terminal being rendered to.
type TerminalInfo interface {
	Size() (cols, rows int, err error)
	Protocol() Protocol
}

// StaticTerminal is a TerminalInfo with fixed values.
type StaticTerminal struct {
	Cols, Rows int
	Proto      Protocol
}

func (t StaticTerminal) Size() (int, int, error) { return t.Cols, t.Rows, nil }
func (t StaticTerminal) Protocol() Protocol      { return t.Proto }

// SystemTerminal queries the terminal attached to stdout.
type SystemTerminal struct{}

func (SystemTerminal) Size() (int, int, error) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, &ConvertError{
			Kind:    GetTerminalSizeError,
			Context: ErrorContext{Function: "term.GetSize"},
			Err:     err,
		}
	}
	return cols, rows, nil
}

func (SystemTerminal) Protocol() Protocol { return DetectProtocol() }

func terminalSize(t TerminalInfo) (int, int, error) {
	cols, rows, err := t.Size()
	if err != nil {
		var ce *ConvertError
		if errors.As(err, &ce) {
			return 0, 0, err
		}
		return 0, 0, &ConvertError{Kind: GetTerminalSizeError, Err: err}
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, &ConvertError{
			Kind:    GetTerminalSizeError,
			Context: ErrorContext{Function: "TerminalInfo.Size"},
		}
	}
	return cols, rows, nil
}
