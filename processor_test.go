package consoleimg

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenTerminal struct{}

func (brokenTerminal) Size() (int, int, error) { return 0, 0, errors.New("not a tty") }
func (brokenTerminal) Protocol() Protocol      { return Normal }

var term80x24 = StaticTerminal{Cols: 80, Rows: 24, Proto: Normal}

func TestProcessFullColor(t *testing.T) {
	opts := DefaultOptions()
	opts.Resize = NoResize{}
	res, err := NewImageProcessor(opts, term80x24).Process(solidImage(10, 10, red))
	require.NoError(t, err)

	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 10, res.Height)
	assert.Equal(t, 0, res.AirLines)
	require.Len(t, res.Lines, 5)
	assert.Equal(t, "\x1b[48;2;255;0;0m"+strings.Repeat(" ", 10)+ResetEscape, res.Lines[0])
}

func TestProcessAutoResize(t *testing.T) {
	tests := []struct {
		mode      DisplayMode
		maxWidth  int
		maxHeight int
	}{
		{mode: FullColor, maxWidth: 80, maxHeight: 48},
		{mode: HalfColor, maxWidth: 40, maxHeight: 24},
		{mode: SixelFull, maxWidth: 960, maxHeight: 504},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Mode = tt.mode
			res, err := NewImageProcessor(opts, term80x24).Process(createTestImage(1200, 300))
			require.NoError(t, err)
			assert.LessOrEqual(t, res.Width, tt.maxWidth)
			assert.LessOrEqual(t, res.Height, tt.maxHeight)
			assert.Positive(t, res.Width)
		})
	}
}

func TestProcessCenter(t *testing.T) {
	tests := []struct {
		name     string
		mode     DisplayMode
		wantAir  int
		wantPad  int
		wantRows int
	}{
		{name: "half blocks", mode: HalfColor, wantAir: 10, wantPad: 30, wantRows: 4},
		{name: "full blocks", mode: FullColor, wantAir: 11, wantPad: 35, wantRows: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Mode = tt.mode
			opts.Resize = NoResize{}
			opts.Center = true
			res, err := NewImageProcessor(opts, term80x24).Process(solidImage(10, 4, blue))
			require.NoError(t, err)

			assert.Equal(t, tt.wantAir, res.AirLines)
			require.Len(t, res.Lines, tt.wantRows)
			for _, line := range res.Lines {
				assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", tt.wantPad)+"\x1b["), "%q", line)
				assert.False(t, strings.HasPrefix(line, strings.Repeat(" ", tt.wantPad+1)))
			}
		})
	}
}

func TestProcessCenterProtocol(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = Kitty
	opts.Resize = NoResize{}
	opts.Center = true
	res, err := NewImageProcessor(opts, term80x24).Process(solidImage(10, 10, blue))
	require.NoError(t, err)

	assert.Equal(t, 24, res.AirLines)
	require.Len(t, res.Lines, 1)
	assert.True(t, strings.HasPrefix(res.Lines[0], "\x1b[1;16H\x1b_G"))
}

func TestProcessCenterSixelIsNoop(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = SixelFull
	opts.Resize = NoResize{}
	opts.Center = true
	res, err := NewImageProcessor(opts, term80x24).Process(solidImage(4, 4, blue))
	require.NoError(t, err)

	assert.Equal(t, 0, res.AirLines)
	assert.True(t, strings.HasPrefix(res.Lines[0], sixelFullPrefix))
}

func TestCursorPosition(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          string
	}{
		{name: "tall", width: 10, height: 10, want: "\x1b[1;16H"},
		{name: "wide", width: 40, height: 10, want: "\x1b[19;1H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cursorPosition(tt.width, tt.height, 80, 24))
		})
	}
}

func TestProcessTerminalError(t *testing.T) {
	_, err := NewImageProcessor(DefaultOptions(), brokenTerminal{}).Process(createTestImage(4, 4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGetTerminalSize)
}

func TestProcessSkipsTerminalWhenUnneeded(t *testing.T) {
	opts := DefaultOptions()
	opts.Resize = NewCustomResize(4, 4)
	res, err := NewImageProcessor(opts, brokenTerminal{}).Process(createTestImage(16, 16))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, 4, res.Height)
}

func TestProcessEmpty(t *testing.T) {
	_, err := NewImageProcessor(DefaultOptions(), term80x24).Process(nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestResultDisplay(t *testing.T) {
	res := &ImageProcessorResult{
		AirLines: 2,
		Lines:    []string{"ab", "cd"},
		Elapsed:  61*time.Second + 234*time.Millisecond,
	}
	assert.Equal(t, "\n\nab\ncd", res.Display())
	assert.Equal(t, "01:01.234", res.FormatElapsed())

	var buf bytes.Buffer
	require.NoError(t, res.Print(&buf))
	assert.Equal(t, "\n\nab\ncd\n", buf.String())
}
