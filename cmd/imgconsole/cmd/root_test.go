package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blacktop/go-consoleimg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFlags() flagValues {
	return flagValues{protocol: "auto", sixelColors: 256}
}

func TestResizeFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		want    consoleimg.ResizeMode
		wantErr bool
	}{
		{name: "fit terminal", want: consoleimg.NewAutoResize()},
		{name: "width only", w: 40, want: consoleimg.NewCustomResize(40, 0)},
		{name: "both", w: 40, h: 20, want: consoleimg.NewCustomResize(40, 20)},
		{name: "negative", w: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resizeFromFlags(tt.w, tt.h)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildOptions(t *testing.T) {
	kitty := consoleimg.StaticTerminal{Cols: 80, Rows: 24, Proto: consoleimg.KittyProtocol}

	tests := []struct {
		name     string
		modify   func(f *flagValues)
		wantMode consoleimg.DisplayMode
		wantErr  bool
	}{
		{name: "auto follows terminal", wantMode: consoleimg.Kitty},
		{name: "explicit mode", modify: func(f *flagValues) { f.mode = "ascii" }, wantMode: consoleimg.Ascii},
		{name: "normal half", modify: func(f *flagValues) { f.protocol = "normal"; f.half = true }, wantMode: consoleimg.HalfColor},
		{name: "sixel half", modify: func(f *flagValues) { f.protocol = "sixel"; f.half = true }, wantMode: consoleimg.SixelHalf},
		{name: "bad mode", modify: func(f *flagValues) { f.mode = "nope" }, wantErr: true},
		{name: "bad protocol", modify: func(f *flagValues) { f.protocol = "nope" }, wantErr: true},
		{name: "bad sixel colors", modify: func(f *flagValues) { f.sixelColors = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultFlags()
			if tt.modify != nil {
				tt.modify(&f)
			}
			opts, err := buildOptions(f, kitty)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, opts.Mode)
			assert.True(t, opts.Compression)
			require.NotNil(t, opts.Sixel)
			assert.True(t, opts.Sixel.Dither)
		})
	}
}

func TestPlayer(t *testing.T) {
	frames := []consoleimg.Frame{
		{Index: 0, Delay: 50 * time.Millisecond, Result: &consoleimg.ImageProcessorResult{Lines: []string{"a"}}},
		{Index: 1, Result: &consoleimg.ImageProcessorResult{Lines: []string{"b"}}},
	}

	p := newPlayer(frames, false)
	assert.Equal(t, "a", p.View())
	assert.Equal(t, 50*time.Millisecond, p.delay())
	assert.NotNil(t, p.Init())

	m, cmd := p.Update(frameMsg{})
	p = m.(player)
	assert.Equal(t, "b", p.View())
	assert.Equal(t, defaultFrameDelay, p.delay())
	assert.NotNil(t, cmd)

	m, _ = p.Update(frameMsg{})
	p = m.(player)
	assert.True(t, p.done)

	looping := newPlayer(frames, true)
	m, _ = looping.Update(frameMsg{})
	m, _ = m.(player).Update(frameMsg{})
	looping = m.(player)
	assert.Equal(t, 0, looping.current)
	assert.False(t, looping.done)

	m, _ = looping.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, m.(player).done)
}

func TestPlayerEmpty(t *testing.T) {
	p := newPlayer(nil, false)
	assert.Equal(t, "", p.View())
	assert.NotNil(t, p.Init())
}

func TestWriteResult(t *testing.T) {
	res := &consoleimg.ImageProcessorResult{AirLines: 1, Lines: []string{"x", "y"}}

	var buf bytes.Buffer
	require.NoError(t, writeResult(res, "", &buf))
	assert.Equal(t, "\nx\ny\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, writeResult(res, path, &buf))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\nx\ny\n", string(data))
}
