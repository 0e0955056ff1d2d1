/*
Copyright © 2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/go-consoleimg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// defaultFrameDelay is used for frames that carry no delay.
const defaultFrameDelay = 100 * time.Millisecond

var loop bool

func init() {
	gifCmd.Flags().BoolVarP(&loop, "loop", "l", false, "Loop the animation until a key is pressed")
	rootCmd.AddCommand(gifCmd)
}

type frameMsg struct{}

type player struct {
	frames  []consoleimg.Frame
	current int
	loop    bool
	done    bool
}

func newPlayer(frames []consoleimg.Frame, loop bool) player {
	return player{frames: frames, loop: loop}
}

func (p player) delay() time.Duration {
	if d := p.frames[p.current].Delay; d > 0 {
		return d
	}
	return defaultFrameDelay
}

func (p player) tick() tea.Cmd {
	return tea.Tick(p.delay(), func(time.Time) tea.Msg { return frameMsg{} })
}

func (p player) Init() tea.Cmd {
	if len(p.frames) == 0 {
		return tea.Quit
	}
	return p.tick()
}

func (p player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.done = true
			return p, tea.Quit
		}
	case frameMsg:
		if p.current+1 < len(p.frames) {
			p.current++
			return p, p.tick()
		}
		if p.loop {
			p.current = 0
			return p, p.tick()
		}
		p.done = true
		return p, tea.Quit
	}
	return p, nil
}

func (p player) View() string {
	if len(p.frames) == 0 {
		return ""
	}
	return p.frames[p.current].Result.Display()
}

var gifCmd = &cobra.Command{
	Use:          "gif <file.gif>",
	Short:        "Play an animated GIF",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		term := consoleimg.SystemTerminal{}
		opts, err := buildOptions(currentFlags(), term)
		if err != nil {
			return err
		}
		if !opts.Mode.IsNormal() {
			return fmt.Errorf("gif playback needs a character-cell mode, got %s", opts.Mode)
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open gif: %w", err)
		}
		defer f.Close()

		start := time.Now()
		frames, err := consoleimg.ProcessGIF(f, opts, term)
		if err != nil {
			return fmt.Errorf("failed to render gif: %w", err)
		}
		log.WithFields(log.Fields{
			"frames":  len(frames),
			"elapsed": time.Since(start).String(),
		}).Debug("rendered gif")

		if _, err := tea.NewProgram(newPlayer(frames, loop), tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("failed to play gif: %w", err)
		}
		return nil
	},
}
