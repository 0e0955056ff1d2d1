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
	"io"
	"os"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/go-consoleimg"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	showTime    bool
	output      string
	modeName    string
	protoName   string
	half        bool
	noColor     bool
	width       int
	height      int
	center      bool
	blackBg     bool
	noCompress  bool
	sixelColors int
	noDither    bool
	tmux        bool
)

func init() {
	log.SetHandler(clihander.Default)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&modeName, "mode", "m", "", "Display mode (e.g. FullColor, Ascii, Kitty, SixelFull)")
	rootCmd.PersistentFlags().StringVarP(&protoName, "protocol", "p", "auto", "Protocol when --mode is not set (auto, normal, kitty, iterm2, wezterm, sixel)")
	rootCmd.PersistentFlags().BoolVar(&half, "half", false, "Use one pixel per two cells instead of two pixels per cell")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Render luminance only")
	rootCmd.PersistentFlags().IntVarP(&width, "width", "W", 0, "Resize to this pixel width (0 keeps aspect or fits the terminal)")
	rootCmd.PersistentFlags().IntVarP(&height, "height", "H", 0, "Resize to this pixel height (0 keeps aspect or fits the terminal)")
	rootCmd.PersistentFlags().BoolVarP(&center, "center", "C", false, "Center the image in the terminal")
	rootCmd.PersistentFlags().BoolVarP(&blackBg, "black-bg", "b", false, "Paint a black background behind block output")
	rootCmd.PersistentFlags().BoolVar(&noCompress, "no-compress", false, "Write a color escape for every cell")
	rootCmd.PersistentFlags().IntVar(&sixelColors, "sixel-colors", 256, "Sixel palette size (1-256)")
	rootCmd.PersistentFlags().BoolVar(&noDither, "no-dither", false, "Disable Sixel dithering")
	rootCmd.PersistentFlags().BoolVar(&tmux, "tmux", consoleimg.InTmux(), "Wrap binary payloads for tmux passthrough")
	rootCmd.Flags().BoolVarP(&showTime, "time", "t", false, "Print the render time")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Write the escape sequences to a file instead of stdout")
}

type flagValues struct {
	mode        string
	protocol    string
	half        bool
	noColor     bool
	width       int
	height      int
	center      bool
	blackBg     bool
	noCompress  bool
	sixelColors int
	noDither    bool
	tmux        bool
}

func currentFlags() flagValues {
	return flagValues{
		mode:        modeName,
		protocol:    protoName,
		half:        half,
		noColor:     noColor,
		width:       width,
		height:      height,
		center:      center,
		blackBg:     blackBg,
		noCompress:  noCompress,
		sixelColors: sixelColors,
		noDither:    noDither,
		tmux:        tmux,
	}
}

// resizeFromFlags maps -W/-H to a resize policy: neither set fits the
// terminal, otherwise the given axes are used exactly.
func resizeFromFlags(w, h int) (consoleimg.ResizeMode, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("invalid size %dx%d: width and height must not be negative", w, h)
	}
	if w == 0 && h == 0 {
		return consoleimg.NewAutoResize(), nil
	}
	return consoleimg.NewCustomResize(uint(w), uint(h)), nil
}

func buildOptions(f flagValues, term consoleimg.TerminalInfo) (consoleimg.ImageProcessorOptions, error) {
	opts := consoleimg.DefaultOptions()

	if f.mode != "" {
		mode, err := consoleimg.ParseDisplayMode(f.mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	} else {
		proto, err := consoleimg.ParseProtocol(f.protocol)
		if err != nil {
			return opts, err
		}
		opts.Mode = consoleimg.DisplayModeBuilder{Protocol: proto, Full: !f.half, Color: !f.noColor}.Build(term)
	}

	resize, err := resizeFromFlags(f.width, f.height)
	if err != nil {
		return opts, err
	}
	if f.sixelColors < 1 || f.sixelColors > 256 {
		return opts, fmt.Errorf("invalid --sixel-colors %d: must be between 1 and 256", f.sixelColors)
	}

	opts.Resize = resize
	opts.Center = f.center
	opts.BlackBackground = f.blackBg
	opts.Compression = !f.noCompress
	opts.Sixel = &consoleimg.SixelOptions{MaxColors: f.sixelColors, Dither: !f.noDither}
	opts.Tmux = f.tmux
	return opts, nil
}

func writeResult(res *consoleimg.ImageProcessorResult, path string, stdout io.Writer) error {
	if path == "" {
		return res.Print(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return res.Print(f)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "imgconsole <image>",
	Short:        "Display images in your terminal",
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
		log.WithField("mode", opts.Mode.String()).Debug("rendering")

		img, err := consoleimg.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		img.Mode(opts.Mode).
			Resize(opts.Resize).
			Center(opts.Center).
			BlackBackground(opts.BlackBackground).
			Compression(opts.Compression).
			Sixel(opts.Sixel.MaxColors, opts.Sixel.Dither).
			Tmux(opts.Tmux).
			Terminal(term)

		res, err := img.Process()
		if err != nil {
			return fmt.Errorf("failed to display image: %w", err)
		}
		if err := writeResult(res, output, cmd.OutOrStdout()); err != nil {
			return err
		}
		if showTime {
			log.Infof("Rendered %dx%d in %s", res.Width, res.Height, res.FormatElapsed())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
