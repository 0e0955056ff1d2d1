package consoleimg

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/apex/log"
)

const (
	sixelFullPrefix = "\x1bP9;1q"
	sixelHalfPrefix = "\x1bPq"
	sixelSuffix     = "\x1b\\"
	sixelBandHeight = 6
	sixelOffset     = 63 // '?' paints nothing
)

// sixelRun is one chunk of band output. index is the palette index the
// text paints with, or -1 for blanks and control characters.
type sixelRun struct {
	index int
	text  string
}

// sixelColumn tracks one column of a band across color layers.
type sixelColumn struct {
	consumed int
	head     int
	drawn    [sixelBandHeight]int
}

// sixelConvert encodes the image as DECSIXEL. Palette entries are
// renumbered so the most used color gets register 0.
func (c *ImageConverter) sixelConvert() ([]string, error) {
	so := c.opts.sixelOptions()
	indexed, err := NewIndexedImage(c.img.RGB(), so.MaxColors, so.Dither)
	if err != nil {
		return nil, err
	}
	full := c.opts.Mode == SixelFull

	var mu sync.Mutex
	counts := make([]int, len(indexed.Palette))
	bands, err := parallelMap("sixelConvert", (indexed.Height+sixelBandHeight-1)/sixelBandHeight,
		func(band int) ([]sixelRun, error) {
			runs, local := encodeSixelBand(indexed, band*sixelBandHeight, full)
			mu.Lock()
			defer mu.Unlock()
			for i, n := range local {
				counts[i] += n
			}
			return runs, nil
		})
	if err != nil {
		return nil, err
	}

	order, remap := hotColorOrder(counts)

	var sb strings.Builder
	if full {
		sb.WriteString(sixelFullPrefix)
	} else {
		sb.WriteString(sixelHalfPrefix)
	}
	for register, idx := range order {
		p := indexed.Palette[idx]
		fmt.Fprintf(&sb, "#%d;2;%d;%d;%d", register, sixelPercent(p.R), sixelPercent(p.G), sixelPercent(p.B))
	}
	current := -1
	for _, runs := range bands {
		for _, r := range runs {
			if r.index >= 0 && r.index != current {
				fmt.Fprintf(&sb, "#%d", remap[r.index])
				current = r.index
			}
			sb.WriteString(r.text)
		}
	}
	sb.WriteString(sixelSuffix)

	log.WithFields(log.Fields{
		"bands":  len(bands),
		"colors": len(order),
		"bytes":  sb.Len(),
	}).Debug("encoded sixel")

	return []string{c.opts.LineInit + c.wrap(sb.String()), " "}, nil
}

func sixelPercent(v uint8) int {
	return int(math.Round(float64(v) * 100 / 255))
}

// hotColorOrder sorts palette indices by descending use. Ties keep palette
// order. remap is the inverse of order.
func hotColorOrder(counts []int) (order, remap []int) {
	order = make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(counts[b], counts[a])
	})
	remap = make([]int, len(counts))
	for register, idx := range order {
		remap[idx] = register
	}
	return order, remap
}

// encodeSixelBand encodes the six rows starting at y0 and returns the runs
// and per-palette-index usage counts for the band.
//
// Every pass paints one color per open column: the color at the column's
// head, on every position at or below the head that shares it. The head
// then moves to the first position holding a color not yet painted. A
// column closes once all its positions are painted; closed columns are
// blank in later passes.
func encodeSixelBand(img *IndexedImage, y0 int, full bool) ([]sixelRun, []int) {
	rows := min(sixelBandHeight, img.Height-y0)
	columns := make([]sixelColumn, img.Width)
	for i := range columns {
		for j := range columns[i].drawn {
			columns[i].drawn[j] = -1
		}
	}
	closed := make([]bool, img.Width)
	open := img.Width

	enc := sixelRunEncoder{repeat: 1, counts: make([]int, len(img.Palette))}
	if !full {
		enc.repeat = 2
	}

	for pass := 0; open > 0; pass++ {
		if pass > 0 {
			enc.runs = append(enc.runs, sixelRun{index: -1, text: "$"})
		}
		for x := 0; x < img.Width; x++ {
			if closed[x] {
				enc.push(-1, 0)
				continue
			}

			col := &columns[x]
			cur := int(img.At(x, y0+col.head))
			col.drawn[col.head] = cur

			mask, next, found := 0, col.head, false
			for dy := col.head; dy < rows; dy++ {
				idx := int(img.At(x, y0+dy))
				if idx == cur {
					col.consumed++
					mask |= 1 << dy
					continue
				}
				if !found && !slices.Contains(col.drawn[:], idx) {
					found = true
					next = dy
				}
			}
			col.head = next
			if col.consumed >= rows {
				closed[x] = true
				open--
			}
			enc.push(cur, mask)
		}
		enc.endPass()
	}
	enc.runs = append(enc.runs, sixelRun{index: -1, text: "-"})
	return enc.runs, enc.counts
}

// sixelRunEncoder coalesces equal (index, mask) columns into repeat runs.
type sixelRunEncoder struct {
	repeat int
	counts []int
	runs   []sixelRun

	index, mask, n int
}

func (e *sixelRunEncoder) push(index, mask int) {
	if e.n > 0 && e.index == index && e.mask == mask {
		e.n++
		return
	}
	e.flush()
	e.index, e.mask, e.n = index, mask, 1
}

func (e *sixelRunEncoder) flush() {
	if e.n == 0 {
		return
	}
	times := e.n * e.repeat
	if e.index >= 0 {
		e.counts[e.index] += times
	}
	ch := string(rune(sixelOffset + e.mask))
	text := strings.Repeat(ch, times)
	if times >= 3 {
		text = fmt.Sprintf("!%d%s", times, ch)
	}
	e.runs = append(e.runs, sixelRun{index: e.index, text: text})
	e.n = 0
}

// endPass flushes the pending run. Trailing blanks paint nothing and are dropped.
func (e *sixelRunEncoder) endPass() {
	if e.index < 0 {
		e.n = 0
	}
	e.flush()
}
