package exporter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/lizi12/hw5-2019/internal/dataprocessing"
)

// HistogramRenderer draws a histogram somewhere
type HistogramRenderer interface {
	Render(title string, h dataprocessing.Histogram) error
}

// TextHistogramRenderer draws one bar line per bin
type TextHistogramRenderer struct {
	w     io.Writer
	width int
}

// NewTextHistogramRenderer renders to w with bars at most width characters long
func NewTextHistogramRenderer(w io.Writer, width int) *TextHistogramRenderer {
	if width < 1 {
		width = 40
	}
	return &TextHistogramRenderer{w: w, width: width}
}

// Render writes the title, one line per bin and a footer with the totals
func (r *TextHistogramRenderer) Render(title string, h dataprocessing.Histogram) error {
	var b strings.Builder

	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}

	max, labelWidth := 0, 0
	for i, c := range h.Counts {
		if c > max {
			max = c
		}
		if l := len(h.BinLabel(i)); l > labelWidth {
			labelWidth = l
		}
	}

	for i, c := range h.Counts {
		bar := 0
		if max > 0 {
			bar = int(math.Round(float64(c) / float64(max) * float64(r.width)))
		}
		if c > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(&b, "%-*s | %s %d\n", labelWidth, h.BinLabel(i), strings.Repeat("#", bar), c)
	}

	fmt.Fprintf(&b, "counted=%d missing=%d out_of_range=%d\n", h.Total(), h.Missing, h.OutOfRange)

	_, err := io.WriteString(r.w, b.String())
	return err
}
