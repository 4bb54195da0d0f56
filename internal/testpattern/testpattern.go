// Package testpattern generates frames for checking strip wiring by eye.
package testpattern

import (
	"fmt"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/model"
)

type Kind string

const (
	None         Kind = ""
	IndexSweep   Kind = "index_sweep"
	RGBWChannels Kind = "rgbw_channels"
	Columns      Kind = "columns"
)

var Kinds = []Kind{IndexSweep, RGBWChannels, Columns}

func Parse(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("testpattern: unknown pattern %q", s)
}

type Runner struct {
	kind   Kind
	layout layout.Layout
	step   int
}

func NewRunner(kind Kind, l layout.Layout) *Runner {
	return &Runner{kind: kind, layout: l}
}

// Steps is how many frames the pattern has.
func (r *Runner) Steps() int {
	switch r.kind {
	case IndexSweep:
		return r.layout.Count()
	case RGBWChannels:
		return 4
	case Columns:
		return r.layout.Width
	}
	return 0
}

// Step fills logical (indexed x*Height+y) with the next frame; returns false when complete.
func (r *Runner) Step(logical []model.Pixel) bool {
	n := r.layout.Count()
	if len(logical) < n || r.step >= r.Steps() {
		return false
	}
	for i := range logical[:n] {
		logical[i] = model.Pixel{}
	}

	switch r.kind {
	case IndexSweep:
		logical[r.step] = model.Pixel{W: 255}
	case RGBWChannels:
		var p model.Pixel
		switch r.step {
		case 0:
			p.R = 255
		case 1:
			p.G = 255
		case 2:
			p.B = 255
		case 3:
			p.W = 255
		}
		for i := range logical[:n] {
			logical[i] = p
		}
	case Columns:
		x := r.step
		c := columnColors[x%len(columnColors)]
		for y := 0; y < r.layout.Height; y++ {
			logical[r.layout.LogicalIndex(x, y)] = c
		}
	}
	r.step++
	return true
}

var columnColors = []model.Pixel{
	{R: 255},
	{G: 255},
	{B: 255},
	{R: 255, G: 160},
}
