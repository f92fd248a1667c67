/*
Package editor implements a pixel art editing session.

An Editor exclusively owns one indexed canvas. Tools mutate it in place and
the run length encoding is regenerated lazily, only after the canvas or the
vertical trim has changed.
*/
package editor

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/bodgit/rlepix/indexed"
	"github.com/bodgit/rlepix/palette"
	"github.com/bodgit/rlepix/rle"
)

var (
	ErrNoMove    = errors.New("editor: no move in progress")
	ErrTrimRange = errors.New("editor: vertical trim out of range")
	ErrSize      = errors.New("editor: image size does not match canvas")
)

// Tool selects what Apply does
type Tool int

const (
	Move Tool = iota
	Pencil
	Fill
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Move:
		return "move"
	case Pencil:
		return "pencil"
	case Fill:
		return "fill"
	case Eraser:
		return "eraser"
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

type moveOp struct {
	start, end image.Point
}

// Editor is a single editing session
type Editor struct {
	Tool    Tool
	Color   indexed.ColorIndex
	Palette uint8

	canvas   *indexed.Image
	palettes *palette.Collection
	logger   *log.Logger
	move     *moveOp

	changed   bool
	encoded   *rle.OneByteRle
	encodeErr error
}

// New returns an Editor with an empty width by height canvas, the pencil
// tool and Dark selected
func New(width, height int, logger *log.Logger) (*Editor, error) {
	canvas, err := indexed.New(width*height, width, height)
	if err != nil {
		return nil, err
	}
	return &Editor{
		Tool:     Pencil,
		Color:    indexed.Dark,
		canvas:   canvas,
		palettes: palette.NewCollection(),
		logger:   logger,
		changed:  true,
	}, nil
}

// Canvas returns the live canvas. Callers that modify it directly must
// call Touch afterwards.
func (e *Editor) Canvas() *indexed.Image {
	return e.canvas
}

// Palettes returns the palette collection used by Render
func (e *Editor) Palettes() *palette.Collection {
	return e.palettes
}

// Touch marks the canvas as changed
func (e *Editor) Touch() {
	e.changed = true
}

// Load replaces the canvas contents and trim with those of m
func (e *Editor) Load(m *indexed.Image) error {
	if m.Width() != e.canvas.Width() || m.Height() != e.canvas.Height() {
		return fmt.Errorf("%w: %dx%d", ErrSize, m.Width(), m.Height())
	}
	if int(m.VerticalTrim) >= e.canvas.Height() {
		return fmt.Errorf("%w: %d", ErrTrimRange, m.VerticalTrim)
	}
	copy(e.canvas.Pix, m.Pix)
	e.canvas.VerticalTrim = m.VerticalTrim
	e.Touch()
	return nil
}

// Clear erases the canvas
func (e *Editor) Clear() {
	e.canvas.Clear()
	e.Touch()
}

// SetPixel sets a single cell
func (e *Editor) SetPixel(x, y int, c indexed.ColorIndex) error {
	old, err := e.canvas.Get(x, y)
	if err != nil {
		return err
	}
	if old == c {
		return nil
	}
	if err := e.canvas.Set(x, y, c); err != nil {
		return err
	}
	e.Touch()
	return nil
}

// Apply uses the current tool on the cell at (x, y). The Move tool is
// driven by StartMove and EndMove instead and does nothing here.
func (e *Editor) Apply(x, y int) error {
	switch e.Tool {
	case Pencil:
		return e.SetPixel(x, y, e.Color)
	case Eraser:
		return e.SetPixel(x, y, indexed.Empty)
	case Fill:
		return e.Fill(x, y, e.Color)
	}
	return nil
}

// Fill replaces the 4-connected region of same colored cells containing
// (x, y) with c
func (e *Editor) Fill(x, y int, c indexed.ColorIndex) error {
	target, err := e.canvas.Get(x, y)
	if err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %d", indexed.ErrInvalidColor, uint8(c))
	}
	if target == c {
		return nil
	}

	stack := []image.Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, err := e.canvas.PixOffset(p.X, p.Y)
		if err != nil || e.canvas.Pix[i] != target {
			continue
		}
		e.canvas.Pix[i] = c
		stack = append(stack,
			image.Pt(p.X+1, p.Y),
			image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1),
			image.Pt(p.X, p.Y-1),
		)
	}
	e.Touch()
	return nil
}
