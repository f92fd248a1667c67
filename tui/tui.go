/*
Package tui is a terminal front end for an editor session.

Each grid cell is drawn as two terminal columns so cells are roughly square
and map to a single mouse position. The encoding and a status line are
drawn beneath the grid.
*/
package tui

import (
	"fmt"
	"log"

	"github.com/bodgit/rlepix/editor"
	"github.com/bodgit/rlepix/indexed"
	"github.com/bodgit/rlepix/palette"
	"github.com/gdamore/tcell/v2"
)

const cellWidth = 2

var (
	checkerLight = tcell.NewRGBColor(0x77, 0x77, 0x77)
	checkerDark  = tcell.NewRGBColor(0x55, 0x55, 0x55)
	textStyle    = tcell.StyleDefault
	errorStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// UI drives an editor from a tcell screen
type UI struct {
	screen tcell.Screen
	ed     *editor.Editor
	logger *log.Logger

	// left button is down
	held bool
}

// New returns a UI for ed drawing onto screen. The screen must already be
// initialized.
func New(screen tcell.Screen, ed *editor.Editor, logger *log.Logger) *UI {
	return &UI{
		screen: screen,
		ed:     ed,
		logger: logger,
	}
}

// Run draws the editor and processes events until the user quits
func (u *UI) Run() error {
	u.screen.EnableMouse()
	u.Draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !u.Handle(ev) {
			return nil
		}
		u.Draw()
	}
}

// cellAt maps a screen position onto grid coordinates
func (u *UI) cellAt(sx, sy int) (int, int, bool) {
	x, y := sx/cellWidth, sy
	return x, y, u.ed.Canvas().InBounds(x, y)
}

// Handle processes a single event, returning false when the user quits
func (u *UI) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		return u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	}
	return true
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		u.ed.Shift(0, -1)
	case tcell.KeyDown:
		u.ed.Shift(0, 1)
	case tcell.KeyLeft:
		u.ed.Shift(-1, 0)
	case tcell.KeyRight:
		u.ed.Shift(1, 0)
	case tcell.KeyRune:
		return u.handleRune(ev.Rune())
	}
	return true
}

func (u *UI) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'p':
		u.ed.Tool = editor.Pencil
	case 'f':
		u.ed.Tool = editor.Fill
	case 'e':
		u.ed.Tool = editor.Eraser
	case 'm':
		u.ed.Tool = editor.Move
	case 'n':
		u.ed.Palette = (u.ed.Palette + 1) % palette.CollectionSize
	case 'c':
		u.ed.Clear()
	case '[':
		if t := u.ed.Trim(); t > 0 {
			u.setTrim(t - 1)
		}
	case ']':
		u.setTrim(u.ed.Trim() + 1)
	default:
		if r >= '0' && r <= '7' {
			c, _ := indexed.ParseColorIndex(string(r))
			u.ed.Color = c
		}
	}
	return true
}

func (u *UI) setTrim(t uint8) {
	if err := u.ed.SetTrim(t); err != nil {
		u.logger.Println(err)
	}
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	x, y, inside := u.cellAt(ev.Position())
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button2 != 0:
		u.ed.CancelMove()
		u.held = false
	case buttons&tcell.Button1 != 0:
		if u.ed.Tool == editor.Move {
			if u.held {
				if err := u.ed.UpdateMove(x, y); err != nil {
					u.logger.Println(err)
				}
				return
			}
			if inside {
				u.ed.StartMove(x, y)
				u.held = true
			}
			return
		}
		if inside {
			if err := u.ed.Apply(x, y); err != nil {
				u.logger.Println(err)
			}
		}
		u.held = true
	default:
		if u.held && u.ed.Tool == editor.Move {
			// A cancelled move has already gone
			if _, ok := u.ed.MoveOffset(); ok {
				if err := u.ed.EndMove(x, y); err != nil {
					u.logger.Println(err)
				}
			}
		}
		u.held = false
	}
}

func (u *UI) drawText(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func checker(x, y int) tcell.Color {
	if (x+y)%2 == 0 {
		return checkerLight
	}
	return checkerDark
}

// Draw renders the canvas, the encoding and the status line
func (u *UI) Draw() {
	u.screen.Clear()

	m, err := u.ed.Render()
	if err != nil {
		u.drawText(0, 0, errorStyle, err.Error())
		u.screen.Show()
		return
	}

	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			bg := checker(x, y)
			if c := m.RGBAAt(x, y); c.A != 0 {
				bg = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			}
			style := tcell.StyleDefault.Background(bg)
			for i := 0; i < cellWidth; i++ {
				u.screen.SetContent(x*cellWidth+i, y, ' ', nil, style)
			}
		}
	}

	if s, err := u.ed.Hex(); err != nil {
		u.drawText(0, b.Max.Y, errorStyle, err.Error())
	} else {
		u.drawText(0, b.Max.Y, textStyle, s)
	}

	u.drawText(0, b.Max.Y+1, textStyle, fmt.Sprintf("%s %s trim %d palette %d", u.ed.Tool, u.ed.Color, u.ed.Trim(), u.ed.Palette))

	u.screen.Show()
}
