package editor

import "image"

// StartMove begins dragging the canvas from the cell at (x, y)
func (e *Editor) StartMove(x, y int) {
	p := image.Pt(x, y)
	e.move = &moveOp{start: p, end: p}
}

// UpdateMove records the current drag position
func (e *Editor) UpdateMove(x, y int) error {
	if e.move == nil {
		e.logger.Println("update_move called outside of a move")
		return ErrNoMove
	}
	e.move.end = image.Pt(x, y)
	return nil
}

// CancelMove abandons a move without changing the canvas
func (e *Editor) CancelMove() {
	e.move = nil
}

// EndMove shifts the canvas by the distance dragged and finishes the move
func (e *Editor) EndMove(x, y int) error {
	if e.move == nil {
		return ErrNoMove
	}
	d := image.Pt(x, y).Sub(e.move.start)
	e.move = nil
	if d == (image.Point{}) {
		return nil
	}
	e.canvas.Shift(d.X, d.Y)
	e.Touch()
	return nil
}

// MoveOffset returns the current drag distance and whether a move is in
// progress
func (e *Editor) MoveOffset() (image.Point, bool) {
	if e.move == nil {
		return image.Point{}, false
	}
	return e.move.end.Sub(e.move.start), true
}

// Shift moves the canvas by (dx, dy) immediately
func (e *Editor) Shift(dx, dy int) {
	e.canvas.Shift(dx, dy)
	e.Touch()
}
