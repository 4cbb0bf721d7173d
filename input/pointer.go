// Package input tracks pointer lifecycles and converts raw screen
// coordinates into the normalized, aspect-corrected values the splat
// injector consumes.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PrimaryID is the id of the persistent primary pointer (the mouse).
// Touch pointers get their own dynamically grown slots.
const PrimaryID = -1

// Pointer is one tracked input source.
type Pointer struct {
	ID int

	// Current and previous normalized texture coordinates.
	X, Y         float64
	PrevX, PrevY float64

	// Aspect-corrected per-axis deltas of the last move.
	DX, DY float64

	Down  bool
	Moved bool

	Color mgl32.Vec3
}

// ColorSource supplies a fresh color on pointer press.
type ColorSource interface {
	Next() mgl32.Vec3
}

// Adapter owns the pointer slots and the surface dimensions used for
// normalization.
type Adapter struct {
	width, height float64
	colors        ColorSource
	pointers      []*Pointer
}

// NewAdapter creates an adapter with the persistent primary pointer
// already allocated.
func NewAdapter(w, h int, colors ColorSource) *Adapter {
	return &Adapter{
		width:    float64(w),
		height:   float64(h),
		colors:   colors,
		pointers: []*Pointer{{ID: PrimaryID}},
	}
}

// Resize updates the surface dimensions used for normalization.
func (a *Adapter) Resize(w, h int) {
	a.width = float64(w)
	a.height = float64(h)
}

// pointer returns the slot for id, growing the slot list on demand.
func (a *Adapter) pointer(id int) *Pointer {
	for _, p := range a.pointers {
		if p.ID == id {
			return p
		}
	}
	p := &Pointer{ID: id}
	a.pointers = append(a.pointers, p)
	return p
}

// Down records a press: initial coordinate, zeroed deltas, fresh color.
func (a *Adapter) Down(id int, px, py float64) {
	p := a.pointer(id)
	p.Down = true
	p.Moved = false
	p.X = px / a.width
	p.Y = 1.0 - py/a.height
	p.PrevX = p.X
	p.PrevY = p.Y
	p.DX = 0
	p.DY = 0
	p.Color = a.colors.Next()
}

// Move updates the coordinate and computes aspect-corrected deltas. The
// moved flag stays set until consumed.
func (a *Adapter) Move(id int, px, py float64) {
	p := a.pointer(id)
	if !p.Down {
		return
	}
	p.PrevX = p.X
	p.PrevY = p.Y
	p.X = px / a.width
	p.Y = 1.0 - py/a.height
	p.DX = a.correctDeltaX(p.X - p.PrevX)
	p.DY = a.correctDeltaY(p.Y - p.PrevY)
	p.Moved = p.DX != 0 || p.DY != 0
}

// Up records a release.
func (a *Adapter) Up(id int) {
	a.pointer(id).Down = false
}

// ConsumeMoved calls fn for each pointer that is down and has an
// unconsumed move, clearing the moved flag. Each move is delivered once.
func (a *Adapter) ConsumeMoved(fn func(p *Pointer)) {
	for _, p := range a.pointers {
		if p.Down && p.Moved {
			p.Moved = false
			fn(p)
		}
	}
}

// RefreshColors assigns fresh colors to the pointers currently down.
func (a *Adapter) RefreshColors() {
	for _, p := range a.pointers {
		if p.Down {
			p.Color = a.colors.Next()
		}
	}
}

// NumPointers returns the current slot count.
func (a *Adapter) NumPointers() int { return len(a.pointers) }

// correctDeltaX compensates for a portrait surface so horizontal motion
// produces the same impulse as vertical.
func (a *Adapter) correctDeltaX(d float64) float64 {
	if aspect := a.width / a.height; aspect < 1 {
		d *= aspect
	}
	return d
}

// correctDeltaY compensates for a landscape surface.
func (a *Adapter) correctDeltaY(d float64) float64 {
	if aspect := a.width / a.height; aspect > 1 {
		d /= aspect
	}
	return d
}
