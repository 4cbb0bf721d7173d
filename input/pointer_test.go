package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// countingColors hands out distinguishable colors so tests can observe
// reassignment.
type countingColors struct{ n float32 }

func (c *countingColors) Next() mgl32.Vec3 {
	c.n++
	return mgl32.Vec3{c.n, 0, 0}
}

func TestPointerLifecycle(t *testing.T) {
	a := NewAdapter(800, 600, &countingColors{})

	a.Down(PrimaryID, 400, 300)
	p := a.pointer(PrimaryID)
	if !p.Down || p.Moved {
		t.Fatal("press should set down without a pending move")
	}
	if p.X != 0.5 || p.Y != 0.5 {
		t.Errorf("texcoords = (%v, %v), want (0.5, 0.5)", p.X, p.Y)
	}
	if p.DX != 0 || p.DY != 0 {
		t.Error("press should reset deltas")
	}
	if p.Color == (mgl32.Vec3{}) {
		t.Error("press should assign a fresh color")
	}

	a.Move(PrimaryID, 480, 300)
	if !p.Moved {
		t.Error("move should set the moved flag")
	}
	if math.Abs(p.DX-0.1) > 1e-9 {
		t.Errorf("DX = %v, want 0.1", p.DX)
	}

	a.Up(PrimaryID)
	if p.Down {
		t.Error("release should clear down")
	}
}

func TestMoveIgnoredWhileUp(t *testing.T) {
	a := NewAdapter(800, 600, &countingColors{})
	a.Move(PrimaryID, 100, 100)
	if a.pointer(PrimaryID).Moved {
		t.Error("moves without a press must not arm the moved flag")
	}
}

func TestDeltaAspectCorrection(t *testing.T) {
	// Landscape: vertical deltas are divided by the aspect ratio.
	land := NewAdapter(800, 600, &countingColors{})
	land.Down(PrimaryID, 400, 300)
	land.Move(PrimaryID, 400, 360)
	p := land.pointer(PrimaryID)
	if math.Abs(p.DY-(-0.1)/(800.0/600.0)) > 1e-9 {
		t.Errorf("landscape DY = %v, want %v", p.DY, -0.1/(800.0/600.0))
	}

	// Portrait: horizontal deltas are scaled down instead.
	port := NewAdapter(600, 800, &countingColors{})
	port.Down(PrimaryID, 300, 400)
	port.Move(PrimaryID, 360, 400)
	p = port.pointer(PrimaryID)
	if math.Abs(p.DX-0.1*(600.0/800.0)) > 1e-9 {
		t.Errorf("portrait DX = %v, want %v", p.DX, 0.1*(600.0/800.0))
	}
}

func TestConsumeMovedOnce(t *testing.T) {
	a := NewAdapter(800, 600, &countingColors{})
	a.Down(PrimaryID, 400, 300)
	a.Move(PrimaryID, 420, 300)

	var calls int
	a.ConsumeMoved(func(p *Pointer) { calls++ })
	a.ConsumeMoved(func(p *Pointer) { calls++ })
	if calls != 1 {
		t.Errorf("moved flag consumed %d times, want 1", calls)
	}

	// The next move re-arms it.
	a.Move(PrimaryID, 440, 300)
	a.ConsumeMoved(func(p *Pointer) { calls++ })
	if calls != 2 {
		t.Errorf("moved flag after second move consumed %d times, want 2", calls)
	}
}

func TestTouchSlotsGrowOnDemand(t *testing.T) {
	a := NewAdapter(800, 600, &countingColors{})
	if a.NumPointers() != 1 {
		t.Fatalf("adapter should start with the primary pointer only, got %d", a.NumPointers())
	}

	a.Down(1, 100, 100)
	a.Down(2, 200, 200)
	if a.NumPointers() != 3 {
		t.Errorf("pointer slots = %d, want 3", a.NumPointers())
	}

	// Each slot tracks its own lifecycle.
	a.Up(1)
	if a.pointer(1).Down {
		t.Error("releasing one touch must not affect the others")
	}
	if !a.pointer(2).Down {
		t.Error("second touch should still be down")
	}

	// Re-pressing an id reuses its slot.
	a.Down(1, 300, 300)
	if a.NumPointers() != 3 {
		t.Errorf("slots after re-press = %d, want 3", a.NumPointers())
	}
}

func TestRefreshColorsOnlyActive(t *testing.T) {
	a := NewAdapter(800, 600, &countingColors{})
	a.Down(PrimaryID, 100, 100)
	a.Down(1, 200, 200)
	a.Up(1)

	idle := a.pointer(1).Color
	active := a.pointer(PrimaryID).Color

	a.RefreshColors()

	if a.pointer(PrimaryID).Color == active {
		t.Error("active pointer should get a fresh color")
	}
	if a.pointer(1).Color != idle {
		t.Error("released pointer colors must not advance")
	}
}
