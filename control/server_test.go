package control

import (
	"testing"
)

// fakeSurface records the calls the server makes.
type fakeSurface struct {
	paused bool
	bursts []int
	splats [][4]float64
}

func (f *fakeSurface) Pause()         { f.paused = true }
func (f *fakeSurface) Resume()        { f.paused = false }
func (f *fakeSurface) IsPaused() bool { return f.paused }
func (f *fakeSurface) AddRandomSplats(count int) {
	f.bursts = append(f.bursts, count)
}
func (f *fakeSurface) SplatAt(x, y, dx, dy float64) {
	f.splats = append(f.splats, [4]float64{x, y, dx, dy})
}

func TestApplyPauseResume(t *testing.T) {
	surf := &fakeSurface{}
	s := NewServer(surf, nil)

	st := s.apply(Command{Op: "pause"})
	if !st.OK || !st.Paused {
		t.Errorf("pause reply = %+v, want ok and paused", st)
	}
	if !surf.paused {
		t.Error("surface should be paused")
	}

	st = s.apply(Command{Op: "resume"})
	if !st.OK || st.Paused {
		t.Errorf("resume reply = %+v, want ok and running", st)
	}
	if surf.paused {
		t.Error("surface should be running")
	}
}

func TestApplySplat(t *testing.T) {
	surf := &fakeSurface{}
	s := NewServer(surf, nil)

	st := s.apply(Command{Op: "splat", X: 0.5, Y: 0.25, DX: 0.01, DY: -0.02})
	if !st.OK {
		t.Fatalf("splat reply = %+v, want ok", st)
	}
	if len(surf.splats) != 1 {
		t.Fatalf("splats recorded = %d, want 1", len(surf.splats))
	}
	if got, want := surf.splats[0], ([4]float64{0.5, 0.25, 0.01, -0.02}); got != want {
		t.Errorf("splat args = %v, want %v", got, want)
	}
}

func TestApplyBurst(t *testing.T) {
	surf := &fakeSurface{}
	s := NewServer(surf, nil)

	s.apply(Command{Op: "burst", Count: 9})
	s.apply(Command{Op: "burst"}) // no count falls back to the default

	if len(surf.bursts) != 2 {
		t.Fatalf("bursts recorded = %d, want 2", len(surf.bursts))
	}
	if surf.bursts[0] != 9 {
		t.Errorf("burst count = %d, want 9", surf.bursts[0])
	}
	if surf.bursts[1] != 5 {
		t.Errorf("default burst count = %d, want 5", surf.bursts[1])
	}
}

func TestApplyStatus(t *testing.T) {
	surf := &fakeSurface{paused: true}
	s := NewServer(surf, nil)

	st := s.apply(Command{Op: "status"})
	if !st.OK || !st.Paused {
		t.Errorf("status reply = %+v, want ok and paused", st)
	}
	if len(surf.bursts) != 0 || len(surf.splats) != 0 {
		t.Error("status must not mutate the surface")
	}
}

func TestApplyUnknownOp(t *testing.T) {
	surf := &fakeSurface{}
	s := NewServer(surf, nil)

	st := s.apply(Command{Op: "reboot"})
	if st.OK {
		t.Error("unknown op should not report ok")
	}
	if st.Error == "" {
		t.Error("unknown op should carry an error message")
	}
}
