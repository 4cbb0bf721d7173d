package fluid

import (
	"strings"
	"testing"
)

// divergenceRef mirrors the divergence kernel's stencil on the CPU:
// central differences over the 4-neighborhood, with out-of-bounds
// neighbor samples replaced by the negated center component on that axis.
func divergenceRef(vel [][][2]float64, x, y int) float64 {
	w, h := len(vel[0]), len(vel)
	c := vel[y][x]

	l := -c[0]
	if x > 0 {
		l = vel[y][x-1][0]
	}
	r := -c[0]
	if x < w-1 {
		r = vel[y][x+1][0]
	}
	b := -c[1]
	if y > 0 {
		b = vel[y-1][x][1]
	}
	tv := -c[1]
	if y < h-1 {
		tv = vel[y+1][x][1]
	}

	return 0.5 * (r - l + tv - b)
}

func uniformFlow(w, h int, u, v float64) [][][2]float64 {
	vel := make([][][2]float64, h)
	for y := range vel {
		vel[y] = make([][2]float64, w)
		for x := range vel[y] {
			vel[y][x] = [2]float64{u, v}
		}
	}
	return vel
}

// Under the mirrored convention a uniform flow diverges at the upstream
// edge, converges at the downstream edge, and stays divergence-free in
// the interior; a clamped (leaky) boundary would read zero at the edges
// instead.
func TestDivergenceMirroredBoundary(t *testing.T) {
	const w, h = 4, 4

	t.Run("horizontal flow", func(t *testing.T) {
		vel := uniformFlow(w, h, 2, 0)
		for y := 0; y < h; y++ {
			if got := divergenceRef(vel, 0, y); got != 2 {
				t.Errorf("left edge row %d divergence = %v, want 2", y, got)
			}
			if got := divergenceRef(vel, w-1, y); got != -2 {
				t.Errorf("right edge row %d divergence = %v, want -2", y, got)
			}
			for x := 1; x < w-1; x++ {
				if got := divergenceRef(vel, x, y); got != 0 {
					t.Errorf("interior (%d,%d) divergence = %v, want 0", x, y, got)
				}
			}
		}
	})

	t.Run("vertical flow", func(t *testing.T) {
		vel := uniformFlow(w, h, 0, -3)
		for x := 0; x < w; x++ {
			if got := divergenceRef(vel, x, 0); got != -3 {
				t.Errorf("bottom edge col %d divergence = %v, want -3", x, got)
			}
			if got := divergenceRef(vel, x, h-1); got != 3 {
				t.Errorf("top edge col %d divergence = %v, want 3", x, got)
			}
		}
	})

	// No net flux through the domain boundary: the edge contributions of
	// any uniform flow cancel exactly.
	t.Run("zero net flux", func(t *testing.T) {
		vel := uniformFlow(w, h, 1.5, -0.75)
		var sum float64
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sum += divergenceRef(vel, x, y)
			}
		}
		if sum != 0 {
			t.Errorf("total divergence = %v, want 0", sum)
		}
	})
}

// The kernel source must carry all four mirrored-boundary substitutions;
// dropping one silently re-opens that domain edge to outflow.
func TestDivergenceKernelBoundaryBranches(t *testing.T) {
	branches := []string{
		"if (vL.x < 0.0) { L = -C.x; }",
		"if (vR.x > 1.0) { R = -C.x; }",
		"if (vT.y > 1.0) { T = -C.y; }",
		"if (vB.y < 0.0) { B = -C.y; }",
	}
	for _, b := range branches {
		if !strings.Contains(divergenceShader, b) {
			t.Errorf("divergence kernel missing boundary substitution %q", b)
		}
	}
}
