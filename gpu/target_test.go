package gpu

import "testing"

// makeTarget builds a target without GL objects; swap and resize-identity
// logic never touch the backend.
func makeTarget(w, h int32) *Target {
	return &Target{W: w, H: h, TexelX: 1 / float32(w), TexelY: 1 / float32(h)}
}

func makeDouble(w, h int32) *DoubleTarget {
	return &DoubleTarget{Bufs: [2]*Target{makeTarget(w, h), makeTarget(w, h)}}
}

func TestDoubleTargetSwap(t *testing.T) {
	d := makeDouble(64, 32)

	r0, w0 := d.Read(), d.Write()
	if r0 == w0 {
		t.Fatal("read and write buffers must never alias")
	}

	d.Swap()
	if d.Read() != w0 || d.Write() != r0 {
		t.Error("swap should exchange the read and write roles")
	}

	// A Jacobi-style loop toggles the selector once per pass, so an even
	// pass count returns to the original orientation.
	for i := 0; i < 20; i++ {
		if d.Read() == d.Write() {
			t.Fatalf("aliased buffers after %d swaps", i)
		}
		d.Swap()
	}
	if d.Read() != w0 {
		t.Error("even swap count should restore the post-swap orientation")
	}
}

func TestResizeTargetSameDims(t *testing.T) {
	existing := makeTarget(128, 72)
	got := ResizeTarget(existing, 128, 72, TextureFormat{}, 0, 0)
	if got != existing {
		t.Error("matching dimensions must return the existing target unchanged")
	}
}

func TestResizeDoubleTargetSameDims(t *testing.T) {
	existing := makeDouble(128, 72)
	existing.Swap() // selector state must survive a no-op resize

	got := ResizeDoubleTarget(existing, 128, 72, TextureFormat{}, 0, 0)
	if got != existing {
		t.Error("matching dimensions must return the existing pair unchanged")
	}
	if got.read != 1 {
		t.Error("no-op resize must preserve the active-read selector")
	}
}

func TestTexelSizeReciprocal(t *testing.T) {
	for _, dims := range [][2]int32{{128, 72}, {1365, 1024}, {4, 4}} {
		tr := makeTarget(dims[0], dims[1])
		if tr.TexelX != 1/float32(dims[0]) || tr.TexelY != 1/float32(dims[1]) {
			t.Errorf("texel size for %dx%d is not the reciprocal", dims[0], dims[1])
		}
	}
}
