// Package frame converts the guest's packed pixel words into a
// host-displayable RGBA buffer.
package frame

// WordSource is a window over the guest framebuffer, one 32-bit word per
// pixel. Satisfied by memview.WordView.
type WordSource interface {
	Len() int
	At(i int) uint32
}

// Converter owns a reusable display buffer sized to the current frame
// dimensions. The steady-state path (same dimensions every frame) performs
// no allocation.
type Converter struct {
	buf    []byte
	width  int
	height int
}

func NewConverter() *Converter {
	return &Converter{}
}

// Convert writes one frame of guest pixels into the display buffer and
// returns it. The wire format is 0xRRGGBBxx: the high 24 bits carry RGB, the
// low byte is discarded and replaced with full opacity.
//
// The buffer is reallocated only when width or height changes. Pixels beyond
// the shorter of the two sequences keep their previous value; the guest
// overwrites its full framebuffer each step, so nothing is cleared here.
// The returned slice is reused across frames; callers that retain it must
// copy.
func (c *Converter) Convert(width, height int, words WordSource) []byte {
	if c.buf == nil || width != c.width || height != c.height {
		c.buf = make([]byte, width*height*4)
		c.width = width
		c.height = height
	}

	n := words.Len()
	if max := width * height; n > max {
		n = max
	}
	for i := 0; i < n; i++ {
		w := words.At(i)
		o := i * 4
		c.buf[o] = byte(w >> 24)
		c.buf[o+1] = byte(w >> 16)
		c.buf[o+2] = byte(w >> 8)
		c.buf[o+3] = 0xFF
	}
	return c.buf
}

// Size returns the dimensions of the current display buffer, or zeros if no
// frame has been converted yet.
func (c *Converter) Size() (width, height int) {
	return c.width, c.height
}
