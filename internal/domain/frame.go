package domain

// Frame is one moment of video: a fixed-size, three-channel pixel buffer.
// Pixels are stored row-major in B, G, R order with no padding, which is the
// layout the encoder reads from its raw input pipe.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// BytesPerPixel is the number of bytes used per pixel in a Frame.
const BytesPerPixel = 3

// NewFrame allocates a black frame of the given size.
func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// Size returns the frame dimensions.
func (f Frame) Size() Size {
	return Size{Width: f.Width, Height: f.Height}
}

// Stride returns the number of bytes per row.
func (f Frame) Stride() int {
	return f.Width * BytesPerPixel
}

// BGR returns the blue, green and red components of the pixel at (x, y).
func (f Frame) BGR(x, y int) (b, g, r uint8) {
	i := y*f.Stride() + x*BytesPerPixel
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}
