// Package compositor turns arbitrary source images into fixed-size video frames.
//
// A frame is produced by decoding the source (with EXIF orientation applied),
// scaling it uniformly with a Lanczos filter so it fits the target, and
// centering it on a black canvas. Transparent regions become black. The
// result is converted to the BGR byte order the encoder reads.
package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// Compositor implements ports.FrameComposer. It holds no per-image state.
type Compositor struct {
	filter imaging.ResampleFilter
}

// New creates a Compositor using the Lanczos resampling filter.
func New() *Compositor {
	return &Compositor{filter: imaging.Lanczos}
}

// Compose decodes the image at path and renders it into a frame of the given size.
// Any failure to read or decode the source is returned as a *domain.DecodeError.
func (c *Compositor) Compose(path string, size domain.Size) (domain.Frame, error) {
	img, err := c.decode(path)
	if err != nil {
		return domain.Frame{}, err
	}
	return c.ComposeImage(img, size), nil
}

// ComposeImage renders an already decoded image into a frame of the given size.
// The image is expected to be upright already.
func (c *Compositor) ComposeImage(img image.Image, size domain.Size) domain.Frame {
	b := img.Bounds()
	p := Fit(b.Dx(), b.Dy(), size.Width, size.Height)

	scaled := imaging.Resize(img, p.Width, p.Height, c.filter)

	canvas := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	dst := image.Rect(p.OffsetX, p.OffsetY, p.OffsetX+p.Width, p.OffsetY+p.Height)
	op := draw.Over
	if scaled.Opaque() {
		op = draw.Src
	}
	draw.Draw(canvas, dst, scaled, scaled.Bounds().Min, op)

	return toBGR(canvas)
}

// decode opens and decodes path, turns it upright and classifies failures
// by kind.
func (c *Compositor) decode(path string) (img image.Image, err error) {
	f, err := os.Open(path)
	if err != nil {
		kind := domain.DecodeUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.DecodeNotFound
		}
		return nil, domain.NewDecodeError(path, kind, err)
	}
	defer f.Close()

	if info, statErr := f.Stat(); statErr == nil && info.IsDir() {
		return nil, domain.NewDecodeError(path, domain.DecodeUnreadable, fmt.Errorf("%s is a directory", path))
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.NewDecodeError(path, domain.DecodeUnreadable, err)
	}

	// Some third-party decoders panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = domain.NewDecodeError(path, domain.DecodeCorrupt, fmt.Errorf("decoder panic: %v", r))
		}
	}()

	// imaging only reads the orientation of JPEG files; the other
	// containers are handled by embeddedOrientation.
	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		kind := domain.DecodeCorrupt
		if errors.Is(err, image.ErrFormat) {
			kind = domain.DecodeUnsupportedFormat
		}
		return nil, domain.NewDecodeError(path, kind, err)
	}
	img = applyOrientation(img, embeddedOrientation(data))
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, domain.NewDecodeError(path, domain.DecodeCorrupt, fmt.Errorf("empty image bounds %v", b))
	}
	return img, nil
}

// toBGR converts an opaque RGBA canvas into a BGR frame.
func toBGR(canvas *image.RGBA) domain.Frame {
	b := canvas.Bounds()
	frame := domain.NewFrame(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := canvas.Pix[y*canvas.Stride : y*canvas.Stride+b.Dx()*4]
		dst := frame.Pix[y*frame.Stride() : (y+1)*frame.Stride()]
		for x := 0; x < b.Dx(); x++ {
			dst[x*3+0] = src[x*4+2]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+0]
		}
	}
	return frame
}
