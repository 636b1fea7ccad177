package compositor

import (
	"bytes"
	"encoding/binary"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// embeddedOrientation returns the EXIF orientation (1..8) stored in a TIFF,
// WebP or PNG file, or 0 when there is none. JPEG is left to imaging.
func embeddedOrientation(data []byte) int {
	var payload []byte
	switch {
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		payload = data
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		payload = riffChunk(data[12:], "EXIF")
	case bytes.HasPrefix(data, pngSignature):
		payload = pngChunk(data[len(pngSignature):], "eXIf")
	}
	if len(payload) == 0 {
		return 0
	}

	x, _ := exif.Decode(bytes.NewReader(payload))
	if x == nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 0
	}
	return o
}

// riffChunk returns the payload of the first RIFF chunk with the given id.
func riffChunk(data []byte, id string) []byte {
	for len(data) >= 8 {
		size := int(binary.LittleEndian.Uint32(data[4:8]))
		body := data[8:]
		if size < 0 || size > len(body) {
			return nil
		}
		if string(data[:4]) == id {
			return body[:size]
		}
		next := size + size&1
		if next > len(body) {
			return nil
		}
		data = body[next:]
	}
	return nil
}

// pngChunk returns the payload of the first PNG chunk of the given type.
func pngChunk(data []byte, typ string) []byte {
	for len(data) >= 12 {
		size := int(binary.BigEndian.Uint32(data[:4]))
		name := string(data[4:8])
		body := data[8:]
		if size < 0 || size+4 > len(body) {
			return nil
		}
		if name == typ {
			return body[:size]
		}
		if name == "IEND" {
			return nil
		}
		data = body[size+4:]
	}
	return nil
}

// applyOrientation turns img upright according to an EXIF orientation value.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
