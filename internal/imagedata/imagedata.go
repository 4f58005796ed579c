// Package imagedata defines the pixel buffer type shared by every stage of
// the render pipeline: RGBA8, row-major, immutable once built. Buffers are
// shared by pointer between the executor's output cache and callers; a stage
// that wants different pixels allocates a new buffer instead of writing
// through an aliased one.
package imagedata

import (
	"fmt"
	"math"
)

// ImageData is a width×height RGBA8 pixel buffer. Pixels holds
// width*height*4 bytes, row-major, interleaved R,G,B,A.
//
// Treat the buffer as read-only once it has been returned to a caller or
// stored in a cache. Constructors and kernels may fill a freshly allocated
// buffer before publishing it.
type ImageData struct {
	Pixels []byte
	Width  int
	Height int
}

// New allocates a zeroed buffer of the given dimensions. Dimensions must be
// non-negative and the byte size must fit in an int; New panics otherwise,
// since sizes reaching this constructor come from code, not user data.
func New(width, height int) *ImageData {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("imagedata: negative dimensions %dx%d", width, height))
	}
	if height > 0 && width > math.MaxInt/4/height {
		panic(fmt.Sprintf("imagedata: dimensions %dx%d overflow", width, height))
	}
	return &ImageData{
		Pixels: make([]byte, width*height*4),
		Width:  width,
		Height: height,
	}
}

// FromPixels wraps an existing pixel slice. It returns an error when the
// slice length does not match width*height*4, which is the failure mode for
// externally supplied data.
func FromPixels(pixels []byte, width, height int) (*ImageData, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d", len(pixels), width*height*4, width, height)
	}
	return &ImageData{Pixels: pixels, Width: width, Height: height}, nil
}

// Solid builds a buffer filled with a single RGBA color.
func Solid(width, height int, rgba [4]byte) *ImageData {
	img := New(width, height)
	for i := 0; i < len(img.Pixels); i += 4 {
		img.Pixels[i] = rgba[0]
		img.Pixels[i+1] = rgba[1]
		img.Pixels[i+2] = rgba[2]
		img.Pixels[i+3] = rgba[3]
	}
	return img
}

var (
	checkerLight = [4]byte{200, 200, 200, 255}
	checkerDark  = [4]byte{150, 150, 150, 255}
)

// Checkerboard builds the standard test pattern: cells of cellSize pixels
// alternating light and dark gray, with the top-left cell light.
func Checkerboard(width, height, cellSize int) *ImageData {
	if cellSize < 1 {
		cellSize = 1
	}
	img := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := checkerDark
			if ((x/cellSize)+(y/cellSize))%2 == 0 {
				cell = checkerLight
			}
			i := (y*width + x) * 4
			copy(img.Pixels[i:i+4], cell[:])
		}
	}
	return img
}

// PixelAt returns the RGBA bytes at (x, y). Coordinates are not bounds
// checked; callers clamp before lookup, the same contract kernels rely on.
func (d *ImageData) PixelAt(x, y int) [4]byte {
	i := (y*d.Width + x) * 4
	return [4]byte{d.Pixels[i], d.Pixels[i+1], d.Pixels[i+2], d.Pixels[i+3]}
}

// PixelCount returns the number of pixels in the buffer.
func (d *ImageData) PixelCount() int {
	return d.Width * d.Height
}

// ByteSize returns the size of the pixel data in bytes.
func (d *ImageData) ByteSize() int {
	return len(d.Pixels)
}
