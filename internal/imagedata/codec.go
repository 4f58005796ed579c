package imagedata

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	// Registered decoders. The engine stores straight-alpha RGBA8
	// regardless of the source format.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode turns encoded image bytes (PNG, JPEG, GIF, BMP, TIFF, WebP) into a
// straight-alpha RGBA8 buffer.
func Decode(data []byte) (*ImageData, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	img, err := FromPixels(dst.Pix, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("failed to wrap decoded %s image: %w", format, err)
	}
	return img, nil
}

// EncodePNG serializes a buffer as PNG bytes.
func EncodePNG(d *ImageData) ([]byte, error) {
	nrgba := &image.NRGBA{
		Pix:    d.Pixels,
		Stride: d.Width * 4,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
