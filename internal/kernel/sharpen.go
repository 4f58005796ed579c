package kernel

import "github.com/vk/pixelgridgo/internal/imagedata"

// Sharpen is an unsharp mask against a radius-1 blur:
// output = original + amount*(original - blurred), clamped per channel.
func Sharpen(img *imagedata.ImageData, amount float64) *imagedata.ImageData {
	blurred := Blur(img, 1)
	out := cloneOf(img)

	for i := 0; i < len(out.Pixels); i += 4 {
		for c := 0; c < 3; c++ {
			original := float64(img.Pixels[i+c])
			blur := float64(blurred.Pixels[i+c])
			sharpened := original + amount*(original-blur)
			out.Pixels[i+c] = uint8(clamp255(sharpened))
		}
	}

	return out
}
