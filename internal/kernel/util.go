package kernel

import "github.com/vk/pixelgridgo/internal/imagedata"

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// cloneOf allocates a new buffer pre-filled with the source pixels. Kernels
// that only rewrite some channels or some pixels start from this so the rest
// carries over.
func cloneOf(img *imagedata.ImageData) *imagedata.ImageData {
	out := imagedata.New(img.Width, img.Height)
	copy(out.Pixels, img.Pixels)
	return out
}
