package kernel

import (
	"math"

	"github.com/vk/pixelgridgo/internal/imagedata"
)

// Vignette darkens toward the image corners. Roundness blends the falloff
// shape between aspect-corrected elliptical (0) and circular (1); smoothness
// moves the falloff start outward and softens the curve exponent. Pixels
// inside the falloff-start radius are untouched.
func Vignette(img *imagedata.ImageData, intensity, roundness, smoothness float64) *imagedata.ImageData {
	out := cloneOf(img)
	width := float64(img.Width)
	height := float64(img.Height)
	cx := width / 2.0
	cy := height / 2.0
	maxDist := math.Sqrt(cx*cx + cy*cy)

	aspect := width / height
	xScale := 1.0 + (1.0-roundness)*math.Abs(aspect-1.0)

	falloffStart := 0.3 + smoothness*0.4

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			dx := (float64(x) - cx) / xScale
			dy := float64(y) - cy
			dist := math.Sqrt(dx*dx+dy*dy) / maxDist

			vignette := 1.0
			if dist >= falloffStart {
				t := (dist - falloffStart) / (1.0 - falloffStart)
				vignette = 1.0 - math.Pow(t, 2.0-smoothness)*intensity
			}

			idx := (y*img.Width + x) * 4
			for c := 0; c < 3; c++ {
				out.Pixels[idx+c] = uint8(clamp255(float64(out.Pixels[idx+c]) * vignette))
			}
		}
	}

	return out
}
