package kernel

import (
	"math"

	"github.com/vk/pixelgridgo/internal/imagedata"
)

// maxBlurRadius caps the separable blur window.
const maxBlurRadius = 50

// Blur is a separable box blur approximating a gaussian: a horizontal mean
// pass followed by a vertical one, with the window clamped to the image
// edges. A radius of zero or less returns the input buffer unchanged.
func Blur(img *imagedata.ImageData, radius int) *imagedata.ImageData {
	if radius <= 0 {
		return img
	}
	if radius > maxBlurRadius {
		radius = maxBlurRadius
	}

	width := img.Width
	height := img.Height
	out := cloneOf(img)
	temp := cloneOf(img)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rSum, gSum, bSum, count uint32
			for dx := -radius; dx <= radius; dx++ {
				sx := clampInt(x+dx, 0, width-1)
				idx := (y*width + sx) * 4
				rSum += uint32(img.Pixels[idx])
				gSum += uint32(img.Pixels[idx+1])
				bSum += uint32(img.Pixels[idx+2])
				count++
			}
			idx := (y*width + x) * 4
			temp.Pixels[idx] = uint8(rSum / count)
			temp.Pixels[idx+1] = uint8(gSum / count)
			temp.Pixels[idx+2] = uint8(bSum / count)
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rSum, gSum, bSum, count uint32
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, height-1)
				idx := (sy*width + x) * 4
				rSum += uint32(temp.Pixels[idx])
				gSum += uint32(temp.Pixels[idx+1])
				bSum += uint32(temp.Pixels[idx+2])
				count++
			}
			idx := (y*width + x) * 4
			out.Pixels[idx] = uint8(rSum / count)
			out.Pixels[idx+1] = uint8(gSum / count)
			out.Pixels[idx+2] = uint8(bSum / count)
		}
	}

	return out
}

// DirectionalBlur smears along a fixed angle. Sample count scales with
// amount; samples falling outside the image are excluded from both the sum
// and the divisor rather than clamped, so edges do not bleed.
func DirectionalBlur(img *imagedata.ImageData, amount, angle float64) *imagedata.ImageData {
	out := cloneOf(img)
	width := img.Width
	height := img.Height

	angleRad := angle * math.Pi / 180.0
	dx := math.Cos(angleRad)
	dy := math.Sin(angleRad)

	samples := int(math.Max(amount*20.0, 1.0))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rSum, gSum, bSum, count float64
			for i := -samples; i <= samples; i++ {
				sx := int(float64(x) + dx*float64(i))
				sy := int(float64(y) + dy*float64(i))
				if sx >= 0 && sx < width && sy >= 0 && sy < height {
					idx := (sy*width + sx) * 4
					rSum += float64(img.Pixels[idx])
					gSum += float64(img.Pixels[idx+1])
					bSum += float64(img.Pixels[idx+2])
					count++
				}
			}
			idx := (y*width + x) * 4
			out.Pixels[idx] = uint8(rSum / count)
			out.Pixels[idx+1] = uint8(gSum / count)
			out.Pixels[idx+2] = uint8(bSum / count)
		}
	}

	return out
}

// Direction names the image edge where a progressive blur is strongest.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
)

// ProgressiveBlur applies a box blur whose radius grows with position along
// one axis: the factor ramps from 0 at the named edge's opposite side,
// passes through the falloff curve, and scales a per-pixel window. The
// per-pixel window makes this the most expensive kernel in the library.
func ProgressiveBlur(img *imagedata.ImageData, amount float64, dir Direction, falloff float64) *imagedata.ImageData {
	width := img.Width
	height := img.Height
	out := cloneOf(img)

	maxRadius := int(amount * 25.0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var factor float64
			switch dir {
			case Top:
				factor = 1.0 - float64(y)/float64(height)
			case Bottom:
				factor = float64(y) / float64(height)
			case Left:
				factor = 1.0 - float64(x)/float64(width)
			case Right:
				factor = float64(x) / float64(width)
			}

			blurFactor := math.Pow(math.Min(factor/math.Max(falloff, 0.01), 1.0), 2.0)
			radius := int(blurFactor * float64(maxRadius))
			if radius <= 0 {
				continue
			}

			var rSum, gSum, bSum, count uint32
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					sx := clampInt(x+dx, 0, width-1)
					sy := clampInt(y+dy, 0, height-1)
					idx := (sy*width + sx) * 4
					rSum += uint32(img.Pixels[idx])
					gSum += uint32(img.Pixels[idx+1])
					bSum += uint32(img.Pixels[idx+2])
					count++
				}
			}

			idx := (y*width + x) * 4
			out.Pixels[idx] = uint8(rSum / count)
			out.Pixels[idx+1] = uint8(gSum / count)
			out.Pixels[idx+2] = uint8(bSum / count)
		}
	}

	return out
}
