package kernel

import (
	"math"

	"github.com/vk/pixelgridgo/internal/imagedata"
)

// GlassBlinds is a source-remapping warp, not a blend: each destination
// pixel copies from a source coordinate displaced by a sinusoid running
// perpendicular to the given angle. Source coordinates clamp to the image
// bounds. Phase is in turns (1.0 = a full period).
func GlassBlinds(img *imagedata.ImageData, intensity, frequency, angle, phase float64) *imagedata.ImageData {
	out := cloneOf(img)
	width := img.Width
	height := img.Height

	angleRad := angle * math.Pi / 180.0
	cosA := math.Cos(angleRad)
	sinA := math.Sin(angleRad)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rx := float64(x)*cosA + float64(y)*sinA

			wave := int32(math.Sin(rx*frequency/100.0+phase*math.Pi*2.0) * intensity * 20.0)

			sx := clampInt(x-int(float64(wave)*sinA), 0, width-1)
			sy := clampInt(y+int(float64(wave)*cosA), 0, height-1)

			srcIdx := (sy*width + sx) * 4
			dstIdx := (y*width + x) * 4
			out.Pixels[dstIdx] = img.Pixels[srcIdx]
			out.Pixels[dstIdx+1] = img.Pixels[srcIdx+1]
			out.Pixels[dstIdx+2] = img.Pixels[srcIdx+2]
		}
	}

	return out
}
