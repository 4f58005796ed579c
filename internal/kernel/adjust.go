package kernel

import (
	"math"

	"github.com/vk/pixelgridgo/internal/imagedata"
)

// AdjustParams are the color-grading sliders. All values are on the familiar
// -100..100 editor scale; exposure maps through 2^(x/50) and gamma through
// 1/(1+x/100) internally.
type AdjustParams struct {
	Brightness  float64
	Contrast    float64
	Saturation  float64
	Exposure    float64
	Highlights  float64
	Shadows     float64
	Temperature float64
	Tint        float64
	Vibrance    float64
	Gamma       float64
}

// Adjust applies the full grading chain to every pixel. The stage order is
// load-bearing: exposure, temperature/tint, brightness, contrast (pivot 0.5),
// saturation, vibrance, highlights/shadows (split at luma 0.5), gamma. Each
// stage reads the values the previous stage produced, and saturation,
// vibrance, and the tone split all share the luma computed after contrast.
func Adjust(img *imagedata.ImageData, p AdjustParams) *imagedata.ImageData {
	out := cloneOf(img)

	brightnessFactor := p.Brightness / 100.0
	contrastFactor := 1.0 + p.Contrast/100.0
	saturationFactor := 1.0 + p.Saturation/100.0
	exposureFactor := math.Exp2(p.Exposure / 50.0)
	gammaValue := 1.0 / math.Max(1.0+p.Gamma/100.0, 0.1)
	tempShift := p.Temperature / 100.0
	tintShift := p.Tint / 100.0
	vibranceFactor := p.Vibrance / 100.0

	px := out.Pixels
	for i := 0; i < len(px); i += 4 {
		r := float64(px[i]) / 255.0
		g := float64(px[i+1]) / 255.0
		b := float64(px[i+2]) / 255.0

		r *= exposureFactor
		g *= exposureFactor
		b *= exposureFactor

		// Temperature shifts the R/B balance, tint the G/M balance.
		r += tempShift * 0.1
		b -= tempShift * 0.1
		g += tintShift * 0.05

		r += brightnessFactor
		g += brightnessFactor
		b += brightnessFactor

		r = (r-0.5)*contrastFactor + 0.5
		g = (g-0.5)*contrastFactor + 0.5
		b = (b-0.5)*contrastFactor + 0.5

		luminance := 0.299*r + 0.587*g + 0.114*b
		r = luminance + (r-luminance)*saturationFactor
		g = luminance + (g-luminance)*saturationFactor
		b = luminance + (b-luminance)*saturationFactor

		// Vibrance boosts the less saturated colors more.
		maxRGB := math.Max(r, math.Max(g, b))
		minRGB := math.Min(r, math.Min(g, b))
		currentSat := 0.0
		if maxRGB > 0 {
			currentSat = (maxRGB - minRGB) / maxRGB
		}
		vibMult := 1.0 + vibranceFactor*(1.0-currentSat)
		r = luminance + (r-luminance)*vibMult
		g = luminance + (g-luminance)*vibMult
		b = luminance + (b-luminance)*vibMult

		if luminance > 0.5 {
			highlightFactor := (luminance - 0.5) * 2.0 * (p.Highlights / 200.0)
			r += highlightFactor
			g += highlightFactor
			b += highlightFactor
		} else {
			shadowFactor := (0.5 - luminance) * 2.0 * (p.Shadows / 200.0)
			r += shadowFactor
			g += shadowFactor
			b += shadowFactor
		}

		r = math.Pow(math.Max(r, 0), gammaValue)
		g = math.Pow(math.Max(g, 0), gammaValue)
		b = math.Pow(math.Max(b, 0), gammaValue)

		px[i] = quantize(r)
		px[i+1] = quantize(g)
		px[i+2] = quantize(b)
	}

	return out
}

// quantize maps [0,1] back to a byte, rounding half up so that a pixel run
// through the neutral chain lands on exactly its original value.
func quantize(v float64) uint8 {
	return uint8(clamp01(v)*255.0 + 0.5)
}
