package kernel

import (
	"math"

	"github.com/vk/pixelgridgo/internal/imagedata"
)

// lcgNext advances the grain noise state. Constants are the classic
// rand() multiplier/increment; uint32 arithmetic wraps by definition.
func lcgNext(state uint32) uint32 {
	return state*1103515245 + 12345
}

// lcgDraw maps a state to a value in [-0.5, 0.5].
func lcgDraw(state uint32) float64 {
	return float64((state>>16)&0xFF)/255.0 - 0.5
}

// Grain adds block-quantized pseudo-random noise. size sets the block edge
// in pixels (spatial coherence of the grain); monochrome applies one draw
// per block to all three channels, color mode draws per channel. The same
// seed always produces the same noise field.
func Grain(img *imagedata.ImageData, amount, size float64, monochrome bool, seed uint32) *imagedata.ImageData {
	out := cloneOf(img)
	width := img.Width
	height := img.Height

	state := seed + 12345
	blockSize := int(math.Max(size, 1.0))

	for by := 0; by < height; by += blockSize {
		for bx := 0; bx < width; bx += blockSize {
			state = lcgNext(state)
			noise := lcgDraw(state) * 2.0 * amount * 50.0

			var nr, ng, nb float64
			if monochrome {
				nr, ng, nb = noise, noise, noise
			} else {
				state = lcgNext(state)
				nr = lcgDraw(state) * 2.0 * amount * 50.0
				state = lcgNext(state)
				ng = lcgDraw(state) * 2.0 * amount * 50.0
				state = lcgNext(state)
				nb = lcgDraw(state) * 2.0 * amount * 50.0
			}

			for dy := 0; dy < blockSize; dy++ {
				for dx := 0; dx < blockSize; dx++ {
					x := bx + dx
					y := by + dy
					if x >= width || y >= height {
						continue
					}
					idx := (y*width + x) * 4
					out.Pixels[idx] = uint8(clamp255(float64(out.Pixels[idx]) + nr))
					out.Pixels[idx+1] = uint8(clamp255(float64(out.Pixels[idx+1]) + ng))
					out.Pixels[idx+2] = uint8(clamp255(float64(out.Pixels[idx+2]) + nb))
				}
			}
		}
	}

	return out
}
