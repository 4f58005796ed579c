package executor

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vk/pixelgridgo/internal/graph"
	"github.com/vk/pixelgridgo/internal/imagedata"
	"github.com/vk/pixelgridgo/internal/kernel"
)

// evalFunc evaluates one node against the state of the current run.
type evalFunc func(*runState, *graph.Node) Value

// evaluators is the central dispatch table. Keeping evaluation here, keyed
// by node type, leaves the graph package a pure data model.
var evaluators = map[graph.NodeType]evalFunc{
	graph.TypeImage:    evalImage,
	graph.TypeColor:    evalColor,
	graph.TypeNumber:   evalNumber,
	graph.TypeText:     evalText,
	graph.TypeAdjust:   evalAdjust,
	graph.TypeEffects:  evalEffects,
	graph.TypeConcat:   evalConcat,
	graph.TypeSplitter: evalSplitter,
	graph.TypeRouter:   evalRouter,
	graph.TypeContent:  evalPassthrough,
	graph.TypeBucket:   evalPassthrough,
	graph.TypeCompare:  evalPassthrough,
	graph.TypePostit:   evalNothing,
	graph.TypeOutput:   evalNothing,
}

func evaluate(s *runState, n *graph.Node) Value {
	fn, ok := evaluators[n.Type]
	if !ok {
		return None()
	}
	return fn(s, n)
}

// runState gives evaluators read access to the run: the connection list,
// the outputs cached so far, and the externally supplied source images.
type runState struct {
	conns   []graph.Connection
	outputs map[uuid.UUID]Value
	inputs  map[uint64]*imagedata.ImageData
}

// inputImage resolves the image arriving at an input slot: the first
// connection terminating there whose upstream produced an image. Absent
// edges and non-image upstreams yield nil.
func (s *runState) inputImage(id uuid.UUID, slot int) *imagedata.ImageData {
	for _, c := range s.conns {
		if c.ToNode == id && c.ToSlot == slot {
			if img, ok := s.outputs[c.FromNode].Image(); ok {
				return img
			}
		}
	}
	return nil
}

// inputText resolves the text arriving at an input slot.
func (s *runState) inputText(id uuid.UUID, slot int) (string, bool) {
	for _, c := range s.conns {
		if c.ToNode == id && c.ToSlot == slot {
			if text, ok := s.outputs[c.FromNode].Text(); ok {
				return text, true
			}
		}
	}
	return "", false
}

// inputValue resolves whatever arrives at an input slot, untyped.
func (s *runState) inputValue(id uuid.UUID, slot int) Value {
	for _, c := range s.conns {
		if c.ToNode == id && c.ToSlot == slot {
			if v := s.outputs[c.FromNode]; !v.IsNone() {
				return v
			}
		}
	}
	return None()
}

func evalImage(s *runState, n *graph.Node) Value {
	props := n.Props.(*graph.ImageProperties)
	if props.ImageRef == 0 {
		return None()
	}
	return ImageValue(s.inputs[props.ImageRef])
}

func evalColor(_ *runState, n *graph.Node) Value {
	props := n.Props.(*graph.ColorProperties)
	var c [4]float64
	copy(c[:], props.RGBA)
	return ColorValue(c)
}

func evalNumber(_ *runState, n *graph.Node) Value {
	return NumberValue(n.Props.(*graph.NumberProperties).Value)
}

func evalText(_ *runState, n *graph.Node) Value {
	return TextValue(n.Props.(*graph.TextProperties).Text)
}

func evalAdjust(s *runState, n *graph.Node) Value {
	img := s.inputImage(n.ID, 0)
	if img == nil {
		return None()
	}
	props := n.Props.(*graph.AdjustProperties)
	return ImageValue(kernel.Adjust(img, kernel.AdjustParams{
		Brightness:  props.Brightness,
		Contrast:    props.Contrast,
		Saturation:  props.Saturation,
		Exposure:    props.Exposure,
		Highlights:  props.Highlights,
		Shadows:     props.Shadows,
		Temperature: props.Temperature,
		Tint:        props.Tint,
		Vibrance:    props.Vibrance,
		Gamma:       props.Gamma,
	}))
}

// evalEffects chains the enabled effects in a fixed order. Slider values
// are 0..100 in the properties and scale down to the kernel parameter
// ranges here; a slider at zero skips its kernel entirely.
func evalEffects(s *runState, n *graph.Node) Value {
	img := s.inputImage(n.ID, 0)
	if img == nil {
		return None()
	}
	props := n.Props.(*graph.EffectsProperties)

	result := img
	if props.GaussianBlur > 0 {
		result = kernel.Blur(result, int(props.GaussianBlur*0.5))
	}
	if props.DirectionalBlur > 0 {
		result = kernel.DirectionalBlur(result, props.DirectionalBlur/100.0, props.DirectionalBlurAngle)
	}
	if props.ProgressiveBlur > 0 {
		dir := blurDirection(props.ProgressiveBlurDirection)
		result = kernel.ProgressiveBlur(result, props.ProgressiveBlur/100.0, dir, props.ProgressiveBlurFalloff/100.0)
	}
	if props.GlassBlinds > 0 {
		result = kernel.GlassBlinds(result, props.GlassBlinds/100.0, props.GlassBlindsFrequency, props.GlassBlindsAngle, props.GlassBlindsPhase/100.0)
	}
	if props.Sharpen > 0 {
		result = kernel.Sharpen(result, props.Sharpen/100.0)
	}
	if props.Grain > 0 {
		result = kernel.Grain(result, props.Grain/100.0, props.GrainSize, props.GrainMonochrome, props.GrainSeed)
	}
	if props.Vignette > 0 {
		result = kernel.Vignette(result, props.Vignette/100.0, props.VignetteRoundness/100.0, props.VignetteSmoothness/100.0)
	}
	return ImageValue(result)
}

func blurDirection(name string) kernel.Direction {
	switch name {
	case graph.DirectionBottom:
		return kernel.Bottom
	case graph.DirectionLeft:
		return kernel.Left
	case graph.DirectionRight:
		return kernel.Right
	default:
		return kernel.Top
	}
}

func evalConcat(s *runState, n *graph.Node) Value {
	props := n.Props.(*graph.ConcatProperties)
	first, _ := s.inputText(n.ID, 0)
	second, _ := s.inputText(n.ID, 1)
	return TextValue(first + props.Separator + second)
}

func evalSplitter(s *runState, n *graph.Node) Value {
	text, ok := s.inputText(n.ID, 0)
	if !ok {
		return None()
	}
	props := n.Props.(*graph.SplitterProperties)
	parts := strings.Split(text, props.Delimiter)
	if len(parts) == 0 {
		return TextValue("")
	}
	return TextValue(parts[0])
}

func evalRouter(s *runState, n *graph.Node) Value {
	props := n.Props.(*graph.RouterProperties)
	slot := props.ActiveInput
	if slot < 0 {
		slot = 0
	}
	if slot > 2 {
		slot = 2
	}
	return s.inputValue(n.ID, slot)
}

// evalPassthrough forwards the input image unchanged. Content, bucket,
// and compare nodes all behave this way at run time; their extra state is
// editor-facing only.
func evalPassthrough(s *runState, n *graph.Node) Value {
	return ImageValue(s.inputImage(n.ID, 0))
}

// evalNothing covers nodes with no run-time output: annotations and the
// terminal output marker. The final image is resolved from the output
// node's incoming edge during extraction, not from its own cache entry.
func evalNothing(_ *runState, _ *graph.Node) Value {
	return None()
}
