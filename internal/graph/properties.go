package graph

import "fmt"

// Properties is the per-type parameter payload of a node. It is a closed
// union: only the property structs in this file implement it, and a node's
// payload variant always matches its NodeType (SetType swaps both
// together). The hcl/json tags define the attribute names persistence
// layers use.
type Properties interface {
	Type() NodeType
	Clone() Properties
	isProperties()
}

// ColorWheel is one lift/gamma/gain/offset grading control.
type ColorWheel struct {
	X         float64 `cty:"x" json:"x"`
	Y         float64 `cty:"y" json:"y"`
	Luminance float64 `cty:"luminance" json:"luminance"`
}

// ImageProperties references an externally supplied image by numeric id.
// The graph never stores pixel data; the executor looks the id up in the
// external-inputs table at run time. A ref of zero means no image assigned.
type ImageProperties struct {
	ImageRef uint64 `hcl:"image_ref,optional" json:"image_ref"`
	FilePath string `hcl:"file_path,optional" json:"file_path,omitempty"`
}

// ColorProperties is a constant color source. RGBA components are 0..1 and
// the slice is always length 4.
type ColorProperties struct {
	RGBA []float64 `hcl:"rgba,optional" json:"rgba"`
}

// NumberProperties is a constant number source with its editor range.
type NumberProperties struct {
	Value float64 `hcl:"value,optional" json:"value"`
	Min   float64 `hcl:"min,optional" json:"min"`
	Max   float64 `hcl:"max,optional" json:"max"`
}

// TextProperties is a constant text source.
type TextProperties struct {
	Text string `hcl:"text,optional" json:"text"`
}

// AdjustProperties carries the full grading panel. The first ten sliders
// drive the adjustment kernel; color boost, hue rotation, luminance mix,
// and the four wheels are editable, serialized state that the CPU path
// does not consume yet.
type AdjustProperties struct {
	Brightness  float64 `hcl:"brightness,optional" json:"brightness"`
	Contrast    float64 `hcl:"contrast,optional" json:"contrast"`
	Saturation  float64 `hcl:"saturation,optional" json:"saturation"`
	Exposure    float64 `hcl:"exposure,optional" json:"exposure"`
	Highlights  float64 `hcl:"highlights,optional" json:"highlights"`
	Shadows     float64 `hcl:"shadows,optional" json:"shadows"`
	Temperature float64 `hcl:"temperature,optional" json:"temperature"`
	Tint        float64 `hcl:"tint,optional" json:"tint"`
	Vibrance    float64 `hcl:"vibrance,optional" json:"vibrance"`
	Gamma       float64 `hcl:"gamma,optional" json:"gamma"`

	ColorBoost   float64 `hcl:"color_boost,optional" json:"color_boost"`
	HueRotation  float64 `hcl:"hue_rotation,optional" json:"hue_rotation"`
	LuminanceMix float64 `hcl:"luminance_mix,optional" json:"luminance_mix"`

	Lift       ColorWheel `hcl:"lift,optional" json:"lift"`
	GammaWheel ColorWheel `hcl:"gamma_wheel,optional" json:"gamma_wheel"`
	Gain       ColorWheel `hcl:"gain,optional" json:"gain"`
	Offset     ColorWheel `hcl:"offset,optional" json:"offset"`
}

// EffectsProperties carries every effect slider. A magnitude of zero
// disables its effect entirely during evaluation.
type EffectsProperties struct {
	GaussianBlur float64 `hcl:"gaussian_blur,optional" json:"gaussian_blur"`

	DirectionalBlur      float64 `hcl:"directional_blur,optional" json:"directional_blur"`
	DirectionalBlurAngle float64 `hcl:"directional_blur_angle,optional" json:"directional_blur_angle"`

	ProgressiveBlur          float64 `hcl:"progressive_blur,optional" json:"progressive_blur"`
	ProgressiveBlurDirection string  `hcl:"progressive_blur_direction,optional" json:"progressive_blur_direction"`
	ProgressiveBlurFalloff   float64 `hcl:"progressive_blur_falloff,optional" json:"progressive_blur_falloff"`

	GlassBlinds          float64 `hcl:"glass_blinds,optional" json:"glass_blinds"`
	GlassBlindsFrequency float64 `hcl:"glass_blinds_frequency,optional" json:"glass_blinds_frequency"`
	GlassBlindsAngle     float64 `hcl:"glass_blinds_angle,optional" json:"glass_blinds_angle"`
	GlassBlindsPhase     float64 `hcl:"glass_blinds_phase,optional" json:"glass_blinds_phase"`

	Grain           float64 `hcl:"grain,optional" json:"grain"`
	GrainSize       float64 `hcl:"grain_size,optional" json:"grain_size"`
	GrainMonochrome bool    `hcl:"grain_monochrome,optional" json:"grain_monochrome"`
	GrainSeed       uint32  `hcl:"grain_seed,optional" json:"grain_seed"`

	Sharpen float64 `hcl:"sharpen,optional" json:"sharpen"`

	Vignette           float64 `hcl:"vignette,optional" json:"vignette"`
	VignetteRoundness  float64 `hcl:"vignette_roundness,optional" json:"vignette_roundness"`
	VignetteSmoothness float64 `hcl:"vignette_smoothness,optional" json:"vignette_smoothness"`
}

// Progressive blur direction names as stored in properties.
const (
	DirectionTop    = "top"
	DirectionBottom = "bottom"
	DirectionLeft   = "left"
	DirectionRight  = "right"
)

// ConcatProperties joins its two text inputs around a separator.
type ConcatProperties struct {
	Separator string `hcl:"separator,optional" json:"separator"`
}

// SplitterProperties splits its text input on a delimiter.
type SplitterProperties struct {
	Delimiter string `hcl:"delimiter,optional" json:"delimiter"`
}

// RouterProperties forwards one of its three inputs.
type RouterProperties struct {
	ActiveInput int `hcl:"active_input,optional" json:"active_input"`
}

// ContentProperties is a passthrough with an optional label.
type ContentProperties struct {
	Content string `hcl:"content,optional" json:"content,omitempty"`
}

// BucketProperties is a passthrough that additionally remembers a set of
// external image ids collected by the editor.
type BucketProperties struct {
	Images []uint64 `hcl:"images,optional" json:"images,omitempty"`
}

// CompareProperties takes two images and forwards the first; the side by
// side view is an editor concern.
type CompareProperties struct{}

// PostitProperties is a sticky-note annotation. It produces no output.
type PostitProperties struct {
	Text string    `hcl:"text,optional" json:"text"`
	RGBA []float64 `hcl:"rgba,optional" json:"rgba"`
}

// OutputProperties marks the designated terminal node of a workflow.
type OutputProperties struct{}

func (*ImageProperties) Type() NodeType    { return TypeImage }
func (*ColorProperties) Type() NodeType    { return TypeColor }
func (*NumberProperties) Type() NodeType   { return TypeNumber }
func (*TextProperties) Type() NodeType     { return TypeText }
func (*AdjustProperties) Type() NodeType   { return TypeAdjust }
func (*EffectsProperties) Type() NodeType  { return TypeEffects }
func (*ConcatProperties) Type() NodeType   { return TypeConcat }
func (*SplitterProperties) Type() NodeType { return TypeSplitter }
func (*RouterProperties) Type() NodeType   { return TypeRouter }
func (*ContentProperties) Type() NodeType  { return TypeContent }
func (*BucketProperties) Type() NodeType   { return TypeBucket }
func (*CompareProperties) Type() NodeType  { return TypeCompare }
func (*PostitProperties) Type() NodeType   { return TypePostit }
func (*OutputProperties) Type() NodeType   { return TypeOutput }

func (p *ImageProperties) Clone() Properties  { c := *p; return &c }
func (p *ColorProperties) Clone() Properties  { c := *p; c.RGBA = append([]float64(nil), p.RGBA...); return &c }
func (p *NumberProperties) Clone() Properties { c := *p; return &c }
func (p *TextProperties) Clone() Properties   { c := *p; return &c }
func (p *AdjustProperties) Clone() Properties { c := *p; return &c }
func (p *EffectsProperties) Clone() Properties {
	c := *p
	return &c
}
func (p *ConcatProperties) Clone() Properties   { c := *p; return &c }
func (p *SplitterProperties) Clone() Properties { c := *p; return &c }
func (p *RouterProperties) Clone() Properties   { c := *p; return &c }
func (p *ContentProperties) Clone() Properties  { c := *p; return &c }
func (p *BucketProperties) Clone() Properties {
	c := *p
	c.Images = append([]uint64(nil), p.Images...)
	return &c
}
func (p *CompareProperties) Clone() Properties { c := *p; return &c }
func (p *PostitProperties) Clone() Properties {
	c := *p
	c.RGBA = append([]float64(nil), p.RGBA...)
	return &c
}
func (p *OutputProperties) Clone() Properties { c := *p; return &c }

func (*ImageProperties) isProperties()    {}
func (*ColorProperties) isProperties()    {}
func (*NumberProperties) isProperties()   {}
func (*TextProperties) isProperties()     {}
func (*AdjustProperties) isProperties()   {}
func (*EffectsProperties) isProperties()  {}
func (*ConcatProperties) isProperties()   {}
func (*SplitterProperties) isProperties() {}
func (*RouterProperties) isProperties()   {}
func (*ContentProperties) isProperties()  {}
func (*BucketProperties) isProperties()   {}
func (*CompareProperties) isProperties()  {}
func (*PostitProperties) isProperties()   {}
func (*OutputProperties) isProperties()   {}

// ValidateProperties checks the payload invariants persistence layers
// must enforce before handing nodes to the rest of the engine: color
// quadruples carry exactly four components and direction names are known.
func ValidateProperties(p Properties) error {
	switch props := p.(type) {
	case *ColorProperties:
		if len(props.RGBA) != 4 {
			return fmt.Errorf("rgba needs 4 components, got %d", len(props.RGBA))
		}
	case *PostitProperties:
		if len(props.RGBA) != 4 {
			return fmt.Errorf("rgba needs 4 components, got %d", len(props.RGBA))
		}
	case *EffectsProperties:
		switch props.ProgressiveBlurDirection {
		case DirectionTop, DirectionBottom, DirectionLeft, DirectionRight:
		default:
			return fmt.Errorf("unknown progressive blur direction %q", props.ProgressiveBlurDirection)
		}
	}
	return nil
}

// DefaultProperties builds the default payload for a type. Effects defaults
// follow the editor: falloff and vignette shape sliders sit at 50, glass
// frequency at 10, grain size 2 with seed 42; everything with a magnitude
// starts at zero so a fresh node is a no-op.
func DefaultProperties(t NodeType) Properties {
	switch t {
	case TypeImage:
		return &ImageProperties{}
	case TypeColor:
		return &ColorProperties{RGBA: []float64{1, 1, 1, 1}}
	case TypeNumber:
		return &NumberProperties{Value: 0, Min: 0, Max: 1}
	case TypeText:
		return &TextProperties{}
	case TypeAdjust:
		return &AdjustProperties{}
	case TypeEffects:
		return &EffectsProperties{
			ProgressiveBlurDirection: DirectionTop,
			ProgressiveBlurFalloff:   50,
			GlassBlindsFrequency:     10,
			GrainSize:                2,
			GrainSeed:                42,
			VignetteRoundness:        50,
			VignetteSmoothness:       50,
		}
	case TypeConcat:
		return &ConcatProperties{}
	case TypeSplitter:
		return &SplitterProperties{Delimiter: ","}
	case TypeRouter:
		return &RouterProperties{}
	case TypeContent:
		return &ContentProperties{}
	case TypeBucket:
		return &BucketProperties{Images: []uint64{}}
	case TypeCompare:
		return &CompareProperties{}
	case TypePostit:
		return &PostitProperties{Text: "", RGBA: []float64{1, 0.92, 0.55, 1}}
	case TypeOutput:
		return &OutputProperties{}
	default:
		return nil
	}
}
