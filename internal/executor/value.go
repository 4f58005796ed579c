package executor

import (
	"github.com/vk/pixelgridgo/internal/imagedata"
)

// Kind discriminates the tagged result a node evaluation produces.
type Kind int

const (
	KindNone Kind = iota
	KindImage
	KindText
	KindColor
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	case KindColor:
		return "color"
	case KindNumber:
		return "number"
	default:
		return "none"
	}
}

// Value is the output of one node evaluation. The zero value is the
// "no output" case, which downstream nodes treat as an absent input
// rather than an error.
type Value struct {
	kind   Kind
	image  *imagedata.ImageData
	text   string
	color  [4]float64
	number float64
}

// None returns the empty output.
func None() Value {
	return Value{}
}

// ImageValue wraps a pixel buffer. A nil buffer degrades to None so
// evaluators can return their input lookup result directly.
func ImageValue(img *imagedata.ImageData) Value {
	if img == nil {
		return Value{}
	}
	return Value{kind: KindImage, image: img}
}

// TextValue wraps a string output.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// ColorValue wraps a normalized RGBA quadruple.
func ColorValue(c [4]float64) Value {
	return Value{kind: KindColor, color: c}
}

// NumberValue wraps a scalar output.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone reports whether the value is the empty output.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// Image returns the pixel buffer when the value holds one.
func (v Value) Image() (*imagedata.ImageData, bool) {
	return v.image, v.kind == KindImage
}

// Text returns the string when the value holds one.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Color returns the RGBA quadruple when the value holds one.
func (v Value) Color() ([4]float64, bool) {
	return v.color, v.kind == KindColor
}

// Number returns the scalar when the value holds one.
func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}
