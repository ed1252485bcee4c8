package eta_rest

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Every response of the controller is one <eta> document with exactly one
// payload child. The default namespace is stripped before decoding because
// some firmware revisions omit or vary it.
type etaDocument struct {
	XMLName xml.Name     `xml:"eta"`
	Version string       `xml:"version,attr"`
	API     *apiNode     `xml:"api"`
	Menu    *menuNode    `xml:"menu"`
	Value   *valueNode   `xml:"value"`
	Error   *errorNode   `xml:"error"`
	Success *successNode `xml:"success"`
}

type apiNode struct {
	Version string `xml:"version,attr"`
	URI     string `xml:"uri,attr"`
}

type menuNode struct {
	URI  string       `xml:"uri,attr"`
	Fubs []objectNode `xml:"fub"`
}

type objectNode struct {
	URI     string       `xml:"uri,attr"`
	Name    string       `xml:"name,attr"`
	Objects []objectNode `xml:"object"`
}

type valueNode struct {
	URI           string `xml:"uri,attr"`
	AdvTextOffset string `xml:"advTextOffset,attr"`
	Unit          string `xml:"unit,attr"`
	StrValue      string `xml:"strValue,attr"`
	ScaleFactor   string `xml:"scaleFactor,attr"`
	DecPlaces     string `xml:"decPlaces,attr"`
	Code          string `xml:",chardata"`
}

type errorNode struct {
	URI     string `xml:"uri,attr"`
	Message string `xml:",chardata"`
}

type successNode struct {
	URI string `xml:"uri,attr"`
}

// Value is the raw state of a single point as reported by /user/var/{uri}.
// All fields are kept as strings, straight from the XML attributes. Scaled
// derives the displayable representation.
type Value struct {
	URI           string
	Code          string
	Unit          string
	StrValue      string
	ScaleFactor   string
	AdvTextOffset string
	DecPlaces     string
}

type ValueKind int

const (
	ValueNumeric ValueKind = iota
	ValueText
	ValueRaw
)

// ScaledValue is the typed representation of a Value. Exactly one of Number
// (ValueNumeric) or Text (ValueText, ValueRaw) carries the payload.
type ScaledValue struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// Scaled converts the raw fields into a ScaledValue. It never fails: a code
// that does not parse as a number, or a zero/absent scale factor, degrades to
// the text representation instead of erroring out.
func (v Value) Scaled() ScaledValue {
	if v.Unit != "" {
		code, codeErr := strconv.ParseFloat(strings.TrimSpace(v.Code), 64)
		sf, sfErr := strconv.ParseFloat(strings.TrimSpace(v.ScaleFactor), 64)
		if codeErr == nil && sfErr == nil && sf != 0 {
			return ScaledValue{Kind: ValueNumeric, Number: code / sf}
		}
		if v.StrValue != "" {
			return ScaledValue{Kind: ValueText, Text: v.StrValue}
		}
		return ScaledValue{Kind: ValueRaw, Text: v.Code}
	}
	if v.StrValue != "" {
		return ScaledValue{Kind: ValueText, Text: v.StrValue}
	}
	return ScaledValue{Kind: ValueRaw, Text: v.Code}
}

// Decimals returns the display precision reported by the device.
func (v Value) Decimals() uint {
	d, err := strconv.ParseUint(strings.TrimSpace(v.DecPlaces), 10, 8)
	if err != nil {
		return 0
	}
	return uint(d)
}

func (sv ScaledValue) String() string {
	if sv.Kind == ValueNumeric {
		return strconv.FormatFloat(sv.Number, 'f', -1, 64)
	}
	return sv.Text
}

func valueFromNode(n *valueNode) *Value {
	return &Value{
		URI:           n.URI,
		Code:          strings.TrimSpace(n.Code),
		Unit:          n.Unit,
		StrValue:      n.StrValue,
		ScaleFactor:   n.ScaleFactor,
		AdvTextOffset: n.AdvTextOffset,
		DecPlaces:     n.DecPlaces,
	}
}
