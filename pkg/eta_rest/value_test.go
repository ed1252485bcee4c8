package eta_rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaledValueNumeric(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "403", Unit: "°C", ScaleFactor: "10", StrValue: "40,3°C"}
	sv := v.Scaled()

	assert.Equal(ValueNumeric, sv.Kind, "kind")
	assert.InDelta(40.3, sv.Number, 0.0001, "code divided by scale factor")
	assert.Equal("40.3", sv.String(), "string form")
}

func TestScaledValueZeroScaleFactor(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "403", Unit: "°C", ScaleFactor: "0", StrValue: "irgendwas"}
	sv := v.Scaled()

	assert.Equal(ValueText, sv.Kind, "zero scale factor must not divide")
	assert.Equal("irgendwas", sv.Text)
}

func TestScaledValueZeroScaleFactorNoText(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "403", Unit: "°C", ScaleFactor: "0"}
	sv := v.Scaled()

	assert.Equal(ValueRaw, sv.Kind)
	assert.Equal("403", sv.String(), "raw code, never empty")
}

func TestScaledValueMissingScaleFactor(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "403", Unit: "°C"}
	sv := v.Scaled()

	assert.Equal(ValueRaw, sv.Kind)
	assert.Equal("403", sv.String())
}

func TestScaledValueEmptyUnitWithText(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "4001", StrValue: "Heizen", ScaleFactor: "1"}
	sv := v.Scaled()

	assert.Equal(ValueText, sv.Kind)
	assert.Equal("Heizen", sv.Text)
}

func TestScaledValueEmptyUnitNoText(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "0", ScaleFactor: "1"}
	sv := v.Scaled()

	assert.Equal(ValueRaw, sv.Kind)
	assert.Equal("0", sv.String(), "falls back to raw code, not empty string")
}

func TestScaledValueNonNumericCode(t *testing.T) {

	assert := assert.New(t)

	v := Value{Code: "kaputt", Unit: "W", ScaleFactor: "10", StrValue: "defekt"}
	sv := v.Scaled()

	assert.Equal(ValueText, sv.Kind, "unparseable code degrades to text")
	assert.Equal("defekt", sv.Text)
}

func TestValueDecimals(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(uint(1), Value{DecPlaces: "1"}.Decimals())
	assert.Equal(uint(0), Value{DecPlaces: ""}.Decimals())
	assert.Equal(uint(0), Value{DecPlaces: "x"}.Decimals())
}
