package eta_rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClassifyBinaryBeforeText(t *testing.T) {

	assert := assert.New(t)

	// binary codes collide with string-like payloads, the code check must
	// win regardless of unit/text
	v := Value{URI: "/1", Code: "1802", Unit: "", StrValue: "Ein"}
	assert.Equal(KindBinary, Classify(v))

	v = Value{URI: "/1", Code: "1803", Unit: "", StrValue: "Aus"}
	assert.Equal(KindBinary, Classify(v))
}

func TestClassifyNumericOnUnit(t *testing.T) {

	assert := assert.New(t)

	v := Value{URI: "/1", Code: "403", Unit: "°C", ScaleFactor: "10"}
	assert.Equal(KindNumeric, Classify(v))
}

func TestClassifyTextOnStrValue(t *testing.T) {

	assert := assert.New(t)

	v := Value{URI: "/1", Code: "4001", StrValue: "Heizen"}
	assert.Equal(KindText, Classify(v))
}

func TestClassifyFallbackNeverDrops(t *testing.T) {

	assert := assert.New(t)

	// unknown code, no unit, no text: still a text sensor
	v := Value{URI: "/1", Code: "9999"}
	assert.Equal(KindText, Classify(v))
}

func TestClassifierCaches(t *testing.T) {

	assert := assert.New(t)

	c := NewClassifier(zap.NewNop())

	kind := c.Classify(Value{URI: "/1", Code: "403", Unit: "°C"})
	assert.Equal(KindNumeric, kind)

	// a later value with different fields does not reclassify
	kind = c.Classify(Value{URI: "/1", Code: "1802"})
	assert.Equal(KindNumeric, kind, "cached result wins")

	cached, ok := c.Kind("/1")
	assert.True(ok)
	assert.Equal(KindNumeric, cached)

	c.Invalidate()
	_, ok = c.Kind("/1")
	assert.False(ok)

	kind = c.Classify(Value{URI: "/1", Code: "1802"})
	assert.Equal(KindBinary, kind, "reclassified after invalidation")
}

func TestBinaryState(t *testing.T) {

	assert := assert.New(t)

	on, known := BinaryState("1802")
	assert.True(known)
	assert.True(on)

	on, known = BinaryState("1803")
	assert.True(known)
	assert.False(on)

	_, known = BinaryState("42")
	assert.False(known)
}
