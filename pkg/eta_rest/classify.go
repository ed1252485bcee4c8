package eta_rest

import (
	"sync"

	"go.uber.org/zap"
)

type SensorKind int

const (
	KindNumeric SensorKind = iota
	KindBinary
	KindText
)

func (k SensorKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBinary:
		return "binary"
	default:
		return "text"
	}
}

// The controller reports engaged/disengaged states with two fixed codes,
// regardless of the functional unit the point belongs to.
const (
	BinaryCodeOn  = "1802"
	BinaryCodeOff = "1803"
)

var binaryCodes = map[string]bool{
	BinaryCodeOn:  true,
	BinaryCodeOff: false,
}

// BinaryState maps a raw code to an on/off state. The second return is false
// for codes outside the binary table.
func BinaryState(code string) (bool, bool) {
	on, ok := binaryCodes[code]
	return on, ok
}

// Classify decides the representation of a point from one of its values.
// The binary code check runs before everything else: binary codes can
// coincide with string-like payloads, and checking the unit or strValue
// first misclassifies them. Any point that matches no case is a text
// sensor, never dropped.
func Classify(v Value) SensorKind {
	if _, ok := binaryCodes[v.Code]; ok {
		return KindBinary
	}
	if v.Unit != "" {
		return KindNumeric
	}
	return KindText
}

// Classifier caches classification results per uri. Classification runs once
// during selection, not on every poll; Invalidate forces a re-run when the
// menu is re-discovered.
type Classifier struct {
	mu     sync.RWMutex
	kinds  map[string]SensorKind
	logger *zap.Logger
}

func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{
		kinds:  make(map[string]SensorKind),
		logger: logger,
	}
}

func (c *Classifier) Classify(v Value) SensorKind {
	c.mu.RLock()
	kind, ok := c.kinds[v.URI]
	c.mu.RUnlock()
	if ok {
		return kind
	}
	kind = Classify(v)
	if kind == KindText && v.Unit == "" && v.StrValue == "" {
		c.logger.Debug("classification fell back to text sensor",
			zap.String("uri", v.URI), zap.String("code", v.Code))
	}
	c.mu.Lock()
	c.kinds[v.URI] = kind
	c.mu.Unlock()
	return kind
}

// Kind returns the cached classification for a uri, if any.
func (c *Classifier) Kind(uri string) (SensorKind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kind, ok := c.kinds[uri]
	return kind, ok
}

func (c *Classifier) Invalidate() {
	c.mu.Lock()
	c.kinds = make(map[string]SensorKind)
	c.mu.Unlock()
}
