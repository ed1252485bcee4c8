package events

import (
	"testing"

	"eta2mqtt/internal/core/domain"
	"eta2mqtt/pkg/eta_rest"

	"github.com/stretchr/testify/assert"
)

func TestPointValueToUpdateEventBinary(t *testing.T) {
	entity := eta_rest.EntityDescriptor{
		URI:  "/120/10101/0/0/12080",
		Key:  "Kessel.Betriebsschalter",
		Kind: eta_rest.KindBinary,
	}
	value := eta_rest.Value{URI: entity.URI, Code: "1802"}

	evt := PointValueToUpdateEvent(entity, value)
	swEvt, ok := evt.(domain.SwitchSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, "kessel_betriebsschalter", swEvt.Id)
	assert.True(t, swEvt.Value)

	value.Code = "1803"
	evt = PointValueToUpdateEvent(entity, value)
	swEvt, ok = evt.(domain.SwitchSensorUpdateEvent)
	assert.True(t, ok)
	assert.False(t, swEvt.Value)
}

func TestPointValueToUpdateEventNumeric(t *testing.T) {
	entity := eta_rest.EntityDescriptor{
		URI:      "/120/10101/0/11110/0",
		Key:      "Kessel.Kesseltemperatur",
		Unit:     "°C",
		Kind:     eta_rest.KindNumeric,
		Decimals: 1,
	}
	value := eta_rest.Value{
		URI:         entity.URI,
		Code:        "403",
		Unit:        "°C",
		ScaleFactor: "10",
		DecPlaces:   "1",
	}

	evt := PointValueToUpdateEvent(entity, value)
	fEvt, ok := evt.(domain.FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, "kessel_kesseltemperatur", fEvt.Id)
	assert.InDelta(t, 40.3, fEvt.Value, 0.001)
	assert.Equal(t, uint(1), fEvt.Decimals)
}

func TestPointValueToUpdateEventNumericDegradesToText(t *testing.T) {
	entity := eta_rest.EntityDescriptor{
		URI:  "/120/10101/0/11110/0",
		Key:  "Kessel.Kesseltemperatur",
		Kind: eta_rest.KindNumeric,
	}
	// scale factor missing, the scaled value falls back to the raw code
	value := eta_rest.Value{URI: entity.URI, Code: "403", Unit: "°C"}

	evt := PointValueToUpdateEvent(entity, value)
	tEvt, ok := evt.(domain.TextSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, "403", tEvt.Value)
}

func TestPointValueToUpdateEventText(t *testing.T) {
	entity := eta_rest.EntityDescriptor{
		URI:  "/120/10101/0/11109/0",
		Key:  "Kessel.Betriebszustand",
		Kind: eta_rest.KindText,
	}
	value := eta_rest.Value{URI: entity.URI, Code: "4001", StrValue: "Heizen"}

	evt := PointValueToUpdateEvent(entity, value)
	tEvt, ok := evt.(domain.TextSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, "kessel_betriebszustand", tEvt.Id)
	assert.Equal(t, "Heizen", tEvt.Value)
}

func TestSnapshotToUpdateEvents(t *testing.T) {
	entities := []eta_rest.EntityDescriptor{
		{URI: "/a", Key: "A", Kind: eta_rest.KindText},
		{URI: "/b", Key: "B", Kind: eta_rest.KindText},
	}
	snapshot := eta_rest.Snapshot{
		"/a": {URI: "/a", Code: "1", StrValue: "one"},
	}

	events := SnapshotToUpdateEvents(entities, snapshot)
	assert.Len(t, events, 1, "missing entries produce no event")
	tEvt, ok := events[0].(domain.TextSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, "a", tEvt.Id)
}

func TestBridgeStateUpdateEvents(t *testing.T) {
	events := BridgeStateUpdateEvents(true)
	assert.Len(t, events, 1)
	bEvt, ok := events[0].(domain.BridgeStateUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, domain.SENSOR_ID_BRIDGE_STATE, bEvt.Id)
	assert.True(t, bEvt.Value)
}
