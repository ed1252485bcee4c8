package events

import (
	. "eta2mqtt/internal/core/domain"
	"eta2mqtt/pkg/eta_rest"
)

// PointValueToUpdateEvent maps one polled value to its sensor update event.
// The entity classification decides the event shape, not the value itself:
// a point classified as binary stays a switch even if a poll returns an
// unexpected code.
func PointValueToUpdateEvent(entity eta_rest.EntityDescriptor, value eta_rest.Value) any {
	id := MQTTSensorId(entity.Key)
	switch entity.Kind {
	case eta_rest.KindBinary:
		on, _ := eta_rest.BinaryState(value.Code)
		return SwitchSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: id,
			},
			Value: on,
		}
	case eta_rest.KindNumeric:
		scaled := value.Scaled()
		if scaled.Kind != eta_rest.ValueNumeric {
			return TextSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: id,
				},
				Value: scaled.String(),
			}
		}
		return FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: id,
			},
			Value:    scaled.Number,
			Decimals: entity.Decimals,
		}
	default:
		return TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: id,
			},
			Value: value.Scaled().String(),
		}
	}
}

// SnapshotToUpdateEvents maps a poll snapshot to update events. Entities
// missing from the snapshot produce no event, their last published state
// stays untouched.
func SnapshotToUpdateEvents(entities []eta_rest.EntityDescriptor, snapshot eta_rest.Snapshot) []any {
	var events []any
	for _, entity := range entities {
		value, ok := snapshot[entity.URI]
		if !ok {
			continue
		}
		events = append(events, PointValueToUpdateEvent(entity, value))
	}
	return events
}

func SwitchStateUpdateEvent(sensorId string, on bool) any {
	return SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: sensorId,
		},
		Value: on,
	}
}

func BridgeStateUpdateEvents(online bool) []any {
	var events []any
	events = append(events, BridgeStateUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BRIDGE_STATE,
		},
		Value: online,
	})
	return events
}
