package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"eta2mqtt/pkg/eta_rest"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE       = "bridge"
	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"
	DEVICE_CLASS_CURRENT         = "current"
	DEVICE_CLASS_ENERGY          = "energy"
	DEVICE_CLASS_FREQUENCY       = "frequency"
	DEVICE_CLASS_HUMIDITY        = "humidity"
	DEVICE_CLASS_IRRADIANCE      = "irradiance"
	DEVICE_CLASS_POWER           = "power"
	DEVICE_CLASS_PRESSURE        = "pressure"
	DEVICE_CLASS_TEMPERATURE     = "temperature"
	DEVICE_CLASS_VOLTAGE         = "voltage"
	DEVICE_CLASS_WEIGHT          = "weight"
	DEVICE_CLASS_DURATION        = "duration"
	DEVICE_CLASS_CONNECTIVITY    = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC      = "diagnostic"
	SENSOR_TYPE_SENSOR           = "sensor"
	SENSOR_TYPE_BINARY           = "binary_sensor"
)

// deviceClasses maps the units reported by the heating unit to Home Assistant
// device classes. Units outside the table yield a plain sensor.
var deviceClasses = map[string]string{
	"°C":   DEVICE_CLASS_TEMPERATURE,
	"W":    DEVICE_CLASS_POWER,
	"kW":   DEVICE_CLASS_POWER,
	"kWh":  DEVICE_CLASS_ENERGY,
	"A":    DEVICE_CLASS_CURRENT,
	"Hz":   DEVICE_CLASS_FREQUENCY,
	"Pa":   DEVICE_CLASS_PRESSURE,
	"bar":  DEVICE_CLASS_PRESSURE,
	"V":    DEVICE_CLASS_VOLTAGE,
	"mV":   DEVICE_CLASS_VOLTAGE,
	"W/m²": DEVICE_CLASS_IRRADIANCE,
	"kg":   DEVICE_CLASS_WEIGHT,
	"s":    DEVICE_CLASS_DURATION,
	"%rH":  DEVICE_CLASS_HUMIDITY,
}

var sensorIdRegexp = regexp.MustCompile("[^a-z0-9_]+")

// MQTTSensorId derives an MQTT-safe sensor id from an entity key.
// "Kessel.Kesseltemperatur" becomes "kessel_kesseltemperatur".
func MQTTSensorId(key string) string {
	id := strings.ToLower(key)
	id = strings.ReplaceAll(id, ".", "_")
	id = strings.ReplaceAll(id, " ", "_")
	return sensorIdRegexp.ReplaceAllString(id, "_")
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("eta2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "eta2mqtt",
		Model:        "eta2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("eta2mqtt %s", md5HashShort(baseTopic)),
	}
}

func HeatingUnitDevice(host, apiVersion string) Device {
	return Device{
		Id:           fmt.Sprintf("eta_heating_unit_%s", md5HashShort(host)),
		Manufacturer: "ETA",
		Model:        "ETA heating unit",
		Version:      apiVersion,
		Name:         fmt.Sprintf("ETA %s", host),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

// PointSensors maps the numeric and text entities to display sensors.
// Binary entities become switches, see PointSwitches.
func PointSensors(heaterDevice Device, entities []eta_rest.EntityDescriptor) []GenericSensor {

	var sensors []GenericSensor

	for _, entity := range entities {
		if entity.Kind == eta_rest.KindBinary {
			continue
		}
		id := MQTTSensorId(entity.Key)
		sensor := GenericSensor{
			Device:     heaterDevice,
			Id:         id,
			SensorType: SENSOR_TYPE_SENSOR,
			Name:       entity.Key,
			UniqueId:   uniqueId(heaterDevice.Id, id),
		}
		if entity.Kind == eta_rest.KindNumeric {
			sensor.StateClass = STATE_CLASS_MEASUREMENT
			sensor.UnitOfMeasurement = entity.Unit
			sensor.DeviceClass = deviceClasses[entity.Unit]
			decimals := entity.Decimals
			sensor.SuggestedDecimals = &decimals
		}
		sensors = append(sensors, sensor)
	}

	return sensors
}

func PointSwitches(heaterDevice Device, entities []eta_rest.EntityDescriptor) []GenericSwitch {

	var switches []GenericSwitch

	for _, entity := range entities {
		if entity.Kind != eta_rest.KindBinary || !entity.Writable {
			continue
		}
		id := MQTTSensorId(entity.Key)
		switches = append(switches, GenericSwitch{
			Device:   heaterDevice,
			Id:       id,
			Name:     entity.Key,
			UniqueId: uniqueId(heaterDevice.Id, id),
			Icon:     "mdi:toggle-switch-outline",
		})
	}

	return switches
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
