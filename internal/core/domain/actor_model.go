package domain

import "eta2mqtt/pkg/eta_rest"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_ETA          = "eta"
	ACTOR_ID_MONITOR      = "monitor"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetDeviceInfoRequest struct {
	ActorRequestMixIn
}

type GetDeviceInfoResponse struct {
	ActorResponseMixIn
	ApiVersion string
	Host       string
}

type GetEntitiesRequest struct {
	ActorRequestMixIn
}

type GetEntitiesResponse struct {
	ActorResponseMixIn
	Entities []eta_rest.EntityDescriptor
}

type PollValuesRequest struct {
	ActorRequestMixIn
}

type PollValuesResponse struct {
	ActorResponseMixIn
	Snapshot eta_rest.Snapshot
	Stats    eta_rest.PollStats
}

type GetSnapshotRequest struct {
	ActorRequestMixIn
}

type GetSnapshotResponse struct {
	ActorResponseMixIn
	Entities []eta_rest.EntityDescriptor
	Snapshot eta_rest.Snapshot
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors  []GenericSensor
	Switches []GenericSwitch
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
