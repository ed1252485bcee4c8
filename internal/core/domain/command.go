package domain

import "fmt"

// SwitchCommandRequest

type SwitchCommandRequest interface {
	ActorRequest
	SwitchCommand() string
}

type SwitchCommandRequestMixIn struct {
	ActorRequestMixIn
}

func (r SwitchCommandRequestMixIn) SwitchCommand() string {
	return fmt.Sprintf("%T", r)
}

// SwitchCommandResponse

type SwitchCommandResponse interface {
	ActorResponse
	SwitchCommandResponse() string
}

type SwitchCommandResponseMixIn struct {
	ActorResponse
}

func (r SwitchCommandResponseMixIn) SwitchCommandResponse() string {
	return fmt.Sprintf("%T", r)
}

// Switch commands

type SwitchWriteRequest struct {
	SwitchCommandRequestMixIn
	SensorId string
	On       bool
}

type SwitchWriteResponse struct {
	SwitchCommandResponseMixIn
	SensorId string
	On       bool
}

type SwitchGetStateRequest struct {
	SwitchCommandRequestMixIn
	SensorId string
}

type SwitchGetStateResponse struct {
	SwitchCommandResponseMixIn
	SensorId string
	On       bool
}

// ensure interface compliance
var _ SwitchCommandRequest = (*SwitchWriteRequest)(nil)
