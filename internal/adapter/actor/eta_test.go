package actor

import (
	"testing"
	"time"

	"eta2mqtt/internal/core/domain"
	"eta2mqtt/internal/util/actorutil"
	"eta2mqtt/pkg/eta_rest"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetEntitiesEtaActor(t *testing.T) {

	assert := assert.New(t)

	client := eta_rest.CreateTestClient()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewEtaActor(client, nil, 3, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetEntitiesRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetEntitiesResponse)

	assert.Len(resp.Entities, 4, "entity count")

	byKey := make(map[string]eta_rest.EntityDescriptor)
	for _, e := range resp.Entities {
		byKey[e.Key] = e
	}
	assert.Equal(eta_rest.KindBinary, byKey["Kessel.Betriebsschalter"].Kind, "switch classification")
	assert.True(byKey["Kessel.Betriebsschalter"].Writable, "switch writable")
	assert.Equal(eta_rest.KindNumeric, byKey["Kessel.Kesseltemperatur"].Kind, "temperature classification")
	assert.Equal(eta_rest.KindText, byKey["Kessel.Betriebszustand"].Kind, "state classification")

	context.Stop(pid)

	as.Shutdown()
}

func TestPollValuesEtaActor(t *testing.T) {

	assert := assert.New(t)

	client := eta_rest.CreateTestClient()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewEtaActor(client, nil, 3, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.PollValuesRequest{}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.PollValuesResponse)

	assert.False(resp.HasResponseError(), "poll response error")
	assert.Equal(4, resp.Stats.Succeeded, "succeeded reads")
	assert.Equal(0, resp.Stats.Failed, "failed reads")

	temp, ok := resp.Snapshot["/120/10101/0/11110/0"]
	assert.True(ok, "temperature present")
	assert.InDelta(40.3, temp.Scaled().Number, 0.0001, "temperature value")

	context.Stop(pid)

	as.Shutdown()
}

func TestSwitchWriteEtaActor(t *testing.T) {

	assert := assert.New(t)

	client := eta_rest.CreateTestClient()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewEtaActor(client, nil, 3, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.SwitchWriteRequest{
		SensorId: "kessel_betriebsschalter",
		On:       false,
	}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SwitchWriteResponse)

	assert.False(resp.HasResponseError(), "write response error")
	assert.False(resp.On, "switch state after write")

	writes := client.Writes()
	assert.Len(writes, 1, "recorded writes")
	assert.Equal("/120/10101/0/0/12080", writes[0].URI, "write uri")
	assert.Equal(eta_rest.BinaryCodeOff, writes[0].Code, "write code")

	// a write to a read only point must be rejected
	badMsg := domain.SwitchWriteRequest{
		SensorId: "kessel_kesseltemperatur",
		On:       true,
	}
	result, err = context.RequestFuture(pid, badMsg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	badResp := result.(domain.SwitchWriteResponse)
	assert.True(badResp.HasResponseError(), "read only point rejected")

	context.Stop(pid)

	as.Shutdown()
}
