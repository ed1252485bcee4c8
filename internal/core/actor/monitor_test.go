package actor

import (
	"sync/atomic"
	"testing"
	"time"

	adactor "eta2mqtt/internal/adapter/actor"
	"eta2mqtt/internal/core/domain"
	"eta2mqtt/internal/util"
	"eta2mqtt/pkg/eta_rest"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMonitorActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.MonitorConfig.PollIntervalMillis = 1000

	logger := zap.Must(zap.NewDevelopment())

	etaProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewEtaActor(eta_rest.CreateTestClient(), nil, 3, logger)
	})
	etaPid, err := context.SpawnNamed(etaProps, "eta")
	if err != nil {
		t.Fatal(err)
	}

	var es eventstream.EventStream
	var updates atomic.Int32
	sub := es.Subscribe(func(evt interface{}) {
		if _, ok := evt.(domain.SensorUpdateEvent); ok {
			updates.Add(1)
		}
	})
	defer es.Unsubscribe(sub)

	monitorProps := actor.PropsFromProducer(func() actor.Actor {
		return NewMonitorActor(&cfg, etaPid, &es, logger)
	})
	monitorPid, err := context.SpawnNamed(monitorProps, "monitor")
	if err != nil {
		t.Fatal(err)
	}

	// first scheduled poll fires after one interval
	time.Sleep(2 * time.Second)

	assert.GreaterOrEqual(t, updates.Load(), int32(4), "update events published")

	// forced poll publishes a fresh batch
	before := updates.Load()
	context.Send(monitorPid, domain.PollValuesRequest{})
	time.Sleep(1 * time.Second)
	assert.Greater(t, updates.Load(), before, "forced poll publishes events")

	context.Stop(monitorPid)
	context.Stop(etaPid)

	as.Shutdown()
}
