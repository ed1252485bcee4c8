package actor

import (
	"fmt"
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

func spawnTestMaster(t *testing.T, context *actor.RootContext, logger *zap.Logger) *actor.PID {
	t.Helper()

	cfg := util.LoadTestConfig()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.EtaActor {
			return adactor.NewEtaActor(eta_rest.CreateTestClient(), nil, 3, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}
	return pid
}

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	pid := spawnTestMaster(t, context, logger)

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		//return
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorSnapshotForward(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	logger := zap.Must(zap.NewDevelopment())

	pid := spawnTestMaster(t, context, logger)

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.GetSnapshotRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	snapResp, ok := res.(domain.GetSnapshotResponse)
	assert.True(t, ok)
	assert.Len(t, snapResp.Entities, 4, "entities forwarded")

	context.Stop(pid)

	as.Shutdown()
}
