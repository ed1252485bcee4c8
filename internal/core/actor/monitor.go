package actor

import (
	"fmt"
	"time"

	"eta2mqtt/internal/config"
	"eta2mqtt/internal/core/domain"
	"eta2mqtt/internal/core/events"
	. "eta2mqtt/internal/util/actorutil"
	"eta2mqtt/pkg/eta_rest"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// MonitorActor drives the poll cycle: on every tick it asks the eta actor
// for a fresh snapshot and publishes the resulting sensor updates on the
// event stream.
type MonitorActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	etaActor    *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream
	entities    []eta_rest.EntityDescriptor

	logger *zap.Logger
}

type monitorTick struct {
}

func NewMonitorActor(config *config.Config, etaActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *MonitorActor {
	act := &MonitorActor{
		config:      config,
		etaActor:    etaActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger("monitor", logger),
		eventStream: eventStream,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MonitorActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MonitorActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("monitor@starting started")

		if state.config.MonitorConfig.PollIntervalMillis > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), monitorTick{})
		}

		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.etaActor, domain.GetEntitiesRequest{}, 5*time.Second), func(err error) any {
			return domain.GetEntitiesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingEntitiesReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("monitor@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) WaitingEntitiesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetEntitiesResponse:
		if msg.HasResponseError() {
			state.logger.Error("monitor@waitingEntities GetEntitiesResponse", zap.Error(msg.GetResponseError()))
			state.behavior.Become(state.DefaultReceive)
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("monitor@waitingEntities GetEntitiesResponse",
			zap.Int("entities", len(msg.Entities)))
		state.entities = msg.Entities
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("monitor@waitingEntities: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("monitor@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MONITOR,
			Healthy: true,
			State:   "idle",
		})
	case monitorTick:
		state.logger.Debug("monitor@default tick")
		state.requestPoll(ctx)

		// schedule next tick
		state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), monitorTick{})
		state.behavior.BecomeStacked(state.WaitingPollReceive)
	case domain.PollValuesRequest:
		// forced refresh, e.g. after a switch write
		state.logger.Debug("monitor@default forced poll")
		state.requestPoll(ctx)
		state.behavior.BecomeStacked(state.WaitingPollReceive)
	default:
		state.logger.Debug("monitor@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) WaitingPollReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.PollValuesResponse:
		if msg.HasResponseError() {
			state.logger.Error("monitor@waiting PollValuesResponse error", zap.Error(msg.GetResponseError()))
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("monitor@waiting PollValuesResponse",
			zap.Int("succeeded", msg.Stats.Succeeded), zap.Int("failed", msg.Stats.Failed))

		evs := events.SnapshotToUpdateEvents(state.entities, msg.Snapshot)
		for _, ev := range evs {
			state.eventStream.Publish(ev)
		}

		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("monitor@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) requestPoll(ctx actor.Context) {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.etaActor, domain.PollValuesRequest{}, 60*time.Second), func(err error) any {
		return domain.PollValuesResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
}
