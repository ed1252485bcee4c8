package actor

import (
	"context"
	"fmt"
	"time"

	"eta2mqtt/internal/core/domain"
	"eta2mqtt/internal/util/actorutil"
	"eta2mqtt/pkg/eta_rest"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const (
	ETA_ACTOR_ID = "eta"

	etaRequestTimeout = 35 * time.Second
)

type EtaActor struct {
	behavior   actor.Behavior
	stash      *actorutil.Stash
	client     eta_rest.Client
	points     []string
	maxInFly   uint
	classifier *eta_rest.Classifier
	poller     *eta_rest.Poller
	entities   []eta_rest.EntityDescriptor
	bySensorId map[string]eta_rest.EntityDescriptor
	apiVersion string
	logger     *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewEtaActor(client eta_rest.Client, points []string, maxConcurrent uint, logger *zap.Logger) *EtaActor {
	act := &EtaActor{
		client:     client,
		points:     points,
		maxInFly:   maxConcurrent,
		classifier: eta_rest.NewClassifier(logger),
		behavior:   actor.NewBehavior(),
		stash:      &actorutil.Stash{},
		logger:     actorutil.ActorLogger("eta", logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *EtaActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *EtaActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("eta@starting started")
		if err := state.discover(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("eta@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *EtaActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("eta@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      ETA_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceInfoRequest:
		state.logger.Debug("eta@default: GetDeviceInfoRequest")
		ctx.Respond(domain.GetDeviceInfoResponse{
			ApiVersion: state.apiVersion,
		})
	case domain.GetEntitiesRequest:
		state.logger.Debug("eta@default: GetEntitiesRequest")
		ctx.Respond(domain.GetEntitiesResponse{
			Entities: state.entities,
		})
	case domain.GetSnapshotRequest:
		state.logger.Debug("eta@default: GetSnapshotRequest")
		ctx.Respond(domain.GetSnapshotResponse{
			Entities: state.entities,
			Snapshot: state.poller.Snapshot(),
		})
	case domain.PollValuesRequest:
		state.logger.Debug("eta@default: PollValuesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.pollValues),
			mapTaskResult[domain.PollValuesResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.PollValuesResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(etaRequestTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingEta)
	case domain.SwitchWriteRequest:
		state.logger.Debug("eta@default: SwitchWriteRequest",
			zap.String("sensorId", msg.SensorId), zap.Bool("on", msg.On))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.SwitchWriteResponse, error) {
			return state.writeSwitch(msg.SensorId, msg.On)
		}),
			mapTaskResult[domain.SwitchWriteResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SwitchWriteResponse{
					SwitchCommandResponseMixIn: domain.SwitchCommandResponseMixIn{
						ActorResponse: domain.ActorResponseMixIn{
							ResponseError: err,
						},
					},
					SensorId: msg.SensorId,
				},
				replyTo: sender,
			}
		}).WithTimeout(etaRequestTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingEta)
	case domain.SwitchGetStateRequest:
		state.logger.Debug("eta@default: SwitchGetStateRequest", zap.String("sensorId", msg.SensorId))
		on, err := state.switchState(msg.SensorId)
		ctx.Respond(domain.SwitchGetStateResponse{
			SwitchCommandResponseMixIn: domain.SwitchCommandResponseMixIn{
				ActorResponse: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			},
			SensorId: msg.SensorId,
			On:       on,
		})
	default:
		state.logger.Debug("eta@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *EtaActor) WaitingEta(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("eta@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("eta@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// discover checks the API version, fetches the device menu and classifies
// the selected points. Runs once per actor incarnation.
func (a *EtaActor) discover() error {
	bg := context.Background()

	version, err := a.client.CheckAPI(bg)
	if err != nil {
		logger.Error(err)
		return err
	}
	a.apiVersion = version

	tree, err := a.client.Menu(bg)
	if err != nil {
		logger.Error(err)
		return err
	}
	a.logger.Info("eta: menu discovered",
		zap.Int("points", tree.Len()), zap.Int("skipped", tree.Skipped))

	a.classifier.Invalidate()
	entities, err := eta_rest.Select(bg, a.client, tree, a.points, a.classifier, a.logger)
	if err != nil {
		logger.Error(err)
		return err
	}
	a.entities = entities
	a.bySensorId = make(map[string]eta_rest.EntityDescriptor, len(entities))
	uris := make([]string, 0, len(entities))
	for _, e := range entities {
		a.bySensorId[domain.MQTTSensorId(e.Key)] = e
		uris = append(uris, e.URI)
	}
	a.poller = eta_rest.NewPoller(a.client, uris, int64(a.maxInFly), a.logger)
	return nil
}

func (a *EtaActor) pollValues() (*domain.PollValuesResponse, error) {
	snapshot, stats, err := a.poller.Poll(context.Background())
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.PollValuesResponse{
		Snapshot: snapshot,
		Stats:    stats,
	}, nil
}

func (a *EtaActor) writeSwitch(sensorId string, on bool) (*domain.SwitchWriteResponse, error) {
	entity, ok := a.bySensorId[sensorId]
	if !ok || !entity.Writable {
		return nil, fmt.Errorf("unknown or read only switch: %s", sensorId)
	}
	code := eta_rest.BinaryCodeOff
	if on {
		code = eta_rest.BinaryCodeOn
	}
	if err := a.client.WriteValue(context.Background(), entity.URI, code); err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.SwitchWriteResponse{
		SwitchCommandResponseMixIn: domain.SwitchCommandResponseMixIn{
			ActorResponse: domain.ActorResponseMixIn{},
		},
		SensorId: sensorId,
		On:       on,
	}, nil
}

func (a *EtaActor) switchState(sensorId string) (bool, error) {
	entity, ok := a.bySensorId[sensorId]
	if !ok {
		return false, fmt.Errorf("unknown switch: %s", sensorId)
	}
	value, ok := a.poller.Snapshot()[entity.URI]
	if !ok {
		return false, fmt.Errorf("no polled value for switch: %s", sensorId)
	}
	on, _ := eta_rest.BinaryState(value.Code)
	return on, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
