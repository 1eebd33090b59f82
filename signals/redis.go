package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const indicatorKeyPrefix = "adherence:indicator"

// NewClient returns a redis client which is closed when the application stops. The client
// connects lazily so commands which never publish don't require a running redis.
func NewClient(cfg *Config, lifecycle fx.Lifecycle) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

type Bus struct {
	client       *redis.Client
	cfg          *Config
	indicatorTTL time.Duration
	logger       *zap.SugaredLogger
}

var _ Publisher = &Bus{}
var _ Subscriber = &Bus{}
var _ Indicators = &Bus{}

func NewBus(client *redis.Client, cfg *Config, logger *zap.SugaredLogger) (*Bus, error) {
	ttl, err := time.ParseDuration(cfg.IndicatorTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid indicator ttl: %w", err)
	}

	return &Bus{
		client:       client,
		cfg:          cfg,
		indicatorTTL: ttl,
		logger:       logger,
	}, nil
}

func NewPublisher(bus *Bus) Publisher {
	return bus
}

func NewSubscriber(bus *Bus) Subscriber {
	return bus
}

func NewIndicators(bus *Bus) Indicators {
	return bus
}

func (b *Bus) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("unable to encode change: %w", err)
	}
	if err := b.client.Publish(ctx, b.cfg.ChangesChannel, payload).Err(); err != nil {
		return fmt.Errorf("unable to publish change: %w", err)
	}
	return nil
}

// PublishIndicator stores the latest indicator of the subject and broadcasts it
// to the indicators channel
func (b *Bus) PublishIndicator(ctx context.Context, indicator Indicator) error {
	payload, err := json.Marshal(indicator)
	if err != nil {
		return fmt.Errorf("unable to encode indicator: %w", err)
	}

	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, IndicatorKey(indicator.Audience, indicator.SubjectId), payload, b.indicatorTTL)
		pipe.Publish(ctx, b.cfg.IndicatorsChannel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to publish indicator: %w", err)
	}
	return nil
}

// LatestIndicator returns the last indicator published for the subject or nil
// if it expired or was never published
func (b *Bus) LatestIndicator(ctx context.Context, audience Audience, subjectId string) (*Indicator, error) {
	payload, err := b.client.Get(ctx, IndicatorKey(audience, subjectId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to get indicator: %w", err)
	}

	indicator := &Indicator{}
	if err := json.Unmarshal(payload, indicator); err != nil {
		return nil, fmt.Errorf("unable to decode indicator: %w", err)
	}
	return indicator, nil
}

func (b *Bus) Subscribe(ctx context.Context) (<-chan Change, func() error, error) {
	sub := b.client.Subscribe(ctx, b.cfg.ChangesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("unable to subscribe to %s: %w", b.cfg.ChangesChannel, err)
	}

	changes := make(chan Change)
	go func() {
		defer close(changes)
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				change, err := DecodeChange([]byte(msg.Payload))
				if err != nil {
					b.logger.Warnw("ignoring malformed change", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return changes, sub.Close, nil
}

func DecodeChange(payload []byte) (Change, error) {
	change := Change{}
	if err := json.Unmarshal(payload, &change); err != nil {
		return change, err
	}
	if change.PatientId == "" {
		return change, fmt.Errorf("change is missing patient id")
	}
	return change, nil
}

func IndicatorKey(audience Audience, subjectId string) string {
	return fmt.Sprintf("%s:%s:%s", indicatorKeyPrefix, audience, subjectId)
}
