package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// Producer publishes feed events to the single configured stream, keyed
// by author (spec §4.9). Delivery is at-least-once; idempotence is not
// assumed — dedup happens downstream at the store.
type Producer struct {
	rdb *redis.Client
	cfg Config
	log *logger.Logger
}

func NewProducer(rdb *redis.Client, cfg Config, log *logger.Logger) *Producer {
	return &Producer{rdb: rdb, cfg: cfg, log: log.With("component", "BusProducer")}
}

// Publish appends an event to the stream. The XADD field "key" carries the
// author, mirroring the Kafka message-key contract this bus replaces.
func (p *Producer) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("bus: encode event: %w", err)
	}
	res := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.cfg.Stream,
		Values: map[string]any{
			"key":     ev.Author,
			"payload": payload,
		},
	})
	if err := res.Err(); err != nil {
		return fmt.Errorf("bus: publish event: %w", err)
	}
	if p.log != nil {
		p.log.Debug("published feed event", "stream", p.cfg.Stream, "author", ev.Author, "entry_id", res.Val())
	}
	return nil
}
