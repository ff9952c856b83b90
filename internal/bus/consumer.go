package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// Handler processes one event, returning whether the store had already
// absorbed it (load_one's already_existed) or a processing error.
type Handler func(ctx context.Context, ev Event) (alreadyExisted bool, err error)

// ConsumeReport tallies a batch, matching the `consume_bus_batch` activity
// signature (spec §4.7): `{processed, duplicates, errors}`.
type ConsumeReport struct {
	Processed  int
	Duplicates int
	Errors     int
}

// Consumer polls the stream via a named consumer group. Dedup is delegated
// entirely to the store (spec §4.5 policy #1/#2); offsets (stream entry
// IDs) are acknowledged after the handler returns, regardless of outcome,
// so duplicates are absorbed rather than redelivered forever (spec §4.9).
type Consumer struct {
	rdb     *redis.Client
	cfg     Config
	name    string
	log     *logger.Logger
	handler Handler
}

func NewConsumer(rdb *redis.Client, cfg Config, consumerName string, handler Handler, log *logger.Logger) *Consumer {
	return &Consumer{rdb: rdb, cfg: cfg, name: consumerName, handler: handler, log: log.With("component", "BusConsumer")}
}

// EnsureGroup creates the consumer group starting from the beginning of
// the stream if it does not already exist.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.ConsumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("bus: create consumer group: %w", err)
	}
	return nil
}

// ConsumeBatch reads up to maxMessages new entries, invokes the handler for
// each, and acknowledges every entry it read (spec §4.7's
// `consume_bus_batch(max_messages) → {processed, duplicates, errors}`).
func (c *Consumer) ConsumeBatch(ctx context.Context, maxMessages int) (ConsumeReport, error) {
	if maxMessages <= 0 {
		maxMessages = 10
	}
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.ConsumerGroup,
		Consumer: c.name,
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    int64(maxMessages),
		Block:    0,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return ConsumeReport{}, nil
	}
	if err != nil {
		return ConsumeReport{}, fmt.Errorf("bus: read consumer group: %w", err)
	}

	var report ConsumeReport
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			ev, decodeErr := decodeEvent(msg.Values)
			if decodeErr != nil {
				report.Errors++
				if c.log != nil {
					c.log.Warn("bus: malformed event payload, acking to avoid poison-pill redelivery", "entry_id", msg.ID, "error", decodeErr)
				}
				c.ack(ctx, msg.ID)
				continue
			}

			report.Processed++
			alreadyExisted, handleErr := c.handler(ctx, ev)
			switch {
			case handleErr != nil:
				report.Errors++
				if c.log != nil {
					c.log.Error("bus: handler failed for event", "entry_id", msg.ID, "author", ev.Author, "error", handleErr)
				}
			case alreadyExisted:
				report.Duplicates++
			}
			c.ack(ctx, msg.ID)
		}
	}
	return report, nil
}

func decodeEvent(values map[string]interface{}) (Event, error) {
	raw, ok := values["payload"]
	if !ok {
		return Event{}, fmt.Errorf("missing payload field")
	}
	var payload []byte
	switch v := raw.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		return Event{}, fmt.Errorf("unexpected payload type %T", raw)
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event payload: %w", err)
	}
	return ev, nil
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.rdb.XAck(ctx, c.cfg.Stream, c.cfg.ConsumerGroup, id).Err(); err != nil && c.log != nil {
		c.log.Warn("bus: ack failed", "entry_id", id, "error", err)
	}
}
