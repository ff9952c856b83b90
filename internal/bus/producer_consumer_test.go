package bus

import (
	"context"
	"fmt"
	"testing"

	"github.com/pill/recipes-etl/internal/bus/bustest"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Stream:        fmt.Sprintf("test-recipes-%s", t.Name()),
		ConsumerGroup: "test-processors",
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestProducerConsumer_AtLeastOnceDelivery(t *testing.T) {
	rdb := bustest.Client(t)
	cfg := testConfig(t)
	log := testLogger(t)

	producer := NewProducer(rdb, cfg, log)
	if err := producer.Publish(context.Background(), Event{Author: "chef_jane", Title: "Soup", Text: "mix and simmer", CharCount: 15}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	var handled []Event
	consumer := NewConsumer(rdb, cfg, "consumer-1", func(_ context.Context, ev Event) (bool, error) {
		handled = append(handled, ev)
		return false, nil
	}, log)
	if err := consumer.EnsureGroup(context.Background()); err != nil {
		t.Fatalf("EnsureGroup: %v", err)
	}

	report, err := consumer.ConsumeBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("ConsumeBatch: %v", err)
	}
	if report.Processed != 1 || report.Errors != 0 {
		t.Fatalf("report: want processed=1 errors=0, got %+v", report)
	}
	if len(handled) != 1 || handled[0].Author != "chef_jane" {
		t.Fatalf("handled events: got %+v", handled)
	}
}

func TestProducerConsumer_DuplicateCountedFromHandler(t *testing.T) {
	rdb := bustest.Client(t)
	cfg := testConfig(t)
	log := testLogger(t)

	producer := NewProducer(rdb, cfg, log)
	if err := producer.Publish(context.Background(), Event{Author: "chef_jane", Title: "Soup"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	consumer := NewConsumer(rdb, cfg, "consumer-1", func(_ context.Context, _ Event) (bool, error) {
		return true, nil
	}, log)
	if err := consumer.EnsureGroup(context.Background()); err != nil {
		t.Fatalf("EnsureGroup: %v", err)
	}

	report, err := consumer.ConsumeBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("ConsumeBatch: %v", err)
	}
	if report.Duplicates != 1 {
		t.Fatalf("Duplicates: want=1 got=%d", report.Duplicates)
	}
}
