package worker

import (
	"context"
	"testing"

	"sellsync/internal/config"
	"sellsync/internal/logger"
	"sellsync/internal/worker/processors"

	"github.com/stretchr/testify/assert"
)

type recordingProcessor struct {
	events []processors.Event
}

func (r *recordingProcessor) Process(ctx context.Context, event processors.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, Brokers(" kafka-1:9092, ,kafka-2:9092"))
	assert.Nil(t, Brokers(""))
}

func TestHandle_DecodesEvents(t *testing.T) {
	processor := &recordingProcessor{}
	w := &Worker{config: &config.Config{}, logger: logger.Nop(), processor: processor}

	w.handle(context.Background(), []byte(`{"type":"sync.requested","account_id":"acct","resource":"orders","days_back":30}`))
	w.handle(context.Background(), []byte(`not json`))

	assert.Equal(t, []processors.Event{{
		Type:      processors.EventSyncRequested,
		AccountID: "acct",
		Resource:  "orders",
		DaysBack:  30,
	}}, processor.events)
}
