package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/kafka"
	pkgkafka "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/kafka"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/testutil"
)

type recordingProducer struct {
	calls    int
	messages []pkgkafka.Message
	err      error
}

func (p *recordingProducer) Topic() string { return "simulacoes" }

func (p *recordingProducer) Publish(_ context.Context, messages ...pkgkafka.Message) error {
	p.calls++
	p.messages = append(p.messages, messages...)
	return p.err
}

func TestEventPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	pub := kafka.NewEventPublisher(producer, nil)

	evt := event.NewSimulationCreated(17, testutil.Dec(t, "900.00"), 5, 1, testutil.FixedTime)
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, 1, producer.calls)
	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "17", string(msg.Key))
	assert.Equal(t, event.SimulationCreatedType, msg.Headers["event_type"])
	assert.Equal(t, evt.EventID(), msg.Headers["event_id"])
	assert.Equal(t, "simulacao-credito", msg.Headers["source"])
	assert.Equal(t, testutil.FixedTime.Format(time.RFC3339Nano), msg.Headers["timestamp"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.EqualValues(t, 17, payload["simulation_id"])
	assert.Equal(t, "900", payload["value"])
	assert.EqualValues(t, 5, payload["term"])
	assert.EqualValues(t, 1, payload["product_code"])
}

func TestEventPublisher_NoEvents(t *testing.T) {
	producer := &recordingProducer{}
	pub := kafka.NewEventPublisher(producer, nil)

	require.NoError(t, pub.Publish(context.Background()))
	assert.Zero(t, producer.calls)
}

func TestEventPublisher_ProducerError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("leader not available")}
	pub := kafka.NewEventPublisher(producer, nil)

	err := pub.Publish(context.Background(), event.NewSimulationCreated(1, testutil.Dec(t, "1"), 1, 1, testutil.FixedTime))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulacoes")
}
