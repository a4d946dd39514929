package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []amqp.Publishing
	keys       []string
	exchanges  []string
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(
	_ context.Context,
	exchange, key string,
	_, _ bool,
	msg amqp.Publishing,
) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.exchanges = append(f.exchanges, exchange)
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_HandleEvent(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch, "measurements", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"measurements:topic"}, ch.declared)

	event, err := NewEvent(MeasurementRecordedType, map[string]string{"record_id": "r1"})
	require.NoError(t, err)

	require.NoError(t, p.HandleEvent(context.Background(), event))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "measurements", ch.exchanges[0])
	assert.Equal(t, MeasurementRecordedType, ch.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.ID.String(), msg.MessageId)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.JSONEq(t, `{"record_id":"r1"}`, string(decoded.Payload))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	t.Run("declare failure closes channel", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}
		_, err := NewAMQPPublisher(ch, "measurements", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declare exchange")
		assert.True(t, ch.closed)
	})

	t.Run("publish failure", func(t *testing.T) {
		brokerErr := errors.New("channel closed")
		ch := &fakeChannel{publishErr: brokerErr}
		p, err := NewAMQPPublisher(ch, "measurements", nil)
		require.NoError(t, err)

		event, err := NewEvent(MeasurementRecordedType, struct{}{})
		require.NoError(t, err)

		assert.ErrorIs(t, p.HandleEvent(context.Background(), event), brokerErr)
	})
}
