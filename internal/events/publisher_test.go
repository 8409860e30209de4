package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherEncodesEvents(t *testing.T) {
	placed, settled := &recordingWriter{}, &recordingWriter{}
	p := &KafkaPublisher{placed: placed, settled: settled}
	ctx := context.Background()

	require.NoError(t, p.PublishBetPlaced(ctx, BetPlaced{BetID: "b1", UserID: "u1", BetAmount: 100, Odds: 2.5, PotentialWin: 250}))
	require.NoError(t, p.PublishBetSettled(ctx, BetSettled{BetID: "b1", UserID: "u1", Outcome: "won", Credited: 250}))

	require.Len(t, placed.msgs, 1)
	require.Len(t, settled.msgs, 1)
	assert.Equal(t, "b1", string(placed.msgs[0].Key))

	var got BetPlaced
	require.NoError(t, json.Unmarshal(placed.msgs[0].Value, &got))
	assert.Equal(t, 250.0, got.PotentialWin)
	assert.NotZero(t, got.TsUnixMs)

	var s BetSettled
	require.NoError(t, json.Unmarshal(settled.msgs[0].Value, &s))
	assert.Equal(t, "won", s.Outcome)

	require.NoError(t, p.Close())
	assert.True(t, placed.closed)
	assert.True(t, settled.closed)
}
