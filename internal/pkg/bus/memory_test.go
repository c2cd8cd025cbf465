package bus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Count int `json:"count"`
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	b := NewMemoryBus(2)
	var got []snapshot

	unsubscribe, err := b.Subscribe("fleet.snapshot", func(ctx context.Context, data []byte) error {
		var s snapshot
		require.NoError(t, json.Unmarshal(data, &s))
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "fleet.snapshot", snapshot{Count: 1}))
	require.NoError(t, b.Publish(context.Background(), "fleet.snapshot", snapshot{Count: 2}))
	require.NoError(t, b.Publish(context.Background(), "other", snapshot{Count: 99}))

	assert.Equal(t, []snapshot{{1}, {2}}, got)

	unsubscribe()
	unsubscribe()
	require.NoError(t, b.Publish(context.Background(), "fleet.snapshot", snapshot{Count: 3}))
	assert.Len(t, got, 2)

	history := b.Messages("fleet.snapshot")
	require.Len(t, history, 2)
	assert.JSONEq(t, `{"count":3}`, string(history[1]))
}

func TestMemoryBus_FailingSubscriberDoesNotStopOthers(t *testing.T) {
	b := NewMemoryBus(0)
	calls := 0

	_, err := b.Subscribe("t", func(ctx context.Context, data []byte) error { return errors.New("boom") })
	require.NoError(t, err)
	_, err = b.Subscribe("t", func(ctx context.Context, data []byte) error {
		calls++
		assert.Equal(t, "raw", string(data))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "t", []byte("raw")))
	assert.Equal(t, 1, calls)
	assert.Empty(t, b.Messages("t"))
}

func TestMemoryBus_Closed(t *testing.T) {
	b := NewMemoryBus(0)
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Publish(context.Background(), "t", "x"), ErrClosed)
	_, err := b.Subscribe("t", func(ctx context.Context, data []byte) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEncode(t *testing.T) {
	data, err := Encode(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	_, err = Encode(make(chan int))
	assert.Error(t, err)
}
