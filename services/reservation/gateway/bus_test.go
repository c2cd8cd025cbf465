package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReservationUpdated(t *testing.T) {
	memBus := bus.NewMemoryBus(10)
	gw := NewReservationEventsGW(memBus)

	err := gw.PublishReservationUpdated(context.Background(), &models.Reservation{
		ID: "r1", VehicleID: "bus-1", Status: models.ReservationStatusConfirmed,
	})

	require.NoError(t, err)
	msgs := memBus.Messages(constants.TopicReservationUpdated)
	require.Len(t, msgs, 1)
	var got models.Reservation
	require.NoError(t, json.Unmarshal(msgs[0], &got))
	assert.Equal(t, models.ReservationStatusConfirmed, got.Status)
}

func TestPublishReservationUpdated_ClosedBus(t *testing.T) {
	memBus := bus.NewMemoryBus(10)
	require.NoError(t, memBus.Close())

	err := NewReservationEventsGW(memBus).PublishReservationUpdated(context.Background(), &models.Reservation{ID: "r1"})

	assert.ErrorIs(t, err, bus.ErrClosed)
}
