package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/constants"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/reservation"
)

type reservationEventsGW struct {
	publisher bus.Publisher
}

// NewReservationEventsGW creates a gateway publishing reservation changes on the bus
func NewReservationEventsGW(publisher bus.Publisher) reservation.ReservationEventsGW {
	return &reservationEventsGW{publisher: publisher}
}

// PublishReservationUpdated publishes the current reservation state
func (g *reservationEventsGW) PublishReservationUpdated(ctx context.Context, r *models.Reservation) error {
	if err := g.publisher.Publish(ctx, constants.TopicReservationUpdated, r); err != nil {
		return fmt.Errorf("failed to publish reservation %s: %w", r.ID, err)
	}
	return nil
}
