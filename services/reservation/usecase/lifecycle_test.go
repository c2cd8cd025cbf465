package usecase

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestFire_LegalTransitions(t *testing.T) {
	tests := []struct {
		from  models.ReservationStatus
		event string
		want  models.ReservationStatus
	}{
		{models.ReservationStatusPending, EventConfirm, models.ReservationStatusConfirmed},
		{models.ReservationStatusPending, EventFailPayment, models.ReservationStatusCancelled},
		{models.ReservationStatusPending, EventCancel, models.ReservationStatusCancelled},
		{models.ReservationStatusConfirmed, EventCancel, models.ReservationStatusCancelled},
		{models.ReservationStatusConfirmed, EventCheckIn, models.ReservationStatusBoarding},
		{models.ReservationStatusConfirmed, EventNoShow, models.ReservationStatusNoShow},
		{models.ReservationStatusBoarding, EventComplete, models.ReservationStatusCompleted},
	}
	for _, tt := range tests {
		r := &models.Reservation{Status: tt.from}
		err := fire(context.Background(), r, tt.event)
		assert.NoError(t, err, "%s -> %s", tt.from, tt.event)
		assert.Equal(t, tt.want, r.Status)
	}
}

func TestFire_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from  models.ReservationStatus
		event string
	}{
		{models.ReservationStatusCancelled, EventConfirm},
		{models.ReservationStatusNoShow, EventConfirm},
		{models.ReservationStatusRefunded, EventConfirm},
		{models.ReservationStatusPending, EventCheckIn},
		{models.ReservationStatusBoarding, EventCancel},
		{models.ReservationStatusCompleted, EventCancel},
		{models.ReservationStatusCancelled, EventCancel},
		{models.ReservationStatusConfirmed, EventComplete},
	}
	for _, tt := range tests {
		r := &models.Reservation{Status: tt.from}
		err := fire(context.Background(), r, tt.event)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidStateTransition), "%s -> %s", tt.from, tt.event)
		assert.Equal(t, tt.from, r.Status)
	}
}

func TestCan(t *testing.T) {
	assert.True(t, can(models.ReservationStatusConfirmed, EventCheckIn))
	assert.False(t, can(models.ReservationStatusPending, EventNoShow))
}
