package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/notification/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

var now = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func TestSaveNotification_Arrival(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(db)
	sentAt := now.Add(time.Second)
	event := &models.NotificationEvent{
		ID: "n1", Key: "arrival:r1", RecipientID: "p1", VehicleID: "bus-1", ReservationID: "r1",
		Kind: models.NotificationBusArrival, Title: "Your bus is arriving", Message: "soon",
		StopName: "Meskel Square", EstimatedMinutes: 4, Sent: true, CreatedAt: now, SentAt: &sentAt,
	}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (event_key) DO UPDATE")).
		WithArgs("n1", "arrival:r1", "p1", "bus-1", "r1", "BUS_ARRIVAL", "Your bus is arriving", "soon",
			"Meskel Square", int64(4), true, now, sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveNotification(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNotification_OptionalColumnsAreNull(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(db)
	event := &models.NotificationEvent{
		ID: "n2", Key: "emergency:bus-1:p1:1", RecipientID: "p1",
		Kind: models.NotificationEmergency, Title: "Emergency alert", Message: "stay seated", CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs("n2", "emergency:bus-1:p1:1", "p1", nil, nil, "EMERGENCY", "Emergency alert", "stay seated",
			nil, nil, false, now, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveNotification(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNotification_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).WillReturnError(assert.AnError)

	err := repo.SaveNotification(context.Background(), &models.NotificationEvent{ID: "n1", Key: "arrival:r1"})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestGetPassenger(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(sqlmock.Sqlmock)
		expected  *models.Passenger
		expectErr error
	}{
		{
			name: "Found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM passengers")).
					WithArgs("p1").
					WillReturnRows(sqlmock.NewRows([]string{
						"id", "full_name", "phone_number", "sms_enabled", "push_enabled", "preferred_language",
					}).AddRow("p1", "Abebe Kebede", "0911234567", true, false, "am"))
			},
			expected: &models.Passenger{
				ID: "p1", FullName: "Abebe Kebede", PhoneNumber: "0911234567",
				SMSEnabled: true, PushEnabled: false, PreferredLanguage: "am",
			},
		},
		{
			name: "Not found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM passengers")).WithArgs("p1").WillReturnError(sql.ErrNoRows)
			},
			expectErr: apperrors.ErrNotFound,
		},
		{
			name: "Database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM passengers")).WithArgs("p1").WillReturnError(assert.AnError)
			},
			expectErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := repository.NewNotificationRepository(db)
			tt.mockSetup(mock)

			passenger, err := repo.GetPassenger(context.Background(), "p1")

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, passenger)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, passenger)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
