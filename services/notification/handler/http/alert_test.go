package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/services/notification/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertHandler_EmergencyAlert(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*mocks.MockNotificationUC)
		expectedStatus int
		recipients     int
	}{
		{
			name: "Alert sent",
			body: `{"vehicle_id":"bus-1","message":"Road closed"}`,
			mockSetup: func(mockUC *mocks.MockNotificationUC) {
				mockUC.EXPECT().EmergencyAlert(gomock.Any(), &models.EmergencyAlertRequest{VehicleID: "bus-1", Message: "Road closed"}).
					Return(&models.EmergencyAlertResult{VehicleID: "bus-1", Message: "Road closed", Recipients: 2}, nil)
			},
			expectedStatus: http.StatusOK,
			recipients:     2,
		},
		{
			name: "Missing message",
			body: `{"vehicle_id":"bus-1"}`,
			mockSetup: func(mockUC *mocks.MockNotificationUC) {
				mockUC.EXPECT().EmergencyAlert(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: message is required", apperrors.ErrInvalidInput))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			body:           `{`,
			mockSetup:      func(mockUC *mocks.MockNotificationUC) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			mockUC := mocks.NewMockNotificationUC(ctrl)
			tt.mockSetup(mockUC)

			req := httptest.NewRequest(http.MethodPost, "/internal/alerts/emergency", bytes.NewBufferString(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			assert.NoError(t, NewAlertHandler(mockUC).EmergencyAlert(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Data models.EmergencyAlertResult `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.recipients, resp.Data.Recipients)
			}
		})
	}
}
