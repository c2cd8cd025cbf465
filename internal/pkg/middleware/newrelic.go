package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// AddAttribute adds a custom attribute to the current transaction
func AddAttribute(c echo.Context, key string, value interface{}) {
	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute(key, value)
	}
}

// SetUserID sets the user ID attribute for the current transaction
func SetUserID(c echo.Context, userID string) {
	AddAttribute(c, "user.id", userID)
}

// SetVehicleID sets the vehicle ID attribute for the current transaction
func SetVehicleID(c echo.Context, vehicleID string) {
	AddAttribute(c, "vehicle.id", vehicleID)
}

// SetReservationID sets the reservation ID attribute for the current transaction
func SetReservationID(c echo.Context, reservationID string) {
	AddAttribute(c, "reservation.id", reservationID)
}
