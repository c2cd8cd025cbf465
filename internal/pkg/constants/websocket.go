package constants

// WebSocket event types
const (
	// Common events
	EventError = "error"
	EventPing  = "ping"
	EventPong  = "pong"

	// Fleet events
	EventFleetSnapshot  = "fleet_snapshot"
	EventVehicleUpdated = "vehicle_updated"
	EventLocationUpdate = "location_update"

	// Passenger events
	EventNotification       = "notification"
	EventReservationUpdated = "reservation_updated"
	EventEmergencyAlert     = "emergency_alert"
)

// WebSocket error codes
const (
	ErrorInvalidFormat    = "invalid_format"
	ErrorValidationFailed = "validation_failed"
	ErrorUnauthorized     = "unauthorized"
	ErrorInternalError    = "internal_error"
	ErrorUnknownEvent     = "unknown_event"
)
