package constants

// Bus topics
const (
	// Fleet
	TopicFleetSnapshot  = "fleet.snapshot"
	TopicVehicleUpdated = "fleet.vehicle.updated"
	TopicVehicleStatus  = "fleet.vehicle.status"

	// Reservations
	TopicReservationUpdated = "reservation.updated"

	// Notifications
	TopicNotificationPush = "notification.push"
	TopicEmergencyAlert   = "notification.emergency"
)
