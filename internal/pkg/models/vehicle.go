package models

import "time"

// VehicleStatus represents the operational status of a vehicle
type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "ACTIVE"
	VehicleStatusInactive    VehicleStatus = "INACTIVE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusEmergency   VehicleStatus = "EMERGENCY"
	VehicleStatusDelayed     VehicleStatus = "DELAYED"
	VehicleStatusWaiting     VehicleStatus = "WAITING"
)

// Valid reports whether s is a known vehicle status
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance,
		VehicleStatusEmergency, VehicleStatusDelayed, VehicleStatusWaiting:
		return true
	}
	return false
}

// Position is a WGS84 coordinate pair
type Position struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// BoundingBox is the rectangle vehicles are allowed to move in
type BoundingBox struct {
	Center    Position `json:"center"`
	HalfWidth float64  `json:"half_width"`
}

// MinLatitude returns the southern edge of the box
func (b BoundingBox) MinLatitude() float64 { return b.Center.Latitude - b.HalfWidth }

// MaxLatitude returns the northern edge of the box
func (b BoundingBox) MaxLatitude() float64 { return b.Center.Latitude + b.HalfWidth }

// MinLongitude returns the western edge of the box
func (b BoundingBox) MinLongitude() float64 { return b.Center.Longitude - b.HalfWidth }

// MaxLongitude returns the eastern edge of the box
func (b BoundingBox) MaxLongitude() float64 { return b.Center.Longitude + b.HalfWidth }

// Contains reports whether p lies inside the box, edges included
func (b BoundingBox) Contains(p Position) bool {
	return p.Latitude >= b.MinLatitude() && p.Latitude <= b.MaxLatitude() &&
		p.Longitude >= b.MinLongitude() && p.Longitude <= b.MaxLongitude()
}

// Clamp moves p onto the nearest point inside the box
func (b BoundingBox) Clamp(p Position) Position {
	return Position{
		Latitude:  clamp(p.Latitude, b.MinLatitude(), b.MaxLatitude()),
		Longitude: clamp(p.Longitude, b.MinLongitude(), b.MaxLongitude()),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// VehicleState is the current state record of a vehicle
type VehicleState struct {
	ID          string        `json:"id" db:"id"`
	Number      string        `json:"number" db:"number"`
	RouteID     string        `json:"route_id,omitempty" db:"route_id"`
	Status      VehicleStatus `json:"status" db:"status"`
	Position    Position      `json:"position"`
	SpeedKph    float64       `json:"speed_kph" db:"speed_kph"`
	Capacity    int           `json:"capacity" db:"capacity"`
	Occupancy   int           `json:"occupancy" db:"occupancy"`
	NextStop    string        `json:"next_stop,omitempty" db:"next_stop"`
	LastUpdated time.Time     `json:"last_updated" db:"last_updated"`
}

// AvailableSeats returns the number of free seats on board
func (v VehicleState) AvailableSeats() int {
	return v.Capacity - v.Occupancy
}

// PositionRecord is an immutable entry of a vehicle's position history
type PositionRecord struct {
	VehicleID  string    `json:"vehicle_id" db:"vehicle_id"`
	Position   Position  `json:"position"`
	SpeedKph   float64   `json:"speed_kph" db:"speed_kph"`
	Occupancy  int       `json:"occupancy" db:"occupancy"`
	Geohash    string    `json:"geohash" db:"geohash"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// ChangeSource identifies what caused a vehicle state change
type ChangeSource string

const (
	ChangeSourceTicker         ChangeSource = "ticker"
	ChangeSourceLocationUpdate ChangeSource = "location_update"
	ChangeSourceOccupancy      ChangeSource = "occupancy"
	ChangeSourceStatus         ChangeSource = "status"
	ChangeSourceRegister       ChangeSource = "register"
)

// VehicleStateChange is emitted by the fleet store after every successful update
type VehicleStateChange struct {
	Previous  VehicleState `json:"previous"`
	Current   VehicleState `json:"current"`
	Source    ChangeSource `json:"source"`
	ChangedAt time.Time    `json:"changed_at"`
}

// FleetSnapshot is the periodic broadcast of all active vehicles
type FleetSnapshot struct {
	Vehicles    []VehicleState `json:"vehicles"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// FleetStats summarizes the fleet by status
type FleetStats struct {
	Total    int                   `json:"total"`
	ByStatus map[VehicleStatus]int `json:"by_status"`
}

// LocationUpdateRequest is sent by drivers or ingestion paths
type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	SpeedKph  float64 `json:"speed_kph" validate:"gte=0,lte=200"`
	// NextStop is kept when omitted
	NextStop string `json:"next_stop,omitempty"`
}

// RegisterVehicleRequest registers a vehicle into the fleet
type RegisterVehicleRequest struct {
	ID       string        `json:"id"`
	Number   string        `json:"number" validate:"required"`
	RouteID  string        `json:"route_id"`
	Capacity int           `json:"capacity" validate:"required,gt=0"`
	Status   VehicleStatus `json:"status"`
	Position *Position     `json:"position"`
}

// StatusUpdateRequest changes the operational status of a vehicle
type StatusUpdateRequest struct {
	Status VehicleStatus `json:"status" validate:"required"`
}

// NearbyVehicle is a vehicle found by a radius query
type NearbyVehicle struct {
	VehicleID  string   `json:"vehicle_id"`
	Position   Position `json:"position"`
	DistanceKm float64  `json:"distance_km"`
}
