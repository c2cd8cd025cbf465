package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/busfleet/internal/pkg/models"
	"gopkg.in/guregu/null.v4"
)

// FleetRepo persists vehicles and their position history in Postgres
type FleetRepo struct {
	db *sqlx.DB
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(db *sqlx.DB) *FleetRepo {
	return &FleetRepo{db: db}
}

type vehicleRow struct {
	ID          string      `db:"id"`
	Number      string      `db:"number"`
	RouteID     string      `db:"route_id"`
	Status      string      `db:"status"`
	Latitude    float64     `db:"latitude"`
	Longitude   float64     `db:"longitude"`
	SpeedKph    float64     `db:"speed_kph"`
	Capacity    int         `db:"capacity"`
	Occupancy   int         `db:"occupancy"`
	NextStop    null.String `db:"next_stop"`
	LastUpdated time.Time   `db:"last_updated"`
}

func (r vehicleRow) toModel() models.VehicleState {
	return models.VehicleState{
		ID:          r.ID,
		Number:      r.Number,
		RouteID:     r.RouteID,
		Status:      models.VehicleStatus(r.Status),
		Position:    models.Position{Latitude: r.Latitude, Longitude: r.Longitude},
		SpeedKph:    r.SpeedKph,
		Capacity:    r.Capacity,
		Occupancy:   r.Occupancy,
		NextStop:    r.NextStop.String,
		LastUpdated: r.LastUpdated,
	}
}

// LoadVehicles returns every registered vehicle
func (r *FleetRepo) LoadVehicles(ctx context.Context) ([]models.VehicleState, error) {
	query := `
		SELECT id, number, route_id, status, latitude, longitude, speed_kph,
			capacity, occupancy, next_stop, last_updated
		FROM vehicles
		ORDER BY id
	`

	var rows []vehicleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	vehicles := make([]models.VehicleState, 0, len(rows))
	for _, row := range rows {
		vehicles = append(vehicles, row.toModel())
	}
	return vehicles, nil
}

// SaveVehicle inserts or replaces the current state of a vehicle
func (r *FleetRepo) SaveVehicle(ctx context.Context, vehicle models.VehicleState) error {
	query := `
		INSERT INTO vehicles (
			id, number, route_id, status, latitude, longitude, speed_kph,
			capacity, occupancy, next_stop, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			route_id = EXCLUDED.route_id,
			status = EXCLUDED.status,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			speed_kph = EXCLUDED.speed_kph,
			occupancy = EXCLUDED.occupancy,
			next_stop = EXCLUDED.next_stop,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Number,
		vehicle.RouteID,
		vehicle.Status,
		vehicle.Position.Latitude,
		vehicle.Position.Longitude,
		vehicle.SpeedKph,
		vehicle.Capacity,
		vehicle.Occupancy,
		null.NewString(vehicle.NextStop, vehicle.NextStop != ""),
		vehicle.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to save vehicle %s: %w", vehicle.ID, err)
	}
	return nil
}

// AppendPosition records one position history entry
func (r *FleetRepo) AppendPosition(ctx context.Context, record models.PositionRecord) error {
	query := `
		INSERT INTO vehicle_positions (
			vehicle_id, latitude, longitude, speed_kph, occupancy, geohash, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.VehicleID,
		record.Position.Latitude,
		record.Position.Longitude,
		record.SpeedKph,
		record.Occupancy,
		record.Geohash,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append position for vehicle %s: %w", record.VehicleID, err)
	}
	return nil
}
