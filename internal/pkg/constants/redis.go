package constants

// Redis key formats
const (
	KeyVehicleGeo      = "fleet:geo"        // GeoHash set of all vehicle positions
	KeyVehicleState    = "fleet:vehicle:%s" // Format: fleet:vehicle:{vehicle_id}
	KeyVehicleGeohash  = "fleet:geohash:%s" // Format: fleet:geohash:{geohash}
	KeyVehicleStateTTL = 300                // seconds
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldTimestamp = "ts"
	FieldStatus    = "status"
	FieldOccupancy = "occupancy"
	FieldSpeed     = "speed"
	FieldGeohash   = "geohash"
)
