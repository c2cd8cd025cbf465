package models

import "time"

// Config represents application configuration
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	NATS         NATSConfig
	NSQ          NSQConfig
	Bus          BusConfig
	JWT          JWTConfig
	APIKey       APIKeyConfig
	NewRelic     NewRelicConfig
	Logger       LoggerConfig
	Fleet        FleetConfig
	Notification NotificationConfig
	Payment      PaymentConfig
	Maps         MapsConfig
	Stops        StopsConfig
	RateLimit    RateLimitConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int `validate:"gt=0"`
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains NSQ daemon configuration
type NSQConfig struct {
	Address string
	Channel string
}

// BusConfig selects the message bus transport: memory, nats or nsq
type BusConfig struct {
	Transport string `validate:"oneof=memory nats nsq"`
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// APIKeyConfig holds keys for internal callers
type APIKeyConfig struct {
	Operations string
	Dispatch   string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains Zap logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// FleetConfig drives the location simulator and the fleet store
type FleetConfig struct {
	CenterLatitude       float64       `validate:"gte=-90,lte=90"`
	CenterLongitude      float64       `validate:"gte=-180,lte=180"`
	HalfWidthDeg         float64       `validate:"gt=0"`
	MaxStepDeg           float64       `validate:"gt=0"`
	MinSpeedKph          float64       `validate:"gte=0"`
	MaxSpeedKph          float64       `validate:"gtefield=MinSpeedKph"`
	PositionInterval     time.Duration `validate:"gt=0"`
	StatusInterval       time.Duration `validate:"gt=0"`
	BroadcastInterval    time.Duration `validate:"gt=0"`
	StatusChangeProb     float64       `validate:"gte=0,lte=1"`
	ActiveToWaitingProb  float64       `validate:"gte=0,lte=1"`
	InactiveToActiveProb float64       `validate:"gte=0,lte=1"`
	OccupancyNudgeProb   float64       `validate:"gte=0,lte=1"`
	OccupancyMaxDelta    int           `validate:"gte=0"`
	HistoryLimit         int           `validate:"gt=0"`
	Seed                 int64
	SimulatorEnabled     bool
}

// BoundingBox returns the operating box derived from the fleet config
func (c FleetConfig) BoundingBox() BoundingBox {
	return BoundingBox{
		Center:    Position{Latitude: c.CenterLatitude, Longitude: c.CenterLongitude},
		HalfWidth: c.HalfWidthDeg,
	}
}

// NotificationConfig drives arrival triggering and delivery
type NotificationConfig struct {
	DistanceThresholdKm float64 `validate:"gt=0"`
	ETAThresholdMinutes float64 `validate:"gt=0"`
	OutboxSize          int     `validate:"gt=0"`
	Workers             int     `validate:"gt=0"`
	ArrivalWindow       time.Duration
	SMSGatewayURL       string
	SMSAPIKey           string
	SMSTimeout          time.Duration
}

// PaymentConfig points at the payment processor
type PaymentConfig struct {
	GatewayURL string
	APIKey     string
	Timeout    time.Duration
}

// MapsConfig selects the ETA estimator
type MapsConfig struct {
	Estimator string `validate:"oneof=straight google"`
	APIKey    string
	Timeout   time.Duration `validate:"gte=0"`
}

// StopsConfig locates the stop catalog file
type StopsConfig struct {
	CatalogPath string
}

// RateLimitConfig bounds how often one passenger may create reservations.
// Applied only when Redis is configured.
type RateLimitConfig struct {
	ReserveLimit  int           `validate:"gte=0"`
	ReservePeriod time.Duration `validate:"gte=0"`
}
