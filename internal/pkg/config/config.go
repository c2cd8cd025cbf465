package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/piresc/busfleet/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "busfleet")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9990)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Driver = GetEnv("DB_DRIVER", "")
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 0)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 0)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// NSQ config
	configs.NSQ.Address = GetEnv("NSQ_ADDRESS", "")
	configs.NSQ.Channel = GetEnv("NSQ_CHANNEL", "busfleet")

	// Bus config
	configs.Bus.Transport = GetEnv("BUS_TRANSPORT", "memory")

	// JWT config
	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Expiration = GetEnvAsInt("JWT_EXPIRATION", 0)
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "")

	// API keys
	configs.APIKey.Operations = GetEnv("API_KEY_OPERATIONS", "")
	configs.APIKey.Dispatch = GetEnv("API_KEY_DISPATCH", "")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.LogsEnabled = GetEnvAsBool("NEW_RELIC_LOGS_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "logs/busfleet.log")

	// Fleet simulator config
	configs.Fleet.CenterLatitude = GetEnvAsFloat("FLEET_CENTER_LAT", 9.03)
	configs.Fleet.CenterLongitude = GetEnvAsFloat("FLEET_CENTER_LON", 38.74)
	configs.Fleet.HalfWidthDeg = GetEnvAsFloat("FLEET_HALF_WIDTH_DEG", 0.05)
	configs.Fleet.MaxStepDeg = GetEnvAsFloat("FLEET_MAX_STEP_DEG", 0.002)
	configs.Fleet.MinSpeedKph = GetEnvAsFloat("FLEET_MIN_SPEED_KPH", 20)
	configs.Fleet.MaxSpeedKph = GetEnvAsFloat("FLEET_MAX_SPEED_KPH", 50)
	configs.Fleet.PositionInterval = GetEnvAsDuration("FLEET_POSITION_INTERVAL", 10*time.Second)
	configs.Fleet.StatusInterval = GetEnvAsDuration("FLEET_STATUS_INTERVAL", 60*time.Second)
	configs.Fleet.BroadcastInterval = GetEnvAsDuration("FLEET_BROADCAST_INTERVAL", 5*time.Second)
	configs.Fleet.StatusChangeProb = GetEnvAsFloat("FLEET_STATUS_CHANGE_PROB", 0.05)
	configs.Fleet.ActiveToWaitingProb = GetEnvAsFloat("FLEET_ACTIVE_TO_WAITING_PROB", 0.3)
	configs.Fleet.InactiveToActiveProb = GetEnvAsFloat("FLEET_INACTIVE_TO_ACTIVE_PROB", 0.2)
	configs.Fleet.OccupancyNudgeProb = GetEnvAsFloat("FLEET_OCCUPANCY_NUDGE_PROB", 0.1)
	configs.Fleet.OccupancyMaxDelta = GetEnvAsInt("FLEET_OCCUPANCY_MAX_DELTA", 2)
	configs.Fleet.HistoryLimit = GetEnvAsInt("FLEET_HISTORY_LIMIT", 500)
	configs.Fleet.Seed = GetEnvAsInt64("FLEET_SEED", time.Now().UnixNano())
	configs.Fleet.SimulatorEnabled = GetEnvAsBool("FLEET_SIMULATOR_ENABLED", true)

	// Notification config
	configs.Notification.DistanceThresholdKm = GetEnvAsFloat("NOTIFY_DISTANCE_THRESHOLD_KM", 2)
	configs.Notification.ETAThresholdMinutes = GetEnvAsFloat("NOTIFY_ETA_THRESHOLD_MINUTES", 5)
	configs.Notification.OutboxSize = GetEnvAsInt("NOTIFY_OUTBOX_SIZE", 1024)
	configs.Notification.Workers = GetEnvAsInt("NOTIFY_WORKERS", 4)
	configs.Notification.ArrivalWindow = GetEnvAsDuration("NOTIFY_ARRIVAL_WINDOW", 2*time.Hour)
	configs.Notification.SMSGatewayURL = GetEnv("SMS_GATEWAY_URL", "")
	configs.Notification.SMSAPIKey = GetEnv("SMS_API_KEY", "")
	configs.Notification.SMSTimeout = GetEnvAsDuration("SMS_TIMEOUT", 5*time.Second)

	// Payment config
	configs.Payment.GatewayURL = GetEnv("PAYMENT_GATEWAY_URL", "")
	configs.Payment.APIKey = GetEnv("PAYMENT_API_KEY", "")
	configs.Payment.Timeout = GetEnvAsDuration("PAYMENT_TIMEOUT", 10*time.Second)

	// Maps config
	configs.Maps.Estimator = GetEnv("ETA_ESTIMATOR", "straight")
	configs.Maps.APIKey = GetEnv("GOOGLE_MAPS_API_KEY", "")
	configs.Maps.Timeout = GetEnvAsDuration("MAPS_TIMEOUT", 2*time.Second)

	// Stops config
	configs.Stops.CatalogPath = GetEnv("STOPS_CATALOG_PATH", "config/stops.yaml")

	// Rate limit config
	configs.RateLimit.ReserveLimit = GetEnvAsInt("RATE_LIMIT_RESERVE", 10)
	configs.RateLimit.ReservePeriod = GetEnvAsDuration("RATE_LIMIT_RESERVE_PERIOD", time.Minute)

	return configs
}

// Validate checks the ranges of the loaded configuration
func Validate(cfg *models.Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Maps.Estimator == "google" && cfg.Maps.APIKey == "" {
		return fmt.Errorf("invalid configuration: GOOGLE_MAPS_API_KEY is required for the google estimator")
	}
	return nil
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsDuration accepts Go duration strings ("10s") or plain seconds
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}

	log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
	return defaultValue
}
