package metrics

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VehiclesByStatus is the current fleet size per status
	VehiclesByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "busfleet_vehicles",
			Help: "Number of registered vehicles by status.",
		},
		[]string{"status"},
	)

	// StateChangesTotal counts accepted vehicle updates
	StateChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "busfleet_vehicle_state_changes_total",
			Help: "Total number of vehicle state changes applied to the fleet store.",
		},
		[]string{"source"},
	)

	// TaskDuration records how long each scheduled task run takes
	TaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "busfleet_task_duration_seconds",
			Help:    "Duration of scheduled task runs.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task", "result"},
	)

	// TicksSkippedTotal counts ticks dropped because the previous run overran
	TicksSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "busfleet_ticks_skipped_total",
			Help: "Total number of scheduler ticks skipped due to overrun.",
		},
		[]string{"task"},
	)

	// ReservationsTotal counts reservation lifecycle operations
	ReservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "busfleet_reservation_operations_total",
			Help: "Total number of reservation operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// NotificationsTotal counts notification deliveries
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "busfleet_notifications_total",
			Help: "Total number of notifications by kind and delivery result.",
		},
		[]string{"kind", "result"},
	)

	// OutboxDepth is the number of notifications waiting for delivery
	OutboxDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "busfleet_notification_outbox_depth",
			Help: "Notifications queued for delivery.",
		},
	)

	// WebSocketClients is the number of connected websocket clients
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "busfleet_websocket_clients",
			Help: "Connected websocket clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		VehiclesByStatus,
		StateChangesTotal,
		TaskDuration,
		TicksSkippedTotal,
		ReservationsTotal,
		NotificationsTotal,
		OutboxDepth,
		WebSocketClients,
	)
}

// ObserveTask is a scheduler run hook
func ObserveTask(name string, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failed"
	}
	TaskDuration.WithLabelValues(name, result).Observe(elapsed.Seconds())
}

// SkipTask is a scheduler skip hook
func SkipTask(name string) {
	TicksSkippedTotal.WithLabelValues(name).Inc()
}

// Outcome labels an operation result
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RegisterEndpoint exposes the default registry at /metrics
func RegisterEndpoint(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
