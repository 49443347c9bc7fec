package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// Tracks handled bot commands by name and outcome.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stickershot_commands_total",
			Help: "Total number of bot commands handled (by command and outcome).",
		},
		[]string{"command", "outcome"}, // outcome = "ok" | "image_missing" | "error"
	)

	// Tracks errors surfaced by the bot framework.
	TransportErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stickershot_transport_errors_total",
			Help: "Count of errors reported by the Telegram transport.",
		},
	)
)

// IncCommand counts one handled command with its outcome.
func IncCommand(command, outcome string) {
	CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// StartServer serves /metrics on addr in the background.
func StartServer(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("metrics listener started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics listener stopped", zap.Error(err))
		}
	}()
	return srv
}
