// Standalone realtime fan-out service: runs the hub on its own port and
// feeds it from NATS, for deployments that separate event delivery from the
// CRUD API.
package main

import (
	"api/internal/realtime"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	cfg := realtime.LoadConfig()

	hub := realtime.NewHub(logger)
	go hub.Run()

	bridge, err := realtime.NewNATSBridge(cfg.NatsURL, hub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("NATS bridge")
	}
	defer bridge.Close()

	if err := bridge.Subscribe(); err != nil {
		logger.Fatal().Err(err).Msg("NATS subscribe")
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, logger, w, r)
	})

	logger.Info().Str("port", cfg.RealtimePort).Msg("Realtime service listening")
	if err := http.ListenAndServe(cfg.RealtimePort, nil); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}
