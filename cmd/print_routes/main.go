package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vikasavnish/tradedesk/internal/api"
	"github.com/vikasavnish/tradedesk/internal/brokerage"
	"github.com/vikasavnish/tradedesk/internal/config"
	"github.com/vikasavnish/tradedesk/internal/metrics"
)

// Prints the route table of the server without opening any connection.
func main() {
	cfg := config.Load()
	m := metrics.New()
	market := brokerage.NewClient(cfg.Brokerage, nil, m, zerolog.Nop())

	router := api.SetupRouter(nil, market, m, cfg, zerolog.Nop())
	if err := api.PrintRoutes(os.Stdout, router); err != nil {
		log.Fatal().Err(err).Msg("Failed to walk routes")
	}
}
