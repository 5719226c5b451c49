package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vikasavnish/tradedesk/internal/brokerage"
	"github.com/vikasavnish/tradedesk/internal/config"
	"github.com/vikasavnish/tradedesk/internal/handlers"
	"github.com/vikasavnish/tradedesk/internal/metrics"
	"github.com/vikasavnish/tradedesk/internal/middleware"
	"github.com/vikasavnish/tradedesk/internal/services"
)

// SetupRouter configures all routes and returns the router
func SetupRouter(
	db *gorm.DB,
	market *brokerage.Client,
	m *metrics.Metrics,
	cfg *config.Config,
	log zerolog.Logger,
) *mux.Router {
	// Create a new router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log, m))

	router.Handle("/metrics", m.Handler()).Methods("GET")

	// Create services
	watchlistService := services.NewWatchlistService(db, market, m, log)
	journalService := services.NewJournalService(db)
	lessonService := services.NewLessonService(db)
	reasoningService := services.NewReasoningService(db)

	// Create handlers using services
	brokerageHandler := handlers.NewBrokerageHandler(market)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
	journalHandler := handlers.NewJournalHandler(journalService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	reasoningHandler := handlers.NewReasoningHandler(reasoningService)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", HealthHandler(db)).Methods("GET")

	// Reads are public; every mutating route sits behind the write gate.
	readRouter := apiRouter.PathPrefix("").Subrouter()
	writeRouter := apiRouter.PathPrefix("").Subrouter()
	writeRouter.Use(middleware.WriteGate(cfg.Auth.APISecret))

	// Register routes
	brokerageHandler.RegisterRoutes(readRouter)
	watchlistHandler.RegisterRoutes(readRouter, writeRouter)
	journalHandler.RegisterRoutes(readRouter, writeRouter)
	lessonHandler.RegisterRoutes(readRouter, writeRouter)
	reasoningHandler.RegisterRoutes(readRouter, writeRouter)

	if cfg.Server.StaticDir != "" {
		router.PathPrefix("/").Handler(spaHandler(cfg.Server.StaticDir))
	}

	return router
}

// spaHandler serves files from dir and falls back to index.html so client
// side routes resolve.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// For API requests, let the router handle them
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
