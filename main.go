package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/VoteCompass/VC-Backend/internal/analysis"
	"github.com/VoteCompass/VC-Backend/internal/compass"
	"github.com/VoteCompass/VC-Backend/internal/config"
	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/middleware"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/statistics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db.Connect()

	parliament.Init()
	compass.Init()

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMin, cfg.SubmitBurst)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.MetricsMiddleware)
	r.Get("/", RootHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/motions", parliament.SetupRoutes())
	r.Mount("/compass", compass.SetupRoutes(submitLimiter))
	r.Mount("/statistics", statistics.SetupRoutes())
	r.Mount("/analysis", analysis.SetupRoutes())

	fmt.Println("Server listening on port :" + cfg.Port + "...")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
