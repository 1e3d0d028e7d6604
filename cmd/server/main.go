// Command server runs the CaseDeck slide generation API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/casedeck/casedeck/internal/api"
	"github.com/casedeck/casedeck/internal/config"
	"github.com/casedeck/casedeck/internal/deckcache"
	"github.com/casedeck/casedeck/internal/gateway"
	"github.com/casedeck/casedeck/internal/generator"
	"github.com/casedeck/casedeck/internal/kvstore"
	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/templates"
	"github.com/casedeck/casedeck/internal/validator"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	generateConfig := flag.Bool("generate-config", false, "write a sample configuration file and exit")
	flag.Parse()

	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write sample config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	store, err := kvstore.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache store")
	}
	defer store.Close()

	clock := models.SystemClock{}

	gw, err := gateway.New(&cfg.LLM, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure AI gateway")
	}

	cache := deckcache.New(store, clock)
	registry := templates.NewRegistry()
	gen := generator.New(gw, cache, validator.New(), registry, clock)

	router := api.NewRouter(cfg, gen, cache, registry)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown was not clean")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
