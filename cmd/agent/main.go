package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/internal/service_registry"
	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/internal/utils"
	"github.com/sater-ops/df-agent/pkg/file"
	"github.com/sater-ops/df-agent/pkg/mqtt"
	"github.com/sater-ops/df-agent/pkg/presets"
)

func main() {
	// Set up structured logging with JSON output
	logger := zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
	zerolog.TimeFieldFormat = time.RFC3339

	// Initialize file operations handler
	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig("configs/config.yaml", fileClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Generate a unique MQTT Client ID by appending a UUID
	config.MQTT.ClientID = config.MQTT.ClientID + "-" + uuid.New().String()
	logger.Info().Str("client_id", config.MQTT.ClientID).Msg("Using MQTT Client ID")

	// Initialize the shared MQTT connection
	mqttClient := mqtt.NewMqttService(logger)
	if err := mqttClient.Initialize(config.MQTT.Broker, config.MQTT.ClientID, config.MQTT.CACertificate, fileClient); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
	}

	// Load the station preset book
	presetRepo := presets.NewStore(config.Agent.PresetsFile, fileClient)
	if err := presetRepo.Load(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load station presets")
	}

	// Initialize the mission session manager with engine tuning
	sessions := session.NewManager(session.Config{
		RayLengthKm:       config.Engine.RayLengthKm,
		ConeHalfAngleDeg:  config.Engine.ConeHalfAngleDeg,
		ExactSeparationKm: config.Engine.ExactSeparationKm,
		ParallelWarnDeg:   config.Engine.ParallelWarnDeg,
	}, logger)

	// Create a new service registry to manage services
	registry := service_registry.NewServiceRegistry(mqttClient, sessions, presetRepo, logger)

	// Register all services based on the configuration
	if err := registry.RegisterServices(config); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register services")
	}

	// Start all registered services in the registry
	if err := registry.StartServices(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start services")
	}
	logger.Info().Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	logger.Info().Msg("Shutting down gracefully...")
	if err := registry.StopServices(); err != nil {
		logger.Error().Err(err).Msg("Errors while stopping services")
	}
	mqttClient.Disconnect(250)
}
