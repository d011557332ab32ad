package service_registry

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/internal/services"
	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/internal/utils"
	"github.com/sater-ops/df-agent/pkg/geocode"
	"github.com/sater-ops/df-agent/pkg/gps"
	"github.com/sater-ops/df-agent/pkg/mqtt"
	"github.com/sater-ops/df-agent/pkg/presets"
)

// Service is the interface for all plug-in services.
type Service interface {
	Start() error
	Stop() error
}

// ServiceRegistry manages the lifecycle of the agent's services.
type ServiceRegistry struct {
	services    map[string]Service // Stores registered services
	serviceKeys []string           // Maintains order of service registration
	mqttClient  mqtt.MQTTClient
	sessions    *session.Manager
	presetRepo  *presets.Store
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies.
func NewServiceRegistry(mqttClient mqtt.MQTTClient, sessions *session.Manager,
	presetRepo *presets.Store, logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services:   make(map[string]Service),
		mqttClient: mqttClient,
		sessions:   sessions,
		presetRepo: presetRepo,
		Logger:     logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return err
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on configuration.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config) error {
	// Ordered service definitions with inline constructors
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func() (Service, error)
	}{
		{
			name:    "report_ingest",
			enabled: config.Services.ReportIngest.Enabled,
			constructor: func() (Service, error) {
				return services.NewReportIngestService(
					config.Services.ReportIngest.Topic,
					config.Services.ReportIngest.QOS,
					config.Agent.DefaultMission,
					sr.sessions,
					sr.presetRepo,
					sr.mqttClient,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "snapshot",
			enabled: config.Services.Snapshot.Enabled,
			constructor: func() (Service, error) {
				var geocoder geocode.Geocoder
				if key := config.Services.Snapshot.MapsAPIKey; key != "" {
					g, err := geocode.NewGoogleGeocoder(key)
					if err != nil {
						return nil, err
					}
					geocoder = g
				}
				return services.NewSnapshotService(
					config.Services.Snapshot.Topic,
					config.Services.Snapshot.QOS,
					config.Services.Snapshot.Interval,
					sr.sessions,
					geocoder,
					sr.mqttClient,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "operator_position",
			enabled: config.Services.OperatorPosition.Enabled,
			constructor: func() (Service, error) {
				source := gps.NewSerialSource(
					config.Services.OperatorPosition.GPSDevicePort,
					config.Services.OperatorPosition.GPSDeviceBaudRate,
				)
				mission := config.Services.OperatorPosition.Mission
				if mission == "" {
					mission = config.Agent.DefaultMission
				}
				return services.NewOperatorPositionService(
					config.Services.OperatorPosition.Callsign,
					mission,
					config.Services.OperatorPosition.Interval,
					sr.sessions,
					source,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "health",
			enabled: config.Services.Health.Enabled,
			constructor: func() (Service, error) {
				return services.NewHealthService(
					config.Services.Health.Topic,
					config.Services.Health.QOS,
					config.Services.Health.Interval,
					config.Agent.ID,
					sr.sessions,
					sr.mqttClient,
					sr.Logger,
				), nil
			},
		},
	}

	for _, svc := range servicesInOrder {
		if !svc.enabled {
			sr.Logger.Info().Msgf("Service %s is disabled", svc.name)
			continue
		}

		instance, err := svc.constructor()
		if err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to construct service: %s", svc.name)
			return err
		}
		sr.RegisterService(svc.name, instance)
	}

	return nil
}
