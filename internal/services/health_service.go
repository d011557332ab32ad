package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/sater-ops/df-agent/internal/models"
	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/pkg/mqtt"
)

// HealthService periodically publishes the agent's system load and a
// per-mission engine summary, so the operations center can tell a silent
// mission from a dead field laptop.
type HealthService struct {
	// Configuration fields
	topic    string
	qos      int
	interval time.Duration
	agentID  string

	// Dependencies
	sessions   *session.Manager
	mqttClient mqtt.MQTTClient
	logger     zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewHealthService creates a new HealthService instance with the provided configuration.
func NewHealthService(topic string, qos int, interval time.Duration, agentID string,
	sessions *session.Manager, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *HealthService {
	return &HealthService{
		topic:      topic,
		qos:        qos,
		interval:   interval,
		agentID:    agentID,
		sessions:   sessions,
		mqttClient: mqttClient,
		logger:     logger,
	}
}

// Start launches the health publishing loop.
func (h *HealthService) Start() error {
	if h.running {
		h.logger.Warn().Msg("HealthService is already running")
		return errors.New("health service is already running")
	}

	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.running = true

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := h.publishHealth(); err != nil {
					h.logger.Error().Err(err).Msg("Failed to publish health message")
				}
			case <-h.ctx.Done():
				h.logger.Info().Msg("HealthService is stopping")
				return
			}
		}
	}()

	h.logger.Info().Str("topic", h.topic).Dur("interval", h.interval).Msg("HealthService started")
	return nil
}

// Stop gracefully stops the health loop.
func (h *HealthService) Stop() error {
	if !h.running {
		h.logger.Warn().Msg("HealthService is not running")
		return errors.New("health service is not running")
	}

	h.cancel()
	h.wg.Wait()
	h.running = false

	h.logger.Info().Msg("HealthService stopped")
	return nil
}

// publishHealth collects system and engine stats and publishes them.
func (h *HealthService) publishHealth() error {
	health := models.AgentHealth{
		AgentID:   h.agentID,
		Timestamp: time.Now(),
	}

	if cpuPercentages, err := cpu.Percent(0, false); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to get CPU usage")
	} else if len(cpuPercentages) > 0 {
		health.CPUPercent = cpuPercentages[0]
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to get memory usage")
	} else {
		health.MemoryPercent = vm.UsedPercent
	}

	for _, sess := range h.sessions.Sessions() {
		health.Missions = append(health.Missions, models.MissionHealth{
			MissionID:   sess.ID(),
			Stations:    sess.StationCount(),
			FixQuality:  string(sess.CurrentFix().Quality),
			ZoneAreaKm2: sess.CurrentSearchZone().AreaKm2,
		})
	}
	sort.Slice(health.Missions, func(i, j int) bool {
		return health.Missions[i].MissionID < health.Missions[j].MissionID
	})

	payload, err := json.Marshal(health)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to serialize health message")
		return err
	}

	if err := h.mqttClient.Publish(h.topic, byte(h.qos), false, payload); err != nil {
		h.logger.Error().Err(err).Str("topic", h.topic).Msg("Failed to publish health message")
		return err
	}

	h.logger.Debug().Int("missions", len(health.Missions)).Msg("Health published")
	return nil
}
