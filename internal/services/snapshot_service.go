package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/pkg/geocode"
	"github.com/sater-ops/df-agent/pkg/geodesy"
	"github.com/sater-ops/df-agent/pkg/mqtt"
)

// geocodeRefreshKm is how far the fix must move before the locality
// annotation is looked up again.
const geocodeRefreshKm = 1.0

// SnapshotService publishes the exportable mission snapshot over MQTT:
// immediately after every engine change and on a slow heartbeat so late
// joiners catch up. Export collaborators (KML/JSON/PDF writers) consume
// these snapshots without re-deriving any geometry.
type SnapshotService struct {
	// Configuration fields
	baseTopic string
	qos       int
	interval  time.Duration

	// Dependencies
	sessions   *session.Manager
	geocoder   geocode.Geocoder // nil disables locality annotation
	mqttClient mqtt.MQTTClient
	logger     zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	lastGeocodePos map[string]geodesy.Point
	lastLocality   map[string]string
}

// NewSnapshotService creates a new SnapshotService instance with the provided configuration.
func NewSnapshotService(baseTopic string, qos int, interval time.Duration, sessions *session.Manager,
	geocoder geocode.Geocoder, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		baseTopic:      baseTopic,
		qos:            qos,
		interval:       interval,
		sessions:       sessions,
		geocoder:       geocoder,
		mqttClient:     mqttClient,
		logger:         logger,
		lastGeocodePos: make(map[string]geodesy.Point),
		lastLocality:   make(map[string]string),
	}
}

// Start launches the snapshot publishing loop.
func (s *SnapshotService) Start() error {
	if s.running {
		s.logger.Warn().Msg("SnapshotService is already running")
		return errors.New("snapshot service is already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop()
	}()

	s.logger.Info().
		Str("base_topic", s.baseTopic).
		Dur("interval", s.interval).
		Msg("SnapshotService started")
	return nil
}

// Stop gracefully stops the snapshot loop.
func (s *SnapshotService) Stop() error {
	if !s.running {
		s.logger.Warn().Msg("SnapshotService is not running")
		return errors.New("snapshot service is not running")
	}

	s.cancel()
	s.wg.Wait()
	s.running = false

	s.logger.Info().Msg("SnapshotService stopped")
	return nil
}

func (s *SnapshotService) runLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case missionID := <-s.sessions.Changes():
			if sess, ok := s.sessions.Get(missionID); ok {
				s.publish(sess)
			}
		case <-ticker.C:
			for _, sess := range s.sessions.Sessions() {
				s.publish(sess)
			}
		case <-s.ctx.Done():
			s.logger.Info().Msg("SnapshotService is stopping")
			return
		}
	}
}

// publish serializes one mission snapshot and sends it to the mission's
// snapshot topic.
func (s *SnapshotService) publish(sess *session.MissionSession) {
	snap := sess.Snapshot()
	snap.Beacon.Locality = s.locality(snap)

	payload, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error().Err(err).Str("mission_id", snap.MissionID).Msg("Failed to serialize snapshot")
		return
	}

	topic := s.baseTopic + "/" + snap.MissionID
	if err := s.mqttClient.Publish(topic, byte(s.qos), true, payload); err != nil {
		s.logger.Error().Err(err).Str("topic", topic).Msg("Failed to publish snapshot")
		return
	}

	s.logger.Debug().
		Str("mission_id", snap.MissionID).
		Str("fix_quality", string(snap.Fix.Quality)).
		Float64("zone_area_km2", snap.SearchZone.AreaKm2).
		Msg("Snapshot published")
}

// locality reverse-geocodes the beacon position, reusing the cached result
// until the position has moved materially.
func (s *SnapshotService) locality(snap session.Snapshot) string {
	if s.geocoder == nil || !snap.Beacon.Placed {
		return ""
	}

	if last, ok := s.lastGeocodePos[snap.MissionID]; ok {
		if geodesy.Distance(last, snap.Beacon.Position) < geocodeRefreshKm {
			return s.lastLocality[snap.MissionID]
		}
	}

	locality, err := s.geocoder.ReverseGeocode(s.ctx, snap.Beacon.Position.Lat, snap.Beacon.Position.Lon)
	if err != nil {
		s.logger.Warn().Err(err).Str("mission_id", snap.MissionID).Msg("Reverse geocoding failed")
		return s.lastLocality[snap.MissionID]
	}

	s.lastGeocodePos[snap.MissionID] = snap.Beacon.Position
	s.lastLocality[snap.MissionID] = locality
	return locality
}
