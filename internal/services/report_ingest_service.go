package services

import (
	"encoding/json"
	"errors"

	mqttLib "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/internal/models"
	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/pkg/geodesy"
	"github.com/sater-ops/df-agent/pkg/mqtt"
	"github.com/sater-ops/df-agent/pkg/presets"
)

// ReportIngestService feeds bearing reports from field teams into the
// triangulation engine. Every accepted report runs the full recompute
// cascade; malformed or invalid reports are logged and dropped with the
// registry untouched.
type ReportIngestService struct {
	// Configuration fields
	topic          string
	qos            int
	defaultMission string

	// Dependencies
	sessions   *session.Manager
	presetRepo *presets.Store
	mqttClient mqtt.MQTTClient
	logger     zerolog.Logger

	// Internal state management
	running bool
}

// NewReportIngestService creates a new ReportIngestService instance with the provided configuration.
func NewReportIngestService(topic string, qos int, defaultMission string, sessions *session.Manager,
	presetRepo *presets.Store, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *ReportIngestService {
	return &ReportIngestService{
		topic:          topic,
		qos:            qos,
		defaultMission: defaultMission,
		sessions:       sessions,
		presetRepo:     presetRepo,
		mqttClient:     mqttClient,
		logger:         logger,
	}
}

// Start subscribes to the bearing report topic.
func (r *ReportIngestService) Start() error {
	if r.running {
		r.logger.Warn().Msg("ReportIngestService is already running")
		return errors.New("report ingest service is already running")
	}

	if err := r.mqttClient.Subscribe(r.topic, byte(r.qos), r.handleMessage); err != nil {
		r.logger.Error().Err(err).Str("topic", r.topic).Msg("Failed to subscribe to report topic")
		return err
	}

	r.running = true
	r.logger.Info().Str("topic", r.topic).Msg("ReportIngestService started")
	return nil
}

// Stop unsubscribes from the bearing report topic.
func (r *ReportIngestService) Stop() error {
	if !r.running {
		r.logger.Warn().Msg("ReportIngestService is not running")
		return errors.New("report ingest service is not running")
	}

	if err := r.mqttClient.Unsubscribe(r.topic); err != nil {
		r.logger.Error().Err(err).Msg("Failed to unsubscribe from report topic")
		return err
	}

	r.running = false
	r.logger.Info().Msg("ReportIngestService stopped")
	return nil
}

// handleMessage applies one bearing report to its mission session.
func (r *ReportIngestService) handleMessage(_ mqttLib.Client, msg mqttLib.Message) {
	var report models.BearingReport
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		r.logger.Error().Err(err).Str("topic", msg.Topic()).Msg("Failed to parse bearing report")
		return
	}

	missionID := report.MissionID
	if missionID == "" {
		missionID = r.defaultMission
	}
	sess := r.sessions.GetOrCreate(missionID)

	if report.Remove {
		if err := sess.RemoveStation(report.Callsign); err != nil {
			r.logger.Warn().Err(err).Str("callsign", report.Callsign).Msg("Failed to remove station")
			return
		}
		r.logger.Info().Str("callsign", report.Callsign).Str("mission_id", sess.ID()).Msg("Station removed")
		return
	}

	st, err := r.buildStation(sess, report)
	if err != nil {
		r.logger.Warn().Err(err).Str("callsign", report.Callsign).Msg("Dropping bearing report")
		return
	}

	if err := sess.AddStation(st); err != nil {
		r.logger.Warn().Err(err).Str("callsign", report.Callsign).Msg("Bearing report rejected by engine")
		return
	}

	r.logger.Info().
		Str("callsign", report.Callsign).
		Str("mission_id", sess.ID()).
		Bool("has_azimuth", report.HasAzimuth).
		Str("fix_quality", string(sess.CurrentFix().Quality)).
		Msg("Bearing report applied")
}

// buildStation merges the report with the existing station and the preset
// book into a full station record.
func (r *ReportIngestService) buildStation(sess *session.MissionSession, report models.BearingReport) (session.Station, error) {
	existing, exists := sess.Station(report.Callsign)

	st := session.Station{
		Callsign:       report.Callsign,
		UncertaintyDeg: report.UncertaintyDeg,
		Notes:          report.Notes,
		Timestamp:      report.Timestamp,
	}

	switch {
	case report.HasPosition:
		st.Position = geodesy.Point{Lat: report.Latitude, Lon: report.Longitude}
	case exists:
		st.Position = existing.Position
	default:
		preset, ok := r.presetRepo.Lookup(report.Callsign)
		if !ok {
			return session.Station{}, errors.New("report has no position and no preset is known for the callsign")
		}
		st.Position = geodesy.Point{Lat: preset.Lat, Lon: preset.Lon}
		st.Color = preset.Color
		if st.UncertaintyDeg == 0 {
			st.UncertaintyDeg = preset.DefaultUncertainty
		}
	}

	if report.HasAzimuth {
		st.AzimuthDeg = report.AzimuthDeg
		st.AzimuthSet = true
	} else if exists {
		st.AzimuthDeg = existing.AzimuthDeg
		st.AzimuthSet = existing.AzimuthSet
	}

	if report.Signal != "" {
		if !models.IsValidSignal(report.Signal) {
			r.logger.Warn().Str("signal", report.Signal).Str("callsign", report.Callsign).Msg("Unknown signal level, ignoring")
		} else {
			st.Signal = report.Signal
		}
	} else if exists {
		st.Signal = existing.Signal
	}

	if st.Color == "" && exists {
		st.Color = existing.Color
	}

	return st, nil
}
