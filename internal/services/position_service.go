package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/pkg/gps"
)

// OperatorPositionService keeps the operator's own station position current
// in the mission session, reading it from a GPS receiver. The station stays
// inert (no bearing line) until the operator reports a bearing like any
// other team.
type OperatorPositionService struct {
	// Configuration fields
	callsign string
	mission  string
	interval time.Duration

	// Dependencies
	sessions *session.Manager
	source   gps.Source
	logger   zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewOperatorPositionService creates a new OperatorPositionService instance with the provided configuration.
func NewOperatorPositionService(callsign, mission string, interval time.Duration, sessions *session.Manager,
	source gps.Source, logger zerolog.Logger) *OperatorPositionService {
	return &OperatorPositionService{
		callsign: callsign,
		mission:  mission,
		interval: interval,
		sessions: sessions,
		source:   source,
		logger:   logger,
	}
}

// Start launches the periodic GPS read loop.
func (o *OperatorPositionService) Start() error {
	if o.running {
		o.logger.Warn().Msg("OperatorPositionService is already running")
		return errors.New("operator position service is already running")
	}

	o.ctx, o.cancel = context.WithCancel(context.Background())
	o.running = true

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := o.updatePosition(); err != nil {
					o.logger.Error().Err(err).Msg("Failed to update operator position")
				}
			case <-o.ctx.Done():
				o.logger.Info().Msg("OperatorPositionService is stopping")
				return
			}
		}
	}()

	o.logger.Info().
		Str("callsign", o.callsign).
		Dur("interval", o.interval).
		Msg("OperatorPositionService started")
	return nil
}

// Stop gracefully stops the service and closes the GPS source.
func (o *OperatorPositionService) Stop() error {
	if !o.running {
		o.logger.Warn().Msg("OperatorPositionService is not running")
		return errors.New("operator position service is not running")
	}

	o.cancel()
	o.wg.Wait()

	if err := o.source.Close(); err != nil {
		o.logger.Error().Err(err).Msg("Failed to close GPS source")
		return err
	}

	o.running = false
	o.logger.Info().Msg("OperatorPositionService stopped")
	return nil
}

// updatePosition reads the GPS once and moves the operator's station.
func (o *OperatorPositionService) updatePosition() error {
	pos, err := o.source.GetPosition()
	if err != nil {
		return err
	}

	sess := o.sessions.GetOrCreate(o.mission)
	if err := sess.SetStationPosition(o.callsign, pos.Latitude, pos.Longitude); err != nil {
		return err
	}

	o.logger.Debug().
		Float64("lat", pos.Latitude).
		Float64("lon", pos.Longitude).
		Float64("hdop", pos.HDOP).
		Msg("Operator position updated")
	return nil
}
