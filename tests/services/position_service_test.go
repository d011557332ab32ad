package services

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sater-ops/df-agent/internal/services"
	"github.com/sater-ops/df-agent/internal/session"
	"github.com/sater-ops/df-agent/pkg/gps"
	"github.com/sater-ops/df-agent/tests/mocks"
)

// TestOperatorPositionService_StartStop tests the service lifecycle guards.
func TestOperatorPositionService_StartStop(t *testing.T) {
	mockSource := new(mocks.MockGPSSource)
	logger := zerolog.Nop()
	sessions := session.NewManager(session.Config{}, logger)

	mockSource.On("Close").Return(nil)

	svc := services.NewOperatorPositionService("OP1", "m1", time.Hour, sessions, mockSource, logger)

	err := svc.Start()
	assert.NoError(t, err)

	// Try to start again (should fail)
	err = svc.Start()
	assert.Error(t, err)
	assert.Equal(t, "operator position service is already running", err.Error())

	err = svc.Stop()
	assert.NoError(t, err)

	// Try to stop again (should fail)
	err = svc.Stop()
	assert.Error(t, err)
	assert.Equal(t, "operator position service is not running", err.Error())

	mockSource.AssertExpectations(t)
}

// TestOperatorPositionService_UpdatesStation tests that GPS reads move the
// operator's station in the mission session.
func TestOperatorPositionService_UpdatesStation(t *testing.T) {
	mockSource := new(mocks.MockGPSSource)
	logger := zerolog.Nop()
	sessions := session.NewManager(session.Config{}, logger)

	mockSource.On("GetPosition").Return(gps.Position{Latitude: 48.85, Longitude: 2.35, HDOP: 1.2}, nil)
	mockSource.On("Close").Return(nil)

	svc := services.NewOperatorPositionService("OP1", "m1", 100*time.Millisecond, sessions, mockSource, logger)
	assert.NoError(t, svc.Start())

	time.Sleep(150 * time.Millisecond)

	assert.NoError(t, svc.Stop())

	sess, ok := sessions.Get("m1")
	assert.True(t, ok)

	st, ok := sess.Station("OP1")
	assert.True(t, ok)
	assert.InDelta(t, 48.85, st.Position.Lat, 1e-9)
	assert.InDelta(t, 2.35, st.Position.Lon, 1e-9)
	assert.False(t, st.AzimuthSet)

	mockSource.AssertExpectations(t)
}

// TestOperatorPositionService_ReadError tests that a failing GPS read keeps
// the loop alive and the session untouched.
func TestOperatorPositionService_ReadError(t *testing.T) {
	mockSource := new(mocks.MockGPSSource)
	logger := zerolog.Nop()
	sessions := session.NewManager(session.Config{}, logger)

	mockSource.On("GetPosition").Return(gps.Position{}, errors.New("no fix"))
	mockSource.On("Close").Return(nil)

	svc := services.NewOperatorPositionService("OP1", "m1", 100*time.Millisecond, sessions, mockSource, logger)
	assert.NoError(t, svc.Start())

	time.Sleep(150 * time.Millisecond)

	assert.NoError(t, svc.Stop())

	_, ok := sessions.Get("m1")
	assert.False(t, ok)

	mockSource.AssertExpectations(t)
}
