package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/sater-ops/df-agent/pkg/gps"
)

// MockGPSSource is a mock implementation of the gps.Source interface
type MockGPSSource struct {
	mock.Mock
}

func (m *MockGPSSource) GetPosition() (gps.Position, error) {
	args := m.Called()
	return args.Get(0).(gps.Position), args.Error(1)
}

func (m *MockGPSSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
