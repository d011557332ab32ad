package session

import (
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// Manager tracks the active mission sessions of one agent. Sessions are
// created lazily the first time a mission ID is referenced, so bearing
// reports for a new mission need no registration step.
type Manager struct {
	sessions cmap.ConcurrentMap[string, *MissionSession]
	cfg      Config
	logger   zerolog.Logger

	// changes receives the mission ID after every engine change. Sends
	// never block; a slow consumer just coalesces notifications.
	changes chan string
}

// NewManager creates a session manager with the given engine configuration.
func NewManager(cfg Config, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: cmap.New[*MissionSession](),
		cfg:      cfg,
		logger:   logger,
		changes:  make(chan string, 64),
	}
}

// GetOrCreate returns the session for a mission ID, creating it on first
// use. An empty ID gets a generated one.
func (mgr *Manager) GetOrCreate(missionID string) *MissionSession {
	if missionID != "" {
		if s, ok := mgr.sessions.Get(missionID); ok {
			return s
		}
	}

	s := New(missionID, mgr.cfg, mgr.logger)
	s.setNotify(mgr.notifyChange)

	// SetIfAbsent loses the race gracefully: whoever stored first wins.
	if !mgr.sessions.SetIfAbsent(s.ID(), s) {
		if existing, ok := mgr.sessions.Get(s.ID()); ok {
			return existing
		}
	}

	mgr.logger.Info().Str("mission_id", s.ID()).Msg("Mission session created")
	return s
}

// Get returns the session for a mission ID if it exists.
func (mgr *Manager) Get(missionID string) (*MissionSession, bool) {
	return mgr.sessions.Get(missionID)
}

// End removes a mission session.
func (mgr *Manager) End(missionID string) {
	mgr.sessions.Remove(missionID)
	mgr.logger.Info().Str("mission_id", missionID).Msg("Mission session ended")
}

// Sessions returns all active sessions.
func (mgr *Manager) Sessions() []*MissionSession {
	out := make([]*MissionSession, 0, mgr.sessions.Count())
	for _, s := range mgr.sessions.Items() {
		out = append(out, s)
	}
	return out
}

// Changes returns the channel carrying mission IDs whose engine state
// changed.
func (mgr *Manager) Changes() <-chan string {
	return mgr.changes
}

func (mgr *Manager) notifyChange(missionID string) {
	select {
	case mgr.changes <- missionID:
	default:
	}
}
