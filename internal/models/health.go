package models

import "time"

// MissionHealth summarizes one mission's engine state for the health feed.
type MissionHealth struct {
	MissionID   string  `json:"mission_id"`
	Stations    int     `json:"stations"`
	FixQuality  string  `json:"fix_quality"`
	ZoneAreaKm2 float64 `json:"zone_area_km2"`
}

// AgentHealth is the periodic health message the agent publishes so the
// operations center can see that a field laptop is alive and keeping up.
type AgentHealth struct {
	AgentID       string          `json:"agent_id"`
	Timestamp     time.Time       `json:"timestamp"`
	CPUPercent    float64         `json:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent"`
	Missions      []MissionHealth `json:"missions"`
}
