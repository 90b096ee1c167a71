package pomodoro_client

import (
	"encoding/json"
	"time"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

type Flower struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Center string `json:"center"`
}

type Plant struct {
	SpeciesID   int        `json:"species_id"`
	PlantType   string     `json:"plant_type"`
	GrowthStage int        `json:"growth_stage"`
	MaxGrowth   int        `json:"max_growth"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Flower      Flower     `json:"flower"`
}

type GrowResult struct {
	Plant
	IsFullyGrown bool `json:"is_fully_grown"`
	IsNew        bool `json:"isNew"`
}

type CollectionEntry struct {
	Flower
	UnlockedAt time.Time `json:"unlocked_at"`
}

type Collection struct {
	Plants         []CollectionEntry `json:"plants"`
	TotalAvailable int               `json:"total_available"`
	UnlockedCount  int               `json:"unlocked_count"`
}

type Settings struct {
	Study                  int    `json:"study"`
	ShortBreak             int    `json:"short_break"`
	LongBreak              int    `json:"long_break"`
	SessionsUntilLongBreak int    `json:"sessions_until_long_break"`
	User                   string `json:"user"`
}

type Session struct {
	SessionID       int64      `json:"session_id"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	SessionType     string     `json:"session_type"`
}

type Stats struct {
	TotalSessions   int     `json:"total_sessions"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
	LastSessionDate *string `json:"last_session_date"`
}

type TimerState struct {
	Version   uint64          `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	State     json.RawMessage `json:"state"`
}
