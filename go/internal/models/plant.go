package models

import "time"

const (
	// MaxGrowthStage is the stage at which a plant is fully grown and unlocked
	MaxGrowthStage = 4
)

// PlantState is the plant a user is currently growing. One row per user.
type PlantState struct {
	UserID      int64     `json:"-"`
	SpeciesID   int       `json:"species_id"`
	GrowthStage int       `json:"growth_stage"`
	UpdatedAt   time.Time `json:"last_updated"`
}

// IsFullyGrown reports whether the plant reached the final stage
func (p PlantState) IsFullyGrown() bool {
	return p.GrowthStage >= MaxGrowthStage
}

// UnlockedPlant records a species a user has fully grown at least once
type UnlockedPlant struct {
	UserID     int64     `json:"-"`
	SpeciesID  int       `json:"species_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// TimerSnapshot is the last timer state relayed for a user
type TimerSnapshot struct {
	UserID    int64     `json:"-"`
	Version   uint64    `json:"version"`
	Payload   []byte    `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
