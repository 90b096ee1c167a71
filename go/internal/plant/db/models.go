package db

import (
	"time"
)

type PlantState struct {
	UserID      int64
	SpeciesID   int32
	GrowthStage int32
	UpdatedAt   time.Time
}

type UnlockedPlant struct {
	UserID     int64
	SpeciesID  int32
	UnlockedAt time.Time
}
