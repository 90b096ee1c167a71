package plant

import (
	"time"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
)

// GrowRequest is the body of POST /api/plant/grow. Older clients send the
// species as flowerId.
type GrowRequest struct {
	SpeciesID *int `json:"speciesId,omitempty"`
	FlowerID  *int `json:"flowerId,omitempty"`
}

// Requested returns the species the client asked for, 0 when none
func (r GrowRequest) Requested() int {
	switch {
	case r.SpeciesID != nil:
		return *r.SpeciesID
	case r.FlowerID != nil:
		return *r.FlowerID
	default:
		return 0
	}
}

// PlantView is the plant snapshot returned to clients and broadcast as
// plant:update
type PlantView struct {
	SpeciesID   int        `json:"species_id"`
	PlantType   string     `json:"plant_type"`
	GrowthStage int        `json:"growth_stage"`
	MaxGrowth   int        `json:"max_growth"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Flower      Species    `json:"flower"`
}

// GrowResult is the outcome of one growth step
type GrowResult struct {
	PlantView
	IsFullyGrown bool `json:"is_fully_grown"`
	IsNew        bool `json:"isNew"`
}

// CollectionEntry is one unlocked species
type CollectionEntry struct {
	Species
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Collection lists the species a user has unlocked
type Collection struct {
	Plants         []CollectionEntry `json:"plants"`
	TotalAvailable int               `json:"total_available"`
	UnlockedCount  int               `json:"unlocked_count"`
}

func newPlantView(state *models.PlantState, species Species) PlantView {
	updated := state.UpdatedAt
	v := PlantView{
		SpeciesID:   species.ID,
		PlantType:   species.Name,
		GrowthStage: state.GrowthStage,
		MaxGrowth:   models.MaxGrowthStage,
		Flower:      species,
	}
	if !updated.IsZero() {
		v.LastUpdated = &updated
	}
	return v
}
