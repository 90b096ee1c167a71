package plant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/plant/db"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/sqlutil"
)

const notFoundMsg = "Plant not found"

// Repository implements plant data access on Postgres
type Repository struct {
	conn    *sql.DB
	queries *db.Queries
}

// NewRepository creates a new plant repository
func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		conn:    conn,
		queries: db.New(conn),
	}
}

// GetPlantState returns the plant the user is growing
func (r *Repository) GetPlantState(ctx context.Context, userID int64) (*models.PlantState, error) {
	row, err := r.queries.GetPlantState(ctx, userID)
	if err != nil {
		return nil, sqlutil.Classify("get plant state", err, notFoundMsg)
	}
	return dbPlantToModel(row), nil
}

// CreatePlantState inserts a plant unless the user already has one. The
// boolean reports whether this call created the row.
func (r *Repository) CreatePlantState(ctx context.Context, userID int64, speciesID, stage int) (*models.PlantState, bool, error) {
	row, err := r.queries.CreatePlantState(ctx, db.CreatePlantStateParams{
		UserID:      userID,
		SpeciesID:   int32(speciesID),
		GrowthStage: int32(stage),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, sqlutil.Classify("create plant state", err, notFoundMsg)
	}
	return dbPlantToModel(row), true, nil
}

// ResetPlantState replaces the user's plant with a stage 0 one
func (r *Repository) ResetPlantState(ctx context.Context, userID int64, speciesID int) (*models.PlantState, error) {
	row, err := r.queries.ResetPlantState(ctx, db.ResetPlantStateParams{
		UserID:    userID,
		SpeciesID: int32(speciesID),
	})
	if err != nil {
		return nil, sqlutil.Classify("reset plant state", err, notFoundMsg)
	}
	return dbPlantToModel(row), nil
}

// IncrementGrowth raises the growth stage by one, capped at the final stage,
// in a single statement
func (r *Repository) IncrementGrowth(ctx context.Context, userID int64) (*models.PlantState, error) {
	row, err := r.queries.IncrementGrowthStage(ctx, db.IncrementGrowthStageParams{
		UserID:   userID,
		MaxStage: models.MaxGrowthStage,
	})
	if err != nil {
		return nil, sqlutil.Classify("increment growth", err, notFoundMsg)
	}
	return dbPlantToModel(row), nil
}

// CompleteCycle unlocks the species and removes the fully grown plant in one
// transaction. It reports whether the unlock is new for the user.
func (r *Repository) CompleteCycle(ctx context.Context, userID int64, speciesID int) (bool, error) {
	var isNew bool
	err := sqlutil.Run(ctx, r.conn, r.queries.WithTx, func(q *db.Queries) error {
		inserted, err := q.UnlockPlant(ctx, db.UnlockPlantParams{
			UserID:    userID,
			SpeciesID: int32(speciesID),
		})
		if err != nil {
			return fmt.Errorf("failed to unlock plant: %w", err)
		}
		isNew = inserted > 0

		if _, err := q.DeleteFullyGrownPlant(ctx, db.DeleteFullyGrownPlantParams{
			UserID:    userID,
			SpeciesID: int32(speciesID),
			MinStage:  models.MaxGrowthStage,
		}); err != nil {
			return fmt.Errorf("failed to delete plant state: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, apperr.Transient("complete cycle", err)
	}
	return isNew, nil
}

// ListUnlocked returns the user's unlocked species ordered by id
func (r *Repository) ListUnlocked(ctx context.Context, userID int64) ([]models.UnlockedPlant, error) {
	rows, err := r.queries.ListUnlockedPlants(ctx, userID)
	if err != nil {
		return nil, apperr.Transient("list unlocked plants", err)
	}

	out := make([]models.UnlockedPlant, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.UnlockedPlant{
			UserID:     row.UserID,
			SpeciesID:  int(row.SpeciesID),
			UnlockedAt: row.UnlockedAt,
		})
	}
	return out, nil
}

// dbPlantToModel converts a database row to the domain model
func dbPlantToModel(row db.PlantState) *models.PlantState {
	return &models.PlantState{
		UserID:      row.UserID,
		SpeciesID:   int(row.SpeciesID),
		GrowthStage: int(row.GrowthStage),
		UpdatedAt:   row.UpdatedAt,
	}
}
