package db

import (
	"context"
)

const getPlantState = `-- name: GetPlantState :one
SELECT user_id, species_id, growth_stage, updated_at
FROM plant_states
WHERE user_id = $1
`

func (q *Queries) GetPlantState(ctx context.Context, userID int64) (PlantState, error) {
	row := q.db.QueryRowContext(ctx, getPlantState, userID)
	var i PlantState
	err := row.Scan(
		&i.UserID,
		&i.SpeciesID,
		&i.GrowthStage,
		&i.UpdatedAt,
	)
	return i, err
}

const createPlantState = `-- name: CreatePlantState :one
INSERT INTO plant_states (user_id, species_id, growth_stage, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id) DO NOTHING
RETURNING user_id, species_id, growth_stage, updated_at
`

type CreatePlantStateParams struct {
	UserID      int64
	SpeciesID   int32
	GrowthStage int32
}

// CreatePlantState returns sql.ErrNoRows when the user already has a plant
func (q *Queries) CreatePlantState(ctx context.Context, arg CreatePlantStateParams) (PlantState, error) {
	row := q.db.QueryRowContext(ctx, createPlantState, arg.UserID, arg.SpeciesID, arg.GrowthStage)
	var i PlantState
	err := row.Scan(
		&i.UserID,
		&i.SpeciesID,
		&i.GrowthStage,
		&i.UpdatedAt,
	)
	return i, err
}

const resetPlantState = `-- name: ResetPlantState :one
INSERT INTO plant_states (user_id, species_id, growth_stage, updated_at)
VALUES ($1, $2, 0, now())
ON CONFLICT (user_id) DO UPDATE SET
    species_id = EXCLUDED.species_id,
    growth_stage = 0,
    updated_at = now()
RETURNING user_id, species_id, growth_stage, updated_at
`

type ResetPlantStateParams struct {
	UserID    int64
	SpeciesID int32
}

func (q *Queries) ResetPlantState(ctx context.Context, arg ResetPlantStateParams) (PlantState, error) {
	row := q.db.QueryRowContext(ctx, resetPlantState, arg.UserID, arg.SpeciesID)
	var i PlantState
	err := row.Scan(
		&i.UserID,
		&i.SpeciesID,
		&i.GrowthStage,
		&i.UpdatedAt,
	)
	return i, err
}

const incrementGrowthStage = `-- name: IncrementGrowthStage :one
UPDATE plant_states
SET growth_stage = LEAST(growth_stage + 1, $2::integer),
    updated_at = now()
WHERE user_id = $1
RETURNING user_id, species_id, growth_stage, updated_at
`

type IncrementGrowthStageParams struct {
	UserID   int64
	MaxStage int32
}

func (q *Queries) IncrementGrowthStage(ctx context.Context, arg IncrementGrowthStageParams) (PlantState, error) {
	row := q.db.QueryRowContext(ctx, incrementGrowthStage, arg.UserID, arg.MaxStage)
	var i PlantState
	err := row.Scan(
		&i.UserID,
		&i.SpeciesID,
		&i.GrowthStage,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteFullyGrownPlant = `-- name: DeleteFullyGrownPlant :execrows
DELETE FROM plant_states
WHERE user_id = $1 AND species_id = $2 AND growth_stage >= $3
`

type DeleteFullyGrownPlantParams struct {
	UserID    int64
	SpeciesID int32
	MinStage  int32
}

func (q *Queries) DeleteFullyGrownPlant(ctx context.Context, arg DeleteFullyGrownPlantParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFullyGrownPlant, arg.UserID, arg.SpeciesID, arg.MinStage)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
