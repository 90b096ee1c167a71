package db

import (
	"context"
)

const unlockPlant = `-- name: UnlockPlant :execrows
INSERT INTO unlocked_plants (user_id, species_id, unlocked_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id, species_id) DO NOTHING
`

type UnlockPlantParams struct {
	UserID    int64
	SpeciesID int32
}

func (q *Queries) UnlockPlant(ctx context.Context, arg UnlockPlantParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, unlockPlant, arg.UserID, arg.SpeciesID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listUnlockedPlants = `-- name: ListUnlockedPlants :many
SELECT user_id, species_id, unlocked_at
FROM unlocked_plants
WHERE user_id = $1
ORDER BY species_id
`

func (q *Queries) ListUnlockedPlants(ctx context.Context, userID int64) ([]UnlockedPlant, error) {
	rows, err := q.db.QueryContext(ctx, listUnlockedPlants, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UnlockedPlant
	for rows.Next() {
		var i UnlockedPlant
		if err := rows.Scan(&i.UserID, &i.SpeciesID, &i.UnlockedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
