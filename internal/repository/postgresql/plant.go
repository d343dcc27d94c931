package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
)

type plantRepository struct {
	db *database.DB
}

func NewPlantRepository(db *database.DB) plant.PlantRepository {
	return &plantRepository{db: db}
}

func (r *plantRepository) List(ctx context.Context) ([]plant.Plant, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, code, created_at FROM plants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	defer rows.Close()

	var plants []plant.Plant
	for rows.Next() {
		var p plant.Plant
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.CreatedAt); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (r *plantRepository) GetByID(ctx context.Context, id string) (plant.Plant, error) {
	q := GetQuerier(ctx, r.db)

	var p plant.Plant
	err := q.QueryRow(ctx, `SELECT id, name, code, created_at FROM plants WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Code, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plant.Plant{}, plant.ErrPlantNotFound
		}
		return plant.Plant{}, fmt.Errorf("failed to get plant %s: %w", id, err)
	}
	return p, nil
}
