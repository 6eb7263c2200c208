package storage

import (
	"context"

	"github.com/md-rashed-zaman/pharmacare/libs/db"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

type BranchRepository struct {
	pool *db.Pool
}

func NewBranchRepository(pool *db.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

func (r *BranchRepository) List(ctx context.Context) ([]model.Branch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, latitude, longitude
		FROM branches
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := []model.Branch{}
	for rows.Next() {
		var b model.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.Latitude, &b.Longitude); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) Get(ctx context.Context, id int64) (model.Branch, error) {
	var b model.Branch
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, latitude, longitude
		FROM branches
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.Latitude, &b.Longitude)
	if err != nil {
		if db.IsNotFound(err) {
			return model.Branch{}, apperr.Wrap(apperr.NotFound, "Branch not found", err)
		}
		return model.Branch{}, err
	}
	return b, nil
}

func (r *BranchRepository) Create(ctx context.Context, b *model.Branch) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO branches (name, address, phone, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, b.Name, b.Address, b.Phone, b.Latitude, b.Longitude).Scan(&b.ID)
}
