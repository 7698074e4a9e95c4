package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vgestion/vehiculos-backend/internal/domain"
	"github.com/vgestion/vehiculos-backend/internal/models"
)

// VehicleStore handles vehicle CRUD against PostgreSQL. Every operation is
// a single statement on a pooled connection.
type VehicleStore struct {
	pool *pgxpool.Pool
}

func NewVehicleStore(pool *pgxpool.Pool) *VehicleStore {
	return &VehicleStore{pool: pool}
}

func (s *VehicleStore) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO vehicles (marca, modelo, anio, tipo, kilometraje, imagen_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		v.Marca, v.Modelo, v.Anio, v.Tipo, v.Kilometraje, v.ImagenURL,
	).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (s *VehicleStore) List(ctx context.Context, tipo string) ([]models.Vehicle, error) {
	query := `SELECT id, marca, modelo, anio, tipo, kilometraje, imagen_url
	          FROM vehicles ORDER BY id`
	args := []interface{}{}
	if tipo != "" {
		query = `SELECT id, marca, modelo, anio, tipo, kilometraje, imagen_url
		         FROM vehicles WHERE tipo ILIKE '%' || $1 || '%' ORDER BY id`
		args = append(args, tipo)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Marca, &v.Modelo, &v.Anio, &v.Tipo, &v.Kilometraje, &v.ImagenURL); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (s *VehicleStore) Get(ctx context.Context, id int) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.pool.QueryRow(ctx,
		`SELECT id, marca, modelo, anio, tipo, kilometraje, imagen_url
		 FROM vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.Marca, &v.Modelo, &v.Anio, &v.Tipo, &v.Kilometraje, &v.ImagenURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}

func (s *VehicleStore) Update(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE vehicles
		 SET marca = $1, modelo = $2, anio = $3, tipo = $4, kilometraje = $5, imagen_url = $6
		 WHERE id = $7`,
		v.Marca, v.Modelo, v.Anio, v.Tipo, v.Kilometraje, v.ImagenURL, v.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *VehicleStore) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *VehicleStore) SetImageURL(ctx context.Context, id int, url string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE vehicles SET imagen_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("set image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *VehicleStore) Stats(ctx context.Context) (int, float64, error) {
	var total int
	var avg float64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(kilometraje), 0) FROM vehicles`,
	).Scan(&total, &avg)
	if err != nil {
		return 0, 0, fmt.Errorf("vehicle stats: %w", err)
	}
	return total, avg, nil
}
