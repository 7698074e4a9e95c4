package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the users and vehicles tables if they don't exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id              SERIAL PRIMARY KEY,
			username        VARCHAR(50)  UNIQUE NOT NULL,
			email           VARCHAR(255) UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL,
			created_at      TIMESTAMPTZ  DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS vehicles (
			id          SERIAL PRIMARY KEY,
			marca       VARCHAR(50) NOT NULL,
			modelo      VARCHAR(50) NOT NULL,
			anio        INTEGER     NOT NULL,
			tipo        VARCHAR(30) NOT NULL,
			kilometraje DOUBLE PRECISION NOT NULL,
			imagen_url  VARCHAR(500)
		);

		CREATE INDEX IF NOT EXISTS idx_vehicles_tipo ON vehicles(tipo);
	`)
	return err
}
