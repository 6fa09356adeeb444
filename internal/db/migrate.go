package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist. Statements are ordered so
// that referenced tables exist before their foreign keys.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id uuid PRIMARY KEY,
		name text NOT NULL,
		email text NOT NULL UNIQUE,
		phone_number text NOT NULL,
		date_of_birth date NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS doctors (
		id uuid PRIMARY KEY,
		name text NOT NULL,
		specialization text NOT NULL,
		email text NOT NULL UNIQUE,
		phone_number text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY,
		email text NOT NULL UNIQUE,
		patient_id uuid UNIQUE REFERENCES patients(id),
		doctor_id uuid UNIQUE REFERENCES doctors(id),
		created_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id uuid PRIMARY KEY,
		doctor_id uuid NOT NULL REFERENCES doctors(id),
		patient_id uuid NOT NULL REFERENCES patients(id),
		appointment_date text NOT NULL,
		appointment_time text NOT NULL,
		reason text NOT NULL,
		status text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT appointments_slot_key UNIQUE (doctor_id, appointment_date, appointment_time)
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id uuid PRIMARY KEY,
		patient_id uuid NOT NULL REFERENCES patients(id),
		doctor_id uuid NOT NULL REFERENCES doctors(id),
		appointment_id uuid NOT NULL UNIQUE REFERENCES appointments(id) ON DELETE CASCADE,
		rating int NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS appointments_patient_idx ON appointments (patient_id)`,
	`CREATE INDEX IF NOT EXISTS appointments_doctor_idx ON appointments (doctor_id)`,
	`CREATE INDEX IF NOT EXISTS reviews_doctor_idx ON reviews (doctor_id)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
