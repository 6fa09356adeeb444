package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/db"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

func main() {
	logger.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		logger.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		logger.Fatal().Err(err).Msg("migrate schema")
	}

	gofakeit.Seed(time.Now().UnixNano())

	doctorIDs, err := seedDoctors(context.Background(), pool, 50)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed doctors")
	}
	patientIDs, err := seedPatients(context.Background(), pool, 500)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedAppointments(context.Background(), pool, doctorIDs, patientIDs, 2000); err != nil {
		logger.Fatal().Err(err).Msg("seed appointments")
	}

	logger.Info().Msg("seed complete")
}

var specializations = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	logger.Info().Int("count", count).Msg("seeding doctors")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		email := fmt.Sprintf("dr.%d.%s", i, gofakeit.Email())

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialization, email, phone_number)
			VALUES ($1, $2, $3, $4, $5)
		`, id, gofakeit.Name(), specializations[gofakeit.Number(0, len(specializations)-1)], email, gofakeit.Phone())
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO users (id, email, doctor_id)
			VALUES ($1, $2, $3)
		`, uuid.New(), email, id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info().Msg("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	logger.Info().Int("count", count).Msg("seeding patients")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		email := fmt.Sprintf("pt.%d.%s", i, gofakeit.Email())
		dob := gofakeit.DateRange(
			time.Now().AddDate(-90, 0, 0),
			time.Now().AddDate(-18, 0, 0),
		)

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, email, phone_number, date_of_birth)
			VALUES ($1, $2, $3, $4, $5)
		`, id, gofakeit.Name(), email, gofakeit.Phone(), dob)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO users (id, email, patient_id)
			VALUES ($1, $2, $3)
		`, uuid.New(), email, id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info().Msg("patients seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctorIDs, patientIDs []uuid.UUID, count int) error {
	logger.Info().Int("count", count).Msg("seeding appointments")

	statuses := []string{"REQUESTED", "CONFIRMED", "COMPLETED", "CANCELLED"}
	reasons := []string{"checkup", "follow-up", "consultation", "vaccination", "test results"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	seeded := 0
	for seeded < count {
		doctorID := doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
		patientID := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]
		date := gofakeit.DateRange(
			time.Now().AddDate(0, -2, 0),
			time.Now().AddDate(0, 2, 0),
		).Format("2006-01-02")
		timeOfDay := fmt.Sprintf("%02d:%02d", gofakeit.Number(8, 17), gofakeit.Number(0, 3)*15)

		// Skip slot collisions instead of fighting the unique constraint
		tag, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, doctor_id, patient_id, appointment_date, appointment_time, reason, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT ON CONSTRAINT appointments_slot_key DO NOTHING
		`, uuid.New(), doctorID, patientID, date, timeOfDay,
			reasons[gofakeit.Number(0, len(reasons)-1)],
			statuses[gofakeit.Number(0, len(statuses)-1)])
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			seeded++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info().Msg("appointments seeded")
	return nil
}
