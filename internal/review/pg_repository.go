package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicbook/clinicbook/internal/scheduling"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(
		&rv.ID,
		&rv.PatientID,
		&rv.DoctorID,
		&rv.AppointmentID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *PgRepository) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM doctors WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var a scheduling.Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, appointment_date, appointment_time, reason, status, created_at
		FROM appointments
		WHERE id = $1
	`, id).Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Date, &a.TimeOfDay, &a.Reason, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PgRepository) Create(ctx context.Context, rv *Review) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reviews (id, patient_id, doctor_id, appointment_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rv.ID, rv.PatientID, rv.DoctorID, rv.AppointmentID, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *PgRepository) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE appointment_id = $1)`, appointmentID).Scan(&exists)
	return exists, err
}

func (r *PgRepository) GetByPatientAndDoctor(ctx context.Context, patientID, doctorID uuid.UUID) (*Review, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, appointment_id, rating, comment, created_at
		FROM reviews
		WHERE patient_id = $1 AND doctor_id = $2
		ORDER BY created_at
		LIMIT 1
	`, patientID, doctorID)
	return scanReview(row)
}

func (r *PgRepository) Update(ctx context.Context, rv *Review) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET rating = $2,
		    comment = $3
		WHERE id = $1
	`, rv.ID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, appointment_id, rating, comment, created_at
		FROM reviews
		WHERE doctor_id = $1
		ORDER BY created_at
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
