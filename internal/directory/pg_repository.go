package directory

import (
	"context"
	"errors"
	"fmt"

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

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PhoneNumber,
		&p.DateOfBirth,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.Email,
		&d.PhoneNumber,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Interface methods

func (r *PgRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var inUse bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&inUse)
	return inUse, err
}

func (r *PgRepository) CreatePatient(ctx context.Context, p *Patient) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO patients (id, name, email, phone_number, date_of_birth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Email, p.PhoneNumber, p.DateOfBirth).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert patient: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, patient_id)
		VALUES ($1, $2, $3)
	`, uuid.New(), p.Email, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert shadow user: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone_number, date_of_birth, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone_number, date_of_birth, created_at, updated_at
		FROM patients
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return collectPatients(rows)
}

func (r *PgRepository) SearchPatientsByName(ctx context.Context, name string) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone_number, date_of_birth, created_at, updated_at
		FROM patients
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`, name)
	if err != nil {
		return nil, err
	}
	return collectPatients(rows)
}

func collectPatients(rows pgx.Rows) ([]Patient, error) {
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET name = $2,
		    phone_number = $3,
		    date_of_birth = $4,
		    updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.PhoneNumber, p.DateOfBirth)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *PgRepository) DeletePatientCascade(ctx context.Context, id uuid.UUID) error {
	return r.deleteCascade(ctx, "patient_id", id, ErrPatientNotFound, "patients")
}

func (r *PgRepository) CreateDoctor(ctx context.Context, d *Doctor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO doctors (id, name, specialization, email, phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, d.ID, d.Name, d.Specialization, d.Email, d.PhoneNumber).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert doctor: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, doctor_id)
		VALUES ($1, $2, $3)
	`, uuid.New(), d.Email, d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert shadow user: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialization, email, phone_number, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialization, email, phone_number, created_at, updated_at
		FROM doctors
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

func (r *PgRepository) SearchDoctorsBySpecialization(ctx context.Context, specialization string) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialization, email, phone_number, created_at, updated_at
		FROM doctors
		WHERE specialization ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`, specialization)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

func collectDoctors(rows pgx.Rows) ([]Doctor, error) {
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d *Doctor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET name = $2,
		    specialization = $3,
		    phone_number = $4,
		    updated_at = now()
		WHERE id = $1
	`, d.ID, d.Name, d.Specialization, d.PhoneNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *PgRepository) DeleteDoctorCascade(ctx context.Context, id uuid.UUID) error {
	return r.deleteCascade(ctx, "doctor_id", id, ErrDoctorNotFound, "doctors")
}

// deleteCascade removes appointments (reviews cascade via FK), the shadow
// user and the entity in one transaction. The status re-check inside the
// transaction keeps the deletion gate honest under concurrent bookings.
func (r *PgRepository) deleteCascade(ctx context.Context, fkColumn string, id uuid.UUID, notFound error, table string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		SELECT id FROM appointments WHERE %s = $1 FOR UPDATE
	`, fkColumn), id); err != nil {
		return fmt.Errorf("lock appointments: %w", err)
	}

	var unfinished bool
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM appointments WHERE %s = $1 AND status <> $2)
	`, fkColumn), id, scheduling.StatusCompleted).Scan(&unfinished)
	if err != nil {
		return fmt.Errorf("check appointments: %w", err)
	}
	if unfinished {
		return ErrUnfinishedAppointments
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM appointments WHERE %s = $1`, fkColumn), id); err != nil {
		return fmt.Errorf("delete appointments: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM users WHERE %s = $1`, fkColumn), id); err != nil {
		return fmt.Errorf("delete shadow user: %w", err)
	}

	tag, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) AppointmentStatusesByPatient(ctx context.Context, patientID uuid.UUID) ([]scheduling.Status, error) {
	return r.appointmentStatuses(ctx, "patient_id", patientID)
}

func (r *PgRepository) AppointmentStatusesByDoctor(ctx context.Context, doctorID uuid.UUID) ([]scheduling.Status, error) {
	return r.appointmentStatuses(ctx, "doctor_id", doctorID)
}

func (r *PgRepository) appointmentStatuses(ctx context.Context, fkColumn string, id uuid.UUID) ([]scheduling.Status, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT status FROM appointments WHERE %s = $1
	`, fkColumn), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []scheduling.Status
	for rows.Next() {
		var st scheduling.Status
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
