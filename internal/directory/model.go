package directory

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID          uuid.UUID
	Name        string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Doctor struct {
	ID             uuid.UUID
	Name           string
	Specialization string
	Email          string
	PhoneNumber    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// User is the shadow identity record mirroring a patient's or doctor's
// email. Exactly one of PatientID/DoctorID is set. It lives and dies in the
// same transaction as its owner.
type User struct {
	ID        uuid.UUID
	Email     string
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	CreatedAt time.Time
}
