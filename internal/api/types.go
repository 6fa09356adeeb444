package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/directory"
	"github.com/clinicbook/clinicbook/internal/review"
	"github.com/clinicbook/clinicbook/internal/scheduling"
)

// Requests

type CreatePatientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
}

type UpdatePatientRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
}

type UpdateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	PhoneNumber    string `json:"phoneNumber"`
}

type BookAppointmentRequest struct {
	PatientID       string `json:"patientId"`
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Reason          string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type PostReviewRequest struct {
	PatientID     string `json:"patientId"`
	DoctorID      string `json:"doctorId"`
	AppointmentID string `json:"appointmentId"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

type EditReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Responses

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	DateOfBirth string    `json:"dateOfBirth"`
}

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patientId"`
	DoctorID        uuid.UUID `json:"doctorId"`
	AppointmentDate string    `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ReviewResponse struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patientId"`
	DoctorID      uuid.UUID `json:"doctorId"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PendingCountResponse struct {
	PendingCount int64 `json:"pendingCount"`
}

type TotalAppointmentsResponse struct {
	TotalAppointments int64 `json:"totalAppointments"`
}

// Mappers

func toPatientResponse(p *directory.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		DateOfBirth: p.DateOfBirth.Format("2006-01-02"),
	}
}

func toPatientResponses(patients []directory.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	return out
}

func toDoctorResponse(d *directory.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		Email:          d.Email,
		PhoneNumber:    d.PhoneNumber,
	}
}

func toDoctorResponses(doctors []directory.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	return out
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AppointmentDate: a.Date,
		AppointmentTime: a.TimeOfDay,
		Reason:          a.Reason,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func toAppointmentResponses(appts []scheduling.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

func toReviewResponse(rv *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:            rv.ID,
		PatientID:     rv.PatientID,
		DoctorID:      rv.DoctorID,
		AppointmentID: rv.AppointmentID,
		Rating:        rv.Rating,
		Comment:       rv.Comment,
		CreatedAt:     rv.CreatedAt,
	}
}

func toReviewResponses(reviews []review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	return out
}
