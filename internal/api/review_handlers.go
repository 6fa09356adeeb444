package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/review"
)

func postReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "patientId must be a valid UUID")
			return
		}
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "doctorId must be a valid UUID")
			return
		}
		appointmentID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "appointmentId must be a valid UUID")
			return
		}

		rv, err := svc.Post(r.Context(), patientID, doctorID, appointmentID, req.Rating, req.Comment)
		if err != nil {
			handleReviewError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toReviewResponse(rv))
	}
}

func listReviewsByDoctorHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := parseIDParam(w, r, "doctorID")
		if !ok {
			return
		}
		reviews, err := svc.ListByDoctor(r.Context(), doctorID)
		if err != nil {
			handleReviewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReviewResponses(reviews))
	}
}

func editReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := parseIDParam(w, r, "patientID")
		if !ok {
			return
		}
		doctorID, ok := parseIDParam(w, r, "doctorID")
		if !ok {
			return
		}

		var req EditReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		rv, err := svc.Edit(r.Context(), patientID, doctorID, req.Rating, req.Comment)
		if err != nil {
			handleReviewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReviewResponse(rv))
	}
}

func deleteReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := parseIDParam(w, r, "patientID")
		if !ok {
			return
		}
		doctorID, ok := parseIDParam(w, r, "doctorID")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), patientID, doctorID); err != nil {
			handleReviewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Review deleted successfully"})
	}
}

func handleReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, review.ErrPatientNotFound),
		errors.Is(err, review.ErrDoctorNotFound),
		errors.Is(err, review.ErrAppointmentNotFound),
		errors.Is(err, review.ErrReviewNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, review.ErrRatingOutOfRange),
		errors.Is(err, review.ErrNotOwned),
		errors.Is(err, review.ErrNotCompleted),
		errors.Is(err, review.ErrAlreadyReviewed):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
