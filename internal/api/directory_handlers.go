package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clinicbook/clinicbook/internal/directory"
)

func createPatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
			return
		}

		p, err := svc.CreatePatient(r.Context(), &directory.Patient{
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			DateOfBirth: dob,
		})
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func listPatientsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponses(patients))
	}
}

func searchPatientsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.SearchPatients(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponses(patients))
	}
}

func getPatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		p, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
			return
		}

		p, err := svc.UpdatePatient(r.Context(), id, req.Name, req.PhoneNumber, dob)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func deletePatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeletePatient(r.Context(), id); err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Patient deleted successfully"})
	}
}

func createDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		d, err := svc.CreateDoctor(r.Context(), &directory.Doctor{
			Name:           req.Name,
			Specialization: req.Specialization,
			Email:          req.Email,
			PhoneNumber:    req.PhoneNumber,
		})
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDoctorResponse(d))
	}
}

func listDoctorsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListDoctors(r.Context())
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func searchDoctorsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.SearchDoctors(r.Context(), r.URL.Query().Get("specialization"))
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func getDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		d, err := svc.GetDoctor(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func updateDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		d, err := svc.UpdateDoctor(r.Context(), id, req.Name, req.Specialization, req.PhoneNumber)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func deleteDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeleteDoctor(r.Context(), id); err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Doctor deleted successfully"})
	}
}

func handleDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrPatientNotFound),
		errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, directory.ErrEmailTaken),
		errors.Is(err, directory.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrUnfinishedAppointments):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
