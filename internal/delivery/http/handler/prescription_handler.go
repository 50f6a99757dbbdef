package handler

import (
	"errors"
	"net/http"

	"clinic-portal/internal/delivery/dto"
	"clinic-portal/internal/delivery/http/middleware"
	"clinic-portal/internal/usecase"
	"clinic-portal/pkg/response"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
	}
}

// GetRefills returns the caller's prescriptions due for refill in the coming week.
// @Summary Upcoming refills
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /prescriptions/refills [get]
func (h *PrescriptionHandler) GetRefills(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	prescriptions, err := h.prescriptionUsecase.ListRefills(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get upcoming refills")
		return
	}

	response.Success(w, http.StatusOK, "Upcoming refills retrieved successfully", prescriptions)
}

// GetMyPrescriptions returns every prescription of the caller.
// @Summary All own prescriptions
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /prescriptions [get]
func (h *PrescriptionHandler) GetMyPrescriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	prescriptions, err := h.prescriptionUsecase.ListByUser(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetPatientPrescriptions(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.ListByPatient(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get prescriptions")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := pathID(w, r, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), prescriptionID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.NotFound(w, "Prescription not found")
		default:
			response.InternalServerError(w, "Failed to get prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.CreatePrescriptionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	prescription, err := h.prescriptionUsecase.CreatePrescription(r.Context(), patientID, &req)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to create prescription")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

func (h *PrescriptionHandler) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := pathID(w, r, "id", "prescription")
	if !ok {
		return
	}

	var req dto.UpdatePrescriptionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	prescription, err := h.prescriptionUsecase.UpdatePrescription(r.Context(), prescriptionID, &req)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.NotFound(w, "Prescription not found")
		default:
			response.InternalServerError(w, "Failed to update prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription updated successfully", prescription)
}

func (h *PrescriptionHandler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := pathID(w, r, "id", "prescription")
	if !ok {
		return
	}

	if err := h.prescriptionUsecase.DeletePrescription(r.Context(), prescriptionID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.NotFound(w, "Prescription not found")
		default:
			response.InternalServerError(w, "Failed to delete prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription deleted successfully", nil)
}
