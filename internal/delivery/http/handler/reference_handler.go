package handler

import (
	"net/http"

	"clinic-portal/internal/usecase"
	"clinic-portal/pkg/response"
)

type ReferenceHandler struct {
	referenceUsecase usecase.ReferenceUsecase
}

func NewReferenceHandler(referenceUsecase usecase.ReferenceUsecase) *ReferenceHandler {
	return &ReferenceHandler{
		referenceUsecase: referenceUsecase,
	}
}

// GetMedications lists medication names for selection lists
// @Summary List medications
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Response
// @Router /reference/medications [get]
func (h *ReferenceHandler) GetMedications(w http.ResponseWriter, r *http.Request) {
	medications, err := h.referenceUsecase.ListMedications(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get medications")
		return
	}

	response.Success(w, http.StatusOK, "Medications retrieved successfully", medications)
}

// GetDosages lists dosage values for selection lists
// @Summary List dosages
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Response
// @Router /reference/dosages [get]
func (h *ReferenceHandler) GetDosages(w http.ResponseWriter, r *http.Request) {
	dosages, err := h.referenceUsecase.ListDosages(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dosages")
		return
	}

	response.Success(w, http.StatusOK, "Dosages retrieved successfully", dosages)
}
