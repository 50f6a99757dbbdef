package dto

type MedicationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DosageResponse struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

type MedicationListResponse struct {
	Medications []MedicationResponse `json:"medications"`
	Total       int                  `json:"total"`
}

type DosageListResponse struct {
	Dosages []DosageResponse `json:"dosages"`
	Total   int              `json:"total"`
}
