package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"clinic-portal/internal/usecase"
	"clinic-portal/pkg/response"

	"github.com/gorilla/mux"
)

// decodeJSON writes a 400 and reports false when the body is not valid JSON.
// An empty body is accepted when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	response.BadRequest(w, "Invalid request body")
	return false
}

// pathID parses the {id}-style route variable name as a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// writeValidationError handles a *usecase.ValidationError and reports
// whether it did.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var validationErr *usecase.ValidationError
	if !errors.As(err, &validationErr) {
		return false
	}
	response.ValidationError(w, validationErr.Fields)
	return true
}
