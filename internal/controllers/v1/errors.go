package v1

import (
	"errors"
	"net/http"

	"github.com/kalkyl-app/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no calculation matching your query"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errTemplateNotFound = errors.New("there is no template with the specified ID")
	errExportFormat     = errors.New("the export format must be one of csv, pdf or xlsx")
)
