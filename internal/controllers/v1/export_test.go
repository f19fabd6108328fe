package v1_test

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	v1 "github.com/kalkyl-app/backend/internal/controllers/v1"
	"github.com/kalkyl-app/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestExportCSV() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "CSV-export",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodGet, created.Data.Links.ExportCSV, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	assert.Contains(suite.T(), r.Header().Get("Content-Type"), "text/csv")
	assert.Contains(suite.T(), r.Header().Get("Content-Disposition"), "CSV-export.csv")

	body := r.Body.String()
	assert.Contains(suite.T(), body, "Mark och grund")
	assert.Contains(suite.T(), body, "Anbudssumma")
}

func (suite *TestSuiteStandard) TestExportPDF() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "PDF-export",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodGet, created.Data.Links.ExportPDF, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	assert.Equal(suite.T(), "application/pdf", r.Header().Get("Content-Type"))
	assert.True(suite.T(), strings.HasPrefix(r.Body.String(), "%PDF-"), "Body does not start with the PDF magic bytes")
}

func (suite *TestSuiteStandard) TestExportXLSX() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "XLSX-export",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodGet, created.Data.Links.ExportXLSX, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// XLSX files are zip archives
	assert.True(suite.T(), strings.HasPrefix(r.Body.String(), "PK"), "Body does not start with the zip magic bytes")
}

func (suite *TestSuiteStandard) TestExportUnknownFormat() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Okänt format",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodGet, created.Data.Links.Self+"/export/docx", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestExportNotFound() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calculations/"+uuid.New().String()+"/export/csv", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExportOptions() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Options",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodOptions, created.Data.Links.ExportPDF, "")
	assert.Equal(suite.T(), http.StatusNoContent, r.Code)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))
}
