package v1_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/kalkyl-app/backend/internal/controllers/v1"
	"github.com/kalkyl-app/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree is a minimal valid calculation payload: one section with one row
// of 10 m3 at 12 kr and 50 kg CO2, and a fee rate of 10 %.
const testTree = `{
	"version": 1,
	"rate": "10",
	"area": "100",
	"co2Budget": "2",
	"sections": [
		{
			"id": 1,
			"name": "Mark och grund",
			"subsections": [
				{
					"id": 1,
					"name": "Schakt",
					"rows": [
						{
							"id": 1,
							"description": "Schakt för platta",
							"quantity": "10",
							"unit": "m3",
							"pricePerUnit": "12",
							"co2": "50"
						}
					]
				}
			]
		}
	],
	"options": []
}`

// createTestCalculation creates a test calculation via the v1 API.
func createTestCalculation(t *testing.T, editable v1.CalculationEditable, expectedStatus ...int) v1.CalculationResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/calculations", editable)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CalculationResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestCalculationsOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/calculations", "")

	assert.Equal(suite.T(), http.StatusNoContent, r.Code)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCalculationOptionsDetail() {
	tests := []struct {
		name     string        // Name for the test
		status   int           // Expected HTTP status
		id       string        // String to use as ID. Ignored when pathFunc is non-nil
		pathFunc func() string // Function returning the path
	}{
		{
			"Does not exist",
			http.StatusNotFound,
			uuid.New().String(),
			nil,
		},
		{
			"Invalid UUID",
			http.StatusBadRequest,
			"NotParseableAsUUID",
			nil,
		},
		{
			"Success",
			http.StatusNoContent,
			"",
			func() string {
				return createTestCalculation(suite.T(), v1.CalculationEditable{
					Name: "Options test",
					Tree: json.RawMessage(testTree),
				}).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := "http://example.com/v1/calculations/" + tt.id
			if tt.pathFunc != nil {
				path = tt.pathFunc()
			}

			r := test.Request(t, http.MethodOptions, path, "")
			assert.Equal(t, tt.status, r.Code)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PUT, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCreateCalculationFromTree() {
	response := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name:    "Garage Andersson",
		Project: "Villa Ekbacken",
		Tree:    json.RawMessage(testTree),
	})

	require.NotNil(suite.T(), response.Data)

	// 10 m3 × 12 kr = 120 kr, plus 10 % fee = 132 kr
	assert.Equal(suite.T(), "132 kr", response.Data.Amount)
	assert.True(suite.T(), response.Data.Summary.BidAmount.Equal(decimalFromString(suite.T(), "132")))
	assert.True(suite.T(), response.Data.Summary.TotalCO2.Equal(decimalFromString(suite.T(), "50")))
	assert.False(suite.T(), response.Data.Summary.ExceedsBudget)

	assert.Equal(suite.T(), "Garage Andersson", response.Data.Name)
	assert.Equal(suite.T(), "draft", string(response.Data.Status))
	assert.NotEmpty(suite.T(), response.Data.Links.ExportCSV)
}

func (suite *TestSuiteStandard) TestCreateCalculationFromTemplate() {
	response := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name:       "Nybygge",
		Project:    "Villa Tallbacken",
		TemplateID: "nybyggnad-villa",
	})

	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.Summary.BudgetExclRate.IsPositive())
}

func (suite *TestSuiteStandard) TestCreateCalculationDefaultTemplate() {
	response := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Tom kalkyl",
	})

	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.Summary.BidAmount.IsZero())
}

func (suite *TestSuiteStandard) TestCreateCalculationUnknownTemplate() {
	response := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name:       "Trasig",
		TemplateID: "finns-inte",
	}, http.StatusNotFound)

	require.NotNil(suite.T(), response.Error)
	assert.Contains(suite.T(), *response.Error, "there is no template")
}

func (suite *TestSuiteStandard) TestCreateCalculationInvalidTree() {
	response := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Trasig",
		Tree: json.RawMessage(`{"sections": [{"name": "utan id"}]}`),
	}, http.StatusBadRequest)

	require.NotNil(suite.T(), response.Error)
	assert.Contains(suite.T(), *response.Error, "payload is invalid")
}

func (suite *TestSuiteStandard) TestCreateCalculationNegativeTree() {
	response := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Negativ",
		Tree: json.RawMessage(`{"sections": [{"id": 1, "subsections": [{"id": 1, "rows": [{"id": 1, "quantity": "-2"}]}]}]}`),
	}, http.StatusBadRequest)

	require.NotNil(suite.T(), response.Error)
	assert.Contains(suite.T(), *response.Error, "negative")
}

func (suite *TestSuiteStandard) TestCreateCalculationDuplicateName() {
	editable := v1.CalculationEditable{
		Name:    "Garage",
		Project: "Villa Ekbacken",
		Tree:    json.RawMessage(testTree),
	}

	_ = createTestCalculation(suite.T(), editable)
	response := createTestCalculation(suite.T(), editable, http.StatusBadRequest)

	require.NotNil(suite.T(), response.Error)
	assert.Contains(suite.T(), *response.Error, "already in use")
}

func (suite *TestSuiteStandard) TestGetCalculation() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Hämta mig",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodGet, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), created.Data.ID, response.Data.ID)
	assert.NotEmpty(suite.T(), response.Data.Tree)
}

func (suite *TestSuiteStandard) TestGetCalculationNotFound() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calculations/"+uuid.New().String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetCalculationInvalidUUID() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calculations/NotAUUID", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetCalculations() {
	_ = createTestCalculation(suite.T(), v1.CalculationEditable{Name: "Garage", Project: "Villa Ekbacken", Tree: json.RawMessage(testTree)})
	_ = createTestCalculation(suite.T(), v1.CalculationEditable{Name: "Altan", Project: "Villa Ekbacken", Tree: json.RawMessage(testTree)})
	_ = createTestCalculation(suite.T(), v1.CalculationEditable{Name: "Garage", Project: "Villa Tallbacken", Tree: json.RawMessage(testTree)})

	tests := []struct {
		name  string // Name for the test
		query string // The query string
		count int    // Expected number of results
	}{
		{"All", "", 3},
		{"Project filter", "project=Ekbacken", 2},
		{"Name filter", "name=Garage", 2},
		{"Search", "search=altan", 1},
		{"Status filter", "status=draft", 3},
		{"Status filter no match", "status=sent", 0},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/calculations?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CalculationListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Len(t, response.Data, tt.count)
			require.NotNil(t, response.Pagination)
			assert.Equal(t, tt.count, response.Pagination.Count)
		})
	}
}

func (suite *TestSuiteStandard) TestUpdateCalculation() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name:    "Före",
		Project: "Villa Ekbacken",
		Tree:    json.RawMessage(testTree),
	})

	update := v1.CalculationEditable{
		Name:    "Efter",
		Project: "Villa Ekbacken",
		Status:  "sent",
		Tree:    json.RawMessage(testTree),
	}

	r := test.Request(suite.T(), http.MethodPut, created.Data.Links.Self, update)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "Efter", response.Data.Name)
	assert.Equal(suite.T(), "sent", string(response.Data.Status))
	assert.Equal(suite.T(), "132 kr", response.Data.Amount)
}

func (suite *TestSuiteStandard) TestUpdateCalculationMetadataOnly() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Bara metadata",
		Tree: json.RawMessage(testTree),
	})

	// No tree in the body keeps the stored tree
	r := test.Request(suite.T(), http.MethodPut, created.Data.Links.Self, v1.CalculationEditable{
		Name:   "Bara metadata",
		Status: "accepted",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "accepted", string(response.Data.Status))
	assert.Equal(suite.T(), "132 kr", response.Data.Amount)
}

func (suite *TestSuiteStandard) TestUpdateCalculationOmittedFieldsKept() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name:      "Partiell uppdatering",
		Project:   "Kvarteret Eken",
		CreatedBy: "maria",
		Tree:      json.RawMessage(testTree),
	})

	// Only the status is submitted. Omitted fields keep their stored values.
	r := test.Request(suite.T(), http.MethodPut, created.Data.Links.Self, map[string]any{
		"status": "accepted",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "Partiell uppdatering", response.Data.Name)
	assert.Equal(suite.T(), "Kvarteret Eken", response.Data.Project)
	assert.Equal(suite.T(), "maria", response.Data.CreatedBy)
	assert.Equal(suite.T(), "accepted", string(response.Data.Status))
	assert.Equal(suite.T(), "132 kr", response.Data.Amount)
}

func (suite *TestSuiteStandard) TestUpdateCalculationNotSavable() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Ej sparbar",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodPut, created.Data.Links.Self, v1.CalculationEditable{
		Name: "Ej sparbar",
		Tree: json.RawMessage(`{"sections": []}`),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Error)
	assert.Contains(suite.T(), *response.Error, "at least one section")
}

func (suite *TestSuiteStandard) TestUpdateCalculationNotFound() {
	r := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/calculations/"+uuid.New().String(), v1.CalculationEditable{Name: "Finns inte"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteCalculation() {
	created := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Ta bort mig",
		Tree: json.RawMessage(testTree),
	})

	r := test.Request(suite.T(), http.MethodDelete, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteCalculationNotFound() {
	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/calculations/"+uuid.New().String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateCalculationRevision() {
	original := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name: "Original",
		Tree: json.RawMessage(testTree),
	})

	revision := createTestCalculation(suite.T(), v1.CalculationEditable{
		Name:       "Revidering",
		RevisionOf: &original.Data.ID,
		Tree:       json.RawMessage(testTree),
	})

	require.NotNil(suite.T(), revision.Data.RevisionOf)
	assert.Equal(suite.T(), original.Data.ID, *revision.Data.RevisionOf)

	// The revision filter only returns revisions of the original
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calculations?revisionOf="+original.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CalculationListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), revision.Data.ID, response.Data[0].ID)
}

func (suite *TestSuiteStandard) TestGetCalculationsInvalidRevisionOf() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calculations?revisionOf=not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
