package v1

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kalkyl-app/backend/internal/calc"
	"github.com/kalkyl-app/backend/internal/models"
)

// CalculationEditable contains the fields a client can set on a calculation.
type CalculationEditable struct {
	Name      string        `json:"name" example:"Garage Andersson"`        // Name of the calculation, unique per project
	Project   string        `json:"project" example:"Villa Ekbacken"`       // Name of the project the calculation belongs to
	Status    models.Status `json:"status" example:"draft" default:"draft"` // Status of the calculation
	CreatedBy string        `json:"createdBy" example:"maria" default:""`   // User who works on the calculation

	// RevisionOf references the calculation this one revises
	RevisionOf *uuid.UUID `json:"revisionOf" example:"9e29dd6a-c4d4-4c1a-9ba5-1d6f5dbd1c1f"`

	// TemplateID selects the template to build the tree from when no tree
	// is submitted. Only evaluated on creation.
	TemplateID string `json:"templateId" example:"nybyggnad-villa" default:"empty"`

	// Tree is the full calculation tree. All derived amounts in it are
	// recomputed on the server before it is stored.
	Tree json.RawMessage `json:"tree"`
}

type CalculationLinks struct {
	Self       string `json:"self" example:"https://example.com/v1/calculations/d430d7c3-d14c-4712-9336-ee56965a6673"`
	ExportCSV  string `json:"exportCsv" example:"https://example.com/v1/calculations/d430d7c3-d14c-4712-9336-ee56965a6673/export/csv"`
	ExportPDF  string `json:"exportPdf" example:"https://example.com/v1/calculations/d430d7c3-d14c-4712-9336-ee56965a6673/export/pdf"`
	ExportXLSX string `json:"exportXlsx" example:"https://example.com/v1/calculations/d430d7c3-d14c-4712-9336-ee56965a6673/export/xlsx"`
}

// Calculation is the API representation of a stored calculation.
type Calculation struct {
	models.DefaultModel
	Name      string        `json:"name" example:"Garage Andersson"`
	Project   string        `json:"project" example:"Villa Ekbacken"`
	Status    models.Status `json:"status" example:"draft"`
	CreatedBy string        `json:"createdBy" example:"maria"`

	// Amount is the localized bid amount, e.g. "94 820 kr"
	Amount string `json:"amount" example:"94 820 kr"`

	RevisionOf *uuid.UUID `json:"revisionOf"`

	Tree    json.RawMessage `json:"tree"`    // The full calculation tree with derived amounts
	Summary calc.Summary    `json:"summary"` // Derived financial and CO2 state

	Links CalculationLinks `json:"links"`
}

// newCalculation returns the API representation of the resource. The stored
// tree is parsed, aggregated and summarized so that all derived values in
// the response are consistent with the stored rows.
func newCalculation(c *gin.Context, model models.Calculation) (Calculation, error) {
	tree, err := calc.ParsePayload([]byte(model.Payload))
	if err != nil {
		return Calculation{}, err
	}

	payload, err := tree.Payload()
	if err != nil {
		return Calculation{}, err
	}

	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/calculations/%s", url, model.ID)

	return Calculation{
		DefaultModel: model.DefaultModel,
		Name:         model.Name,
		Project:      model.Project,
		Status:       model.Status,
		CreatedBy:    model.CreatedBy,
		Amount:       model.Amount,
		RevisionOf:   model.Revision,
		Tree:         payload,
		Summary:      calc.Summarize(tree),
		Links: CalculationLinks{
			Self:       self,
			ExportCSV:  self + "/export/csv",
			ExportPDF:  self + "/export/pdf",
			ExportXLSX: self + "/export/xlsx",
		},
	}, nil
}

type CalculationResponse struct {
	Error *string      `json:"error" example:"there is no calculation matching your query"` // The error, if any occurred
	Data  *Calculation `json:"data"`                                                        // The calculation data, if the request was successful
}

type CalculationListResponse struct {
	Data       []Calculation `json:"data"`                                                        // List of calculations
	Error      *string       `json:"error" example:"there is no calculation matching your query"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                  // Pagination information
}

type CalculationQueryFilter struct {
	Name       string        `form:"name" filterField:"false"`       // Name contains this string
	Project    string        `form:"project" filterField:"false"`    // Project contains this string
	Status     models.Status `form:"status"`                         // Status of the calculation
	CreatedBy  string        `form:"createdBy"`                      // User who works on the calculation
	RevisionOf string        `form:"revisionOf" filterField:"false"` // ID of the calculation this one revises
	Search     string        `form:"search" filterField:"false"`     // Name or project contains this string
	Offset     uint          `form:"offset" filterField:"false"`     // The offset of the first calculation returned. Defaults to 0.
	Limit      int           `form:"limit" filterField:"false"`      // Maximum number of calculations to return. Defaults to 50.
}

func (f CalculationQueryFilter) model() models.Calculation {
	return models.Calculation{
		Status:    f.Status,
		CreatedBy: f.CreatedBy,
	}
}
