package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kalkyl-app/backend/internal/calc"
	"github.com/kalkyl-app/backend/internal/httputil"
	"github.com/kalkyl-app/backend/internal/models"
	"github.com/kalkyl-app/backend/internal/notify"
	"github.com/kalkyl-app/backend/internal/report"
	"golang.org/x/exp/slices"
)

// RegisterCalculationRoutes registers the routes for calculations with
// the RouterGroup that is passed.
func RegisterCalculationRoutes(r *gin.RouterGroup, notifications *notify.Service) {
	// Root group
	{
		r.OPTIONS("", OptionsCalculations)
		r.GET("", GetCalculations)
		r.POST("", CreateCalculation(notifications))
	}

	// Calculation with ID
	{
		r.OPTIONS("/:id", OptionsCalculationDetail)
		r.GET("/:id", GetCalculation)
		r.PUT("/:id", UpdateCalculation(notifications))
		r.DELETE("/:id", DeleteCalculation(notifications))
	}

	RegisterExportRoutes(r)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calculations
// @Success		204
// @Router			/v1/calculations [options]
func OptionsCalculations(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calculations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/calculations/{id} [options]
func OptionsCalculationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var calculation models.Calculation
	err = models.DB.First(&calculation, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPutDelete(c)
}

// @Summary		Get calculation
// @Description	Returns a specific calculation with its full tree and derived summary
// @Tags			Calculations
// @Produce		json
// @Success		200	{object}	CalculationResponse
// @Failure		400	{object}	CalculationResponse
// @Failure		404	{object}	CalculationResponse
// @Failure		500	{object}	CalculationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/calculations/{id} [get]
func GetCalculation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &e,
		})
		return
	}

	var calculation models.Calculation
	err = models.DB.First(&calculation, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &e,
		})
		return
	}

	data, err := newCalculation(c, calculation)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalculationResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, CalculationResponse{Data: &data})
}

// @Summary		Get calculations
// @Description	Returns a list of calculations
// @Tags			Calculations
// @Produce		json
// @Success		200	{object}	CalculationListResponse
// @Failure		400	{object}	CalculationListResponse
// @Failure		500	{object}	CalculationListResponse
// @Router			/v1/calculations [get]
// @Param			name		query	string	false	"Filter by name, matches partial names"
// @Param			project		query	string	false	"Filter by project, matches partial names"
// @Param			status		query	string	false	"Filter by status"
// @Param			createdBy	query	string	false	"Filter by the user working on the calculation"
// @Param			revisionOf	query	string	false	"Filter for revisions of the calculation with this ID"
// @Param			search		query	string	false	"Filter for name or project containing this string"
// @Param			offset		query	uint	false	"The offset of the first calculation returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of calculations to return. Defaults to 50."
func GetCalculations(c *gin.Context) {
	var filter CalculationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, CalculationListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()

	q := models.DB.Order("calculations.created_at DESC").Where(&model, queryFields...)

	if filter.Name != "" {
		q = q.Where("calculations.name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("calculations.name = ''")
	}

	if filter.Project != "" {
		q = q.Where("calculations.project LIKE ?", fmt.Sprintf("%%%s%%", filter.Project))
	} else if slices.Contains(setFields, "Project") {
		q = q.Where("calculations.project = ''")
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		q = q.Where("calculations.name LIKE ? OR calculations.project LIKE ?", like, like)
	}

	revisionOf, err := httputil.UUIDFromString(filter.RevisionOf)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CalculationListResponse{
			Error: &e,
		})
		return
	}
	if revisionOf != uuid.Nil {
		q = q.Where("calculations.revision = ?", revisionOf)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 calculations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var calculations []models.Calculation
	err = q.Find(&calculations).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalculationListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalculationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Calculation, 0)
	for _, calculation := range calculations {
		apiResource, err := newCalculation(c, calculation)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationListResponse{
				Error: &e,
			})
			return
		}

		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, CalculationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Create calculation
// @Description	Creates a new calculation, either from a submitted tree or from a template
// @Tags			Calculations
// @Accept			json
// @Produce		json
// @Success		201			{object}	CalculationResponse
// @Failure		400			{object}	CalculationResponse
// @Failure		404			{object}	CalculationResponse
// @Failure		500			{object}	CalculationResponse
// @Param			calculation	body		CalculationEditable	true	"Calculation"
// @Router			/v1/calculations [post]
func CreateCalculation(notifications *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var editable CalculationEditable

		err := httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		tree, err := editableTree(editable)
		if err != nil {
			e := err.Error()
			s := http.StatusBadRequest
			if err == errTemplateNotFound {
				s = http.StatusNotFound
			}
			c.JSON(s, CalculationResponse{
				Error: &e,
			})
			return
		}

		calculation, err := storedCalculation(editable, tree)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}
		calculation.Revision = editable.RevisionOf

		err = models.DB.Create(&calculation).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		data, err := newCalculation(c, calculation)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		notifications.Publish(notify.Notification{
			Level:   notify.LevelSuccess,
			Message: fmt.Sprintf("Kalkylen %s skapades", calculation.Name),
		})

		c.JSON(http.StatusCreated, CalculationResponse{Data: &data})
	}
}

// @Summary		Update calculation
// @Description	Replaces a calculation. The submitted tree is validated, re-aggregated and stored.
// @Tags			Calculations
// @Accept			json
// @Produce		json
// @Success		200			{object}	CalculationResponse
// @Failure		400			{object}	CalculationResponse
// @Failure		404			{object}	CalculationResponse
// @Failure		500			{object}	CalculationResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			calculation	body		CalculationEditable	true	"Calculation"
// @Router			/v1/calculations/{id} [put]
func UpdateCalculation(notifications *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri URIID
		err := c.ShouldBindUri(&uri)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		var calculation models.Calculation
		err = models.DB.First(&calculation, uri.ID).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		// Get the fields that are set to be updated
		updateFields, err := httputil.GetBodyFields(c, CalculationEditable{})
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		var editable CalculationEditable
		err = httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		// A field missing from the body keeps its stored value instead of
		// being blanked
		if !slices.Contains(updateFields, any("Name")) {
			editable.Name = calculation.Name
		}
		if !slices.Contains(updateFields, any("Project")) {
			editable.Project = calculation.Project
		}
		if !slices.Contains(updateFields, any("Status")) {
			editable.Status = calculation.Status
		}
		if !slices.Contains(updateFields, any("CreatedBy")) {
			editable.CreatedBy = calculation.CreatedBy
		}

		// A request without a tree only updates the metadata
		if !treeSubmitted(editable.Tree) {
			editable.Tree = []byte(calculation.Payload)
		}

		tree, err := calc.ParsePayload(editable.Tree)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, CalculationResponse{
				Error: &e,
			})
			return
		}
		tree.Name = editable.Name
		tree.Project = editable.Project

		// Saving requires at least one section and a positive bid amount
		if err := calc.CheckSavable(tree); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, CalculationResponse{
				Error: &e,
			})
			return
		}

		payload, err := tree.Payload()
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		calculation.Name = editable.Name
		calculation.Project = editable.Project
		calculation.Status = editable.Status
		calculation.CreatedBy = editable.CreatedBy
		calculation.Amount = report.FormatCurrency(calc.Summarize(tree).BidAmount)
		calculation.Payload = string(payload)

		err = models.DB.Save(&calculation).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		data, err := newCalculation(c, calculation)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), CalculationResponse{
				Error: &e,
			})
			return
		}

		notifications.Publish(notify.Notification{
			Level:   notify.LevelSuccess,
			Message: fmt.Sprintf("Kalkylen %s sparades", calculation.Name),
		})

		c.JSON(http.StatusOK, CalculationResponse{Data: &data})
	}
}

// @Summary		Delete calculation
// @Description	Deletes a calculation
// @Tags			Calculations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/calculations/{id} [delete]
func DeleteCalculation(notifications *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri URIID
		err := c.ShouldBindUri(&uri)
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		var calculation models.Calculation
		err = models.DB.First(&calculation, uri.ID).Error
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		err = models.DB.Delete(&calculation).Error
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		notifications.Publish(notify.Notification{
			Level:   notify.LevelInfo,
			Message: fmt.Sprintf("Kalkylen %s togs bort", calculation.Name),
		})

		c.JSON(http.StatusNoContent, nil)
	}
}

// treeSubmitted reports whether the request body contains a tree. A JSON
// null binds to the literal bytes "null" in a RawMessage, not to nil.
func treeSubmitted(tree json.RawMessage) bool {
	return len(tree) > 0 && string(tree) != "null"
}

// editableTree builds the calculation tree for a newly created calculation,
// either from the submitted tree or from the selected template.
func editableTree(editable CalculationEditable) (*calc.Calculation, error) {
	if treeSubmitted(editable.Tree) {
		tree, err := calc.ParsePayload(editable.Tree)
		if err != nil {
			return nil, err
		}

		tree.Name = editable.Name
		tree.Project = editable.Project
		return tree, nil
	}

	id := editable.TemplateID
	if id == "" {
		id = "empty"
	}

	template, ok := calc.TemplateByID(id)
	if !ok {
		return nil, errTemplateNotFound
	}

	tree := calc.FromTemplate(template.Spec)
	tree.Name = editable.Name
	tree.Project = editable.Project
	return tree, nil
}

// storedCalculation converts the editable fields and the aggregated tree
// into the persisted form.
func storedCalculation(editable CalculationEditable, tree *calc.Calculation) (models.Calculation, error) {
	tree.Aggregate()

	payload, err := tree.Payload()
	if err != nil {
		return models.Calculation{}, err
	}

	return models.Calculation{
		Name:      editable.Name,
		Project:   editable.Project,
		Status:    editable.Status,
		CreatedBy: editable.CreatedBy,
		Amount:    report.FormatCurrency(calc.Summarize(tree).BidAmount),
		Payload:   string(payload),
	}, nil
}
