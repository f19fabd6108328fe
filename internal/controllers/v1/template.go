package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalkyl-app/backend/internal/calc"
	"github.com/kalkyl-app/backend/internal/httputil"
)

// RegisterTemplateRoutes registers the routes for templates with
// the RouterGroup that is passed.
func RegisterTemplateRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTemplates)
	r.GET("", GetTemplates)

	r.OPTIONS("/:id", OptionsTemplateDetail)
	r.GET("/:id", GetTemplate)
}

type templateURI struct {
	ID string `uri:"id" binding:"required"` // ID of the template
}

type TemplateResponse struct {
	Error *string        `json:"error" example:"there is no template with the specified ID"` // The error, if any occurred
	Data  *calc.Template `json:"data"`                                                       // The template data
}

type TemplateListResponse struct {
	Error *string         `json:"error"` // The error, if any occurred
	Data  []calc.Template `json:"data"`  // List of templates
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Templates
// @Success		204
// @Router			/v1/templates [options]
func OptionsTemplates(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Templates
// @Success		204
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID of the template"
// @Router			/v1/templates/{id} [options]
func OptionsTemplateDetail(c *gin.Context) {
	var uri templateURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	if _, ok := calc.TemplateByID(uri.ID); !ok {
		c.JSON(http.StatusNotFound, httpError{
			Error: errTemplateNotFound.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		List templates
// @Description	Returns the catalog of calculation templates
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	TemplateListResponse
// @Router			/v1/templates [get]
func GetTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, TemplateListResponse{
		Data: calc.Templates(),
	})
}

// @Summary		Get template
// @Description	Returns a specific calculation template
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	TemplateResponse
// @Failure		404	{object}	TemplateResponse
// @Param			id	path		string	true	"ID of the template"
// @Router			/v1/templates/{id} [get]
func GetTemplate(c *gin.Context) {
	var uri templateURI
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TemplateResponse{
			Error: &e,
		})
		return
	}

	template, ok := calc.TemplateByID(uri.ID)
	if !ok {
		e := errTemplateNotFound.Error()
		c.JSON(http.StatusNotFound, TemplateResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, TemplateResponse{Data: &template})
}
