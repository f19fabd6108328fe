package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalkyl-app/backend/internal/calc"
	"github.com/kalkyl-app/backend/internal/httputil"
	"github.com/kalkyl-app/backend/internal/models"
	"github.com/kalkyl-app/backend/internal/report"
)

// exportFormats maps the format URI parameter to the writer and the
// content type of the download.
var exportFormats = map[string]struct {
	contentType string
	extension   string
	write       func(*bytes.Buffer, *calc.Calculation) error
}{
	"csv": {
		contentType: "text/csv; charset=utf-8",
		extension:   "csv",
		write: func(buffer *bytes.Buffer, tree *calc.Calculation) error {
			return report.WriteCSV(buffer, tree)
		},
	},
	"pdf": {
		contentType: "application/pdf",
		extension:   "pdf",
		write: func(buffer *bytes.Buffer, tree *calc.Calculation) error {
			return report.WritePDF(buffer, tree)
		},
	},
	"xlsx": {
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		extension:   "xlsx",
		write: func(buffer *bytes.Buffer, tree *calc.Calculation) error {
			return report.WriteXLSX(buffer, tree)
		},
	},
}

// RegisterExportRoutes registers the export routes for calculations with
// the RouterGroup that is passed.
func RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/export/:format", OptionsExport)
	r.GET("/:id/export/:format", GetExport)
}

type exportURI struct {
	URIID
	Format string `uri:"format" binding:"required"` // Export format, one of csv, pdf or xlsx
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calculations
// @Success		204
// @Failure		400	{object}	httpError
// @Router			/v1/calculations/{id}/export/{format} [options]
func OptionsExport(c *gin.Context) {
	var uri exportURI
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if _, ok := exportFormats[uri.Format]; !ok {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errExportFormat.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Export calculation
// @Description	Renders the calculation in the requested format and returns it as a file download
// @Tags			Calculations
// @Produce		text/csv
// @Produce		application/pdf
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			format	path	string	true	"Export format, one of csv, pdf or xlsx"
// @Router			/v1/calculations/{id}/export/{format} [get]
func GetExport(c *gin.Context) {
	var uri exportURI
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	format, ok := exportFormats[uri.Format]
	if !ok {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errExportFormat.Error(),
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

	tree, err := calc.ParsePayload([]byte(calculation.Payload))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var buffer bytes.Buffer
	err = format.write(&buffer, tree)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	filename := calculation.Name
	if filename == "" {
		filename = "kalkyl"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+"."+format.extension))
	c.Data(http.StatusOK, format.contentType, buffer.Bytes())
}
