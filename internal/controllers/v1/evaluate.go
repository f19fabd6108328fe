package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalkyl-app/backend/internal/eval"
	"github.com/kalkyl-app/backend/internal/httputil"
	"github.com/shopspring/decimal"
)

// RegisterEvaluateRoutes registers the expression evaluation route with
// the RouterGroup that is passed.
func RegisterEvaluateRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsEvaluate)
	r.POST("", Evaluate)
}

type EvaluateRequest struct {
	Expression string `json:"expression" example:"2,5*4+10"` // The arithmetic expression to evaluate

	// Integer constrains the expression to integer arithmetic, for
	// quantity fields that only accept whole numbers
	Integer bool `json:"integer" example:"false" default:"false"`
}

type EvaluateResult struct {
	Value decimal.Decimal `json:"value" example:"20"` // The evaluated value
}

type EvaluateResponse struct {
	Error *string         `json:"error" example:"the expression could not be parsed"` // The error, if any occurred
	Data  *EvaluateResult `json:"data"`                                               // The result, if evaluation succeeded
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Evaluate
// @Success		204
// @Router			/v1/evaluate [options]
func OptionsEvaluate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Evaluate expression
// @Description	Evaluates an arithmetic expression the way the row editor does, including decimal comma input
// @Tags			Evaluate
// @Accept			json
// @Produce		json
// @Success		200			{object}	EvaluateResponse
// @Failure		400			{object}	EvaluateResponse
// @Param			expression	body		EvaluateRequest	true	"Expression"
// @Router			/v1/evaluate [post]
func Evaluate(c *gin.Context) {
	var request EvaluateRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EvaluateResponse{
			Error: &e,
		})
		return
	}

	var value decimal.Decimal
	if request.Integer {
		integer, err := eval.EvaluateInteger(request.Expression)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, EvaluateResponse{
				Error: &e,
			})
			return
		}
		value = decimal.NewFromInt(integer)
	} else {
		value, err = eval.Evaluate(request.Expression)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, EvaluateResponse{
				Error: &e,
			})
			return
		}
	}

	c.JSON(http.StatusOK, EvaluateResponse{
		Data: &EvaluateResult{Value: value},
	})
}
