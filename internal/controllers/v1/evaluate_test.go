package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/kalkyl-app/backend/internal/controllers/v1"
	"github.com/kalkyl-app/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestEvaluateOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/evaluate", "")

	assert.Equal(suite.T(), http.StatusNoContent, r.Code)
	assert.Equal(suite.T(), "OPTIONS, POST", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestEvaluate() {
	tests := []struct {
		name       string // Name for the test
		expression string // The expression to evaluate
		integer    bool   // Whether to use integer arithmetic
		status     int    // Expected HTTP status
		value      string // Expected value for successful evaluations
	}{
		{"Precedence", "2+3*4", false, http.StatusOK, "14"},
		{"Parentheses", "(2+3)*4", false, http.StatusOK, "20"},
		{"Decimal comma", "2,5+1", false, http.StatusOK, "3.5"},
		{"Integer division truncates", "7/2", true, http.StatusOK, "3"},
		{"Division by zero", "10/0", false, http.StatusBadRequest, ""},
		{"Empty expression", "   ", false, http.StatusBadRequest, ""},
		{"Decimal in integer mode", "3.5", true, http.StatusBadRequest, ""},
		{"Malformed", "1..2", false, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/evaluate", v1.EvaluateRequest{
				Expression: tt.expression,
				Integer:    tt.integer,
			})
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.EvaluateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.status == http.StatusOK {
				require.NotNil(t, response.Data)
				assert.True(t, response.Data.Value.Equal(decimalFromString(t, tt.value)), "Value is %s, should be %s", response.Data.Value, tt.value)
			} else {
				require.NotNil(t, response.Error)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestEvaluateEmptyBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/evaluate", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
