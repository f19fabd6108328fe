package v1_test

import (
	"net/http"

	v1 "github.com/kalkyl-app/backend/internal/controllers/v1"
	"github.com/kalkyl-app/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestTemplatesOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/templates", "")

	assert.Equal(suite.T(), http.StatusNoContent, r.Code)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestGetTemplates() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/templates", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TemplateListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotEmpty(suite.T(), response.Data)

	ids := make([]string, 0, len(response.Data))
	for _, template := range response.Data {
		ids = append(ids, template.ID)
	}
	assert.Contains(suite.T(), ids, "empty")
	assert.Contains(suite.T(), ids, "nybyggnad-villa")
}

func (suite *TestSuiteStandard) TestGetTemplate() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/templates/nybyggnad-villa", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TemplateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "nybyggnad-villa", response.Data.ID)
	assert.NotEmpty(suite.T(), response.Data.Spec.Sections)
}

func (suite *TestSuiteStandard) TestGetTemplateNotFound() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/templates/finns-inte", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
