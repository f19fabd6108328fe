package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/kalkyl-app/backend/internal/controllers/v1"
	"github.com/kalkyl-app/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestReferenceDataOptions() {
	for _, path := range []string{"units", "accounts", "co2-items"} {
		suite.T().Run(path, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, "http://example.com/v1/"+path, "")

			assert.Equal(t, http.StatusNoContent, r.Code)
			assert.Equal(t, "OPTIONS, GET", r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestGetUnits() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/units", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UnitListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	codes := make([]string, 0, len(response.Data))
	for _, unit := range response.Data {
		codes = append(codes, unit.Code)
	}

	assert.Contains(suite.T(), codes, "m2")
	assert.Contains(suite.T(), codes, "st")
}

func (suite *TestSuiteStandard) TestGetAccounts() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotEmpty(suite.T(), response.Data)
}

func (suite *TestSuiteStandard) TestGetAccountsSearch() {
	tests := []struct {
		name   string // Name for the test
		search string // The search parameter
		codes  []string
	}{
		{"By description", "material", []string{"4010"}},
		{"By code", "70", []string{"7010"}},
		{"Case insensitive", "LOKALHYRA", []string{"5010"}},
		{"No match", "finnsinte", []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/accounts?search="+tt.search, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.AccountListResponse
			test.DecodeResponse(t, &r, &response)

			codes := make([]string, 0, len(response.Data))
			for _, account := range response.Data {
				codes = append(codes, account.Code)
			}

			assert.Equal(t, tt.codes, codes)
		})
	}
}

func (suite *TestSuiteStandard) TestGetCO2Items() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/co2-items", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CO2ItemListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotEmpty(suite.T(), response.Data)
}

func (suite *TestSuiteStandard) TestGetCO2ItemsSearch() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/co2-items?search=betong", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CO2ItemListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Betong C25/30", response.Data[0].Name)
}
