package v1_test

import (
	"net/http"

	"github.com/kalkyl-app/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestNotificationsOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/notifications", "")

	assert.Equal(suite.T(), http.StatusNoContent, r.Code)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))
}
