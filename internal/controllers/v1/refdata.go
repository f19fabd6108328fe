package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kalkyl-app/backend/internal/httputil"
	"github.com/kalkyl-app/backend/internal/models"
	"github.com/ryanuber/go-glob"
)

// The reference data endpoints serve the lookup lists for the row editor:
// unit codes, bookkeeping accounts and the CO2 database. The tables are
// small, so searching filters in memory after reading the full list.

// RegisterUnitRoutes registers the routes for unit types with
// the RouterGroup that is passed.
func RegisterUnitRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsUnits)
	r.GET("", GetUnits)
}

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func RegisterAccountRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAccounts)
	r.GET("", GetAccounts)
}

// RegisterCO2ItemRoutes registers the routes for CO2 items with
// the RouterGroup that is passed.
func RegisterCO2ItemRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCO2Items)
	r.GET("", GetCO2Items)
}

type searchQuery struct {
	Search string `form:"search"` // Case-insensitive substring match
}

// searchGlob converts the search parameter into the glob pattern that is
// matched against the candidate fields.
func searchGlob(search string) string {
	return "*" + strings.ToLower(search) + "*"
}

type UnitListResponse struct {
	Error *string           `json:"error"` // The error, if any occurred
	Data  []models.UnitType `json:"data"`  // List of unit types
}

type AccountListResponse struct {
	Error *string          `json:"error"` // The error, if any occurred
	Data  []models.Account `json:"data"`  // List of accounts
}

type CO2ItemListResponse struct {
	Error *string          `json:"error"` // The error, if any occurred
	Data  []models.CO2Item `json:"data"`  // List of CO2 items
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ReferenceData
// @Success		204
// @Router			/v1/units [options]
func OptionsUnits(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		List unit types
// @Description	Returns the unit codes selectable on rows
// @Tags			ReferenceData
// @Produce		json
// @Success		200	{object}	UnitListResponse
// @Failure		500	{object}	UnitListResponse
// @Router			/v1/units [get]
func GetUnits(c *gin.Context) {
	var units []models.UnitType
	err := models.DB.Order("code ASC").Find(&units).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, UnitListResponse{Data: units})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ReferenceData
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccounts(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		List accounts
// @Description	Returns the bookkeeping accounts selectable on rows
// @Tags			ReferenceData
// @Produce		json
// @Success		200	{object}	AccountListResponse
// @Failure		400	{object}	AccountListResponse
// @Failure		500	{object}	AccountListResponse
// @Param			search	query	string	false	"Only return accounts whose code or description contains this string"
// @Router			/v1/accounts [get]
func GetAccounts(c *gin.Context) {
	var query searchQuery
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountListResponse{
			Error: &e,
		})
		return
	}

	var accounts []models.Account
	err := models.DB.Order("code ASC").Find(&accounts).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountListResponse{
			Error: &e,
		})
		return
	}

	if query.Search != "" {
		pattern := searchGlob(query.Search)

		matches := make([]models.Account, 0)
		for _, account := range accounts {
			if glob.Glob(pattern, strings.ToLower(account.Code)) || glob.Glob(pattern, strings.ToLower(account.Description)) {
				matches = append(matches, account)
			}
		}
		accounts = matches
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: accounts})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ReferenceData
// @Success		204
// @Router			/v1/co2-items [options]
func OptionsCO2Items(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		List CO2 items
// @Description	Returns the CO2 reference database
// @Tags			ReferenceData
// @Produce		json
// @Success		200	{object}	CO2ItemListResponse
// @Failure		400	{object}	CO2ItemListResponse
// @Failure		500	{object}	CO2ItemListResponse
// @Param			search	query	string	false	"Only return items whose name contains this string"
// @Router			/v1/co2-items [get]
func GetCO2Items(c *gin.Context) {
	var query searchQuery
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CO2ItemListResponse{
			Error: &e,
		})
		return
	}

	var items []models.CO2Item
	err := models.DB.Order("name ASC").Find(&items).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CO2ItemListResponse{
			Error: &e,
		})
		return
	}

	if query.Search != "" {
		pattern := searchGlob(query.Search)

		matches := make([]models.CO2Item, 0)
		for _, item := range items {
			if glob.Glob(pattern, strings.ToLower(item.Name)) {
				matches = append(matches, item)
			}
		}
		items = matches
	}

	c.JSON(http.StatusOK, CO2ItemListResponse{Data: items})
}
