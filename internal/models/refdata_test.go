package models_test

import (
	"github.com/kalkyl-app/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestReferenceDataSeeded() {
	var units []models.UnitType
	require.Nil(suite.T(), models.DB.Find(&units).Error)
	assert.NotEmpty(suite.T(), units)

	var accounts []models.Account
	require.Nil(suite.T(), models.DB.Find(&accounts).Error)
	assert.NotEmpty(suite.T(), accounts)

	var items []models.CO2Item
	require.Nil(suite.T(), models.DB.Find(&items).Error)
	assert.NotEmpty(suite.T(), items)
}

func (suite *TestSuiteStandard) TestCO2ItemDecimal() {
	item := models.CO2Item{
		Name: "Cellplast EPS",
		Unit: "m3",
		CO2:  decimal.NewFromFloat(87.4),
	}

	require.Nil(suite.T(), models.DB.Create(&item).Error)

	var read models.CO2Item
	require.Nil(suite.T(), models.DB.First(&read, item.ID).Error)

	assert.True(suite.T(), read.CO2.Equal(decimal.NewFromFloat(87.4)), "CO2 is %s, should be 87.4", read.CO2)
}

// Seeding must leave operator-maintained rows alone: the seed only runs on
// empty tables.
func (suite *TestSuiteStandard) TestSeedOnlyOnEmptyTables() {
	var before int64
	require.Nil(suite.T(), models.DB.Model(&models.Account{}).Count(&before).Error)

	account := models.Account{Code: "4011", Description: "Inköp material utland"}
	require.Nil(suite.T(), models.DB.Create(&account).Error)

	var after int64
	require.Nil(suite.T(), models.DB.Model(&models.Account{}).Count(&after).Error)
	assert.Equal(suite.T(), before+1, after)
}
