package models_test

import (
	"github.com/kalkyl-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCalculationTrimWhitespace() {
	calculation := models.Calculation{
		Name:    "  Garage Andersson\t",
		Project: " Villa Ekbacken ",
		Payload: "{}",
	}

	err := models.DB.Create(&calculation).Error
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), "Garage Andersson", calculation.Name)
	assert.Equal(suite.T(), "Villa Ekbacken", calculation.Project)
}

func (suite *TestSuiteStandard) TestCalculationDefaultStatus() {
	calculation := models.Calculation{
		Name:    "Utan status",
		Payload: "{}",
	}

	err := models.DB.Create(&calculation).Error
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), models.StatusDraft, calculation.Status)
}

func (suite *TestSuiteStandard) TestCalculationNameUniquePerProject() {
	err := models.DB.Create(&models.Calculation{
		Name:    "Garage",
		Project: "Villa Ekbacken",
		Payload: "{}",
	}).Error
	require.Nil(suite.T(), err)

	// The same name in another project is fine
	err = models.DB.Create(&models.Calculation{
		Name:    "Garage",
		Project: "Villa Tallbacken",
		Payload: "{}",
	}).Error
	require.Nil(suite.T(), err)

	// The same name in the same project is not
	err = models.DB.Create(&models.Calculation{
		Name:    "Garage",
		Project: "Villa Ekbacken",
		Payload: "{}",
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrCalculationNameNotUnique)
}

func (suite *TestSuiteStandard) TestCalculationNotFound() {
	var calculation models.Calculation
	err := models.DB.First(&calculation, "id = ?", "f2d8ae7a-0000-0000-0000-000000000000").Error

	require.NotNil(suite.T(), err)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Contains(suite.T(), err.Error(), "there is no calculation matching your query")
}

func (suite *TestSuiteStandard) TestCalculationClosedDB() {
	suite.CloseDB()

	var calculation models.Calculation
	err := models.DB.First(&calculation, "id = ?", "f2d8ae7a-0000-0000-0000-000000000000").Error

	assert.ErrorIs(suite.T(), err, models.ErrGeneral)
}
