package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The reference data tables are read-only lookup lists merged into row
// fields by the editing UI. They never influence aggregation.

// UnitType is a unit code selectable on rows, e.g. m2 or st.
type UnitType struct {
	Code string `json:"code" gorm:"primaryKey" example:"m2"`
}

// Account is a bookkeeping account selectable on rows.
type Account struct {
	Code        string `json:"code" gorm:"primaryKey" example:"4010"`
	Description string `json:"description" example:"Inköp material och varor"`
}

// CO2Item is an entry of the CO2 reference database. CO2 is the footprint in
// kg per reference unit; selecting an item sets the row's absolute CO2 value.
type CO2Item struct {
	DefaultModel
	Name string          `json:"name" example:"Betong C25/30"`
	Unit string          `json:"unit" example:"m3"`
	CO2  decimal.Decimal `json:"co2" gorm:"type:DECIMAL(20,8)" example:"265"`
}

var defaultUnitTypes = []UnitType{
	{Code: "m"}, {Code: "m2"}, {Code: "m3"}, {Code: "st"}, {Code: "kg"}, {Code: "tim"},
}

var defaultAccounts = []Account{
	{Code: "4010", Description: "Inköp material och varor"},
	{Code: "4050", Description: "Legoarbeten och underentreprenader"},
	{Code: "5010", Description: "Lokalhyra"},
	{Code: "5410", Description: "Förbrukningsinventarier"},
	{Code: "7010", Description: "Löner kollektivanställda"},
}

var defaultCO2Items = []CO2Item{
	{Name: "Betong C25/30", Unit: "m3", CO2: decimal.NewFromInt(265)},
	{Name: "Konstruktionsstål", Unit: "kg", CO2: decimal.NewFromFloat(1.77)},
	{Name: "KL-trä", Unit: "m3", CO2: decimal.NewFromInt(63)},
	{Name: "Mineralull", Unit: "m3", CO2: decimal.NewFromFloat(24.2)},
	{Name: "Gipsskiva 12.5mm", Unit: "m2", CO2: decimal.NewFromFloat(2.3)},
}

// seedReferenceData fills the lookup tables on first start. Existing rows
// are left alone so that operators can maintain their own lists.
func seedReferenceData(db *gorm.DB) error {
	seeds := []struct {
		name  string
		model any
		rows  any
	}{
		{"unit_types", &UnitType{}, &defaultUnitTypes},
		{"accounts", &Account{}, &defaultAccounts},
		{"co2_items", &CO2Item{}, &defaultCO2Items},
	}

	for _, seed := range seeds {
		var count int64
		if err := db.Model(seed.model).Count(&count).Error; err != nil {
			return fmt.Errorf("error counting %s: %w", seed.name, err)
		}

		if count > 0 {
			continue
		}

		if err := db.Create(seed.rows).Error; err != nil {
			return fmt.Errorf("error seeding %s: %w", seed.name, err)
		}
	}

	return nil
}
