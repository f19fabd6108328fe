package calc

import "github.com/shopspring/decimal"

// Template is a catalog entry used to seed a new calculation.
type Template struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Popular     bool         `json:"popular"`
	Spec        TemplateSpec `json:"template"`
}

// TemplateSpec describes the initial tree of a template.
type TemplateSpec struct {
	Name     string            `json:"name"`
	Sections []TemplateSection `json:"sections"`
}

type TemplateSection struct {
	Name string        `json:"name"`
	Rows []TemplateRow `json:"rows,omitempty"`
}

type TemplateRow struct {
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

// FromTemplate builds a fresh, aggregated calculation from a template spec.
// Every section gets one subsection holding the template rows, with ids
// assigned by the normal max+1 scheme.
func FromTemplate(spec TemplateSpec) *Calculation {
	calculation := &Calculation{
		Name:     spec.Name,
		Sections: make([]Section, 0, len(spec.Sections)),
		Options:  []OptionRow{},
	}

	for _, sectionSpec := range spec.Sections {
		calculation.AddSection()

		section := &calculation.Sections[len(calculation.Sections)-1]
		section.Name = sectionSpec.Name

		for _, rowSpec := range sectionSpec.Rows {
			calculation.AddRow(section.ID, section.Subsections[0].ID)

			row := &section.Subsections[0].Rows[len(section.Subsections[0].Rows)-1]
			row.Description = rowSpec.Description
			row.Quantity = rowSpec.Quantity
			row.PricePerUnit = rowSpec.PricePerUnit
			if rowSpec.Unit != "" {
				row.Unit = rowSpec.Unit
			}
		}
	}

	calculation.Aggregate()
	return calculation
}

// templates is the built-in catalog. Catalog storage is a collaborator
// concern; the backend only needs a stable read-only list to seed from.
var templates = []Template{
	{
		ID:          "empty",
		Title:       "Tom kalkyl",
		Description: "Tre tomma sektioner utan rader",
		Popular:     true,
		Spec: TemplateSpec{
			Name: "Ny kalkyl",
			Sections: []TemplateSection{
				{Name: "Mark och grund"},
				{Name: "Stomme"},
				{Name: "Installationer"},
			},
		},
	},
	{
		ID:          "nybyggnad-villa",
		Title:       "Nybyggnad villa",
		Description: "Komplett sektionsindelning för nybyggnad av småhus",
		Popular:     true,
		Spec: TemplateSpec{
			Name: "Nybyggnad villa",
			Sections: []TemplateSection{
				{Name: "Etablering", Rows: []TemplateRow{
					{Description: "Bodar och stängsel", Quantity: decimal.NewFromInt(1), Unit: "st", PricePerUnit: decimal.NewFromInt(45000)},
				}},
				{Name: "Mark och grund", Rows: []TemplateRow{
					{Description: "Schakt", Quantity: decimal.NewFromInt(120), Unit: "m3", PricePerUnit: decimal.NewFromInt(180)},
					{Description: "Platta på mark", Quantity: decimal.NewFromInt(140), Unit: "m2", PricePerUnit: decimal.NewFromInt(1450)},
				}},
				{Name: "Stomme och tak"},
				{Name: "Installationer"},
				{Name: "Invändig komplettering"},
			},
		},
	},
	{
		ID:          "rot-renovering",
		Title:       "ROT-renovering",
		Description: "Sektionsindelning för renovering och ombyggnad",
		Popular:     false,
		Spec: TemplateSpec{
			Name: "ROT-renovering",
			Sections: []TemplateSection{
				{Name: "Rivning"},
				{Name: "Stomkomplettering"},
				{Name: "Ytskikt"},
				{Name: "Installationer"},
			},
		},
	},
}

// Templates returns the built-in template catalog.
func Templates() []Template {
	return templates
}

// TemplateByID looks up a catalog entry. The second return value reports
// whether it exists.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}

	return Template{}, false
}
