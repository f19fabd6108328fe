package calc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountSentinel is the magic string legacy payloads use for "no account
// selected". It only exists at the payload boundary; inside the tree an unset
// account is nil.
const AccountSentinel = "Välj konto"

var (
	ErrInvalidPayload  = errors.New("the calculation payload is invalid")
	ErrNegativePayload = errors.New("the calculation payload contains negative values")
)

// The payload types mirror the tree with every optional field as a pointer so
// that missing fields can be defaulted explicitly. Persisted payloads come
// from untrusted storage of unknown age, so every level is validated instead
// of trusting the structure.

type payloadCalculation struct {
	Version   int              `json:"version"`
	Name      *string          `json:"name"`
	Project   *string          `json:"project"`
	Rate      *decimal.Decimal `json:"rate"`
	Area      *decimal.Decimal `json:"area"`
	CO2Budget *decimal.Decimal `json:"co2Budget"`
	Sections  []payloadSection `json:"sections"`
	Options   []payloadOption  `json:"options"`
}

type payloadSection struct {
	ID          *int                `json:"id"`
	Name        *string             `json:"name"`
	Expanded    *bool               `json:"expanded"`
	Subsections []payloadSubsection `json:"subsections"`
}

type payloadSubsection struct {
	ID       *int         `json:"id"`
	Name     *string      `json:"name"`
	Expanded *bool        `json:"expanded"`
	Rows     []payloadRow `json:"rows"`

	// Legacy second nesting level, same shape minus further nesting
	Subsections []payloadSubsection `json:"subsections"`
}

type payloadRow struct {
	ID           *int             `json:"id"`
	Description  *string          `json:"description"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit"`
	CO2          *decimal.Decimal `json:"co2"`
	Account      *string          `json:"account"`
	Resource     *string          `json:"resource"`
	Note         *string          `json:"note"`
}

type payloadOption struct {
	ID           *int             `json:"id"`
	Description  *string          `json:"description"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit"`
}

// ParsePayload reconstructs a calculation tree from a persisted JSON payload.
// Each level is validated, missing optional fields are defaulted and the
// account sentinel is translated to an unset account. The returned tree is
// aggregated.
func ParsePayload(data []byte) (*Calculation, error) {
	var payload payloadCalculation

	// Unknown fields are tolerated: older writers persisted derived amounts
	// alongside the source data, those are re-derived instead of read back
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}

	calculation := &Calculation{
		Name:      stringOr(payload.Name, ""),
		Project:   stringOr(payload.Project, ""),
		Rate:      decimalOr(payload.Rate),
		Area:      decimalOr(payload.Area),
		CO2Budget: decimalOr(payload.CO2Budget),
		Sections:  make([]Section, 0, len(payload.Sections)),
		Options:   make([]OptionRow, 0, len(payload.Options)),
	}

	if err := checkNonNegative(calculation.Rate, calculation.Area, calculation.CO2Budget); err != nil {
		return nil, err
	}

	for _, s := range payload.Sections {
		section, err := parseSection(s)
		if err != nil {
			return nil, err
		}
		calculation.Sections = append(calculation.Sections, section)
	}

	for _, o := range payload.Options {
		option, err := parseOption(o)
		if err != nil {
			return nil, err
		}
		calculation.Options = append(calculation.Options, option)
	}

	calculation.Aggregate()
	return calculation, nil
}

// Payload serializes the tree into its persisted JSON form. Unset accounts
// are written as the sentinel so that legacy readers keep working.
func (c *Calculation) Payload() ([]byte, error) {
	payload := payloadCalculation{
		Version:   1,
		Name:      &c.Name,
		Project:   &c.Project,
		Rate:      &c.Rate,
		Area:      &c.Area,
		CO2Budget: &c.CO2Budget,
		Sections:  make([]payloadSection, 0, len(c.Sections)),
		Options:   make([]payloadOption, 0, len(c.Options)),
	}

	for i := range c.Sections {
		payload.Sections = append(payload.Sections, buildSection(&c.Sections[i]))
	}

	for i := range c.Options {
		o := &c.Options[i]
		payload.Options = append(payload.Options, payloadOption{
			ID:           &o.ID,
			Description:  &o.Description,
			Quantity:     &o.Quantity,
			Unit:         &o.Unit,
			PricePerUnit: &o.PricePerUnit,
		})
	}

	return json.Marshal(payload)
}

func parseSection(p payloadSection) (Section, error) {
	if p.ID == nil {
		return Section{}, fmt.Errorf("%w: section without id", ErrInvalidPayload)
	}

	section := Section{
		ID:          *p.ID,
		Name:        stringOr(p.Name, DefaultSectionName),
		Expanded:    boolOr(p.Expanded, true),
		Subsections: make([]Subsection, 0, len(p.Subsections)),
	}

	for _, s := range p.Subsections {
		subsection, err := parseSubsection(s)
		if err != nil {
			return Section{}, err
		}
		section.Subsections = append(section.Subsections, subsection)
	}

	return section, nil
}

func parseSubsection(p payloadSubsection) (Subsection, error) {
	if p.ID == nil {
		return Subsection{}, fmt.Errorf("%w: subsection without id", ErrInvalidPayload)
	}

	subsection := Subsection{
		ID:       *p.ID,
		Name:     stringOr(p.Name, DefaultSubsectionName),
		Expanded: boolOr(p.Expanded, true),
		Rows:     make([]Row, 0, len(p.Rows)),
	}

	for _, r := range p.Rows {
		row, err := parseRow(r)
		if err != nil {
			return Subsection{}, err
		}
		subsection.Rows = append(subsection.Rows, row)
	}

	// A third nesting level inside a sub-subsection is rejected rather than
	// silently dropped
	for _, nested := range p.Subsections {
		if len(nested.Subsections) > 0 {
			return Subsection{}, fmt.Errorf("%w: nesting deeper than sub-subsections", ErrInvalidPayload)
		}

		if nested.ID == nil {
			return Subsection{}, fmt.Errorf("%w: sub-subsection without id", ErrInvalidPayload)
		}

		nestedSub := SubSubsection{
			ID:       *nested.ID,
			Name:     stringOr(nested.Name, DefaultSubsectionName),
			Expanded: boolOr(nested.Expanded, true),
			Rows:     make([]Row, 0, len(nested.Rows)),
		}
		for _, r := range nested.Rows {
			row, err := parseRow(r)
			if err != nil {
				return Subsection{}, err
			}
			nestedSub.Rows = append(nestedSub.Rows, row)
		}

		subsection.Subsections = append(subsection.Subsections, nestedSub)
	}

	return subsection, nil
}

func parseRow(p payloadRow) (Row, error) {
	if p.ID == nil {
		return Row{}, fmt.Errorf("%w: row without id", ErrInvalidPayload)
	}

	row := Row{
		ID:           *p.ID,
		Description:  stringOr(p.Description, ""),
		Quantity:     decimalOr(p.Quantity),
		Unit:         stringOr(p.Unit, DefaultUnit),
		PricePerUnit: decimalOr(p.PricePerUnit),
		CO2:          decimalOr(p.CO2),
		Account:      parseAccount(p.Account),
		Resource:     stringOr(p.Resource, ""),
		Note:         stringOr(p.Note, ""),
	}

	if err := checkNonNegative(row.Quantity, row.PricePerUnit, row.CO2); err != nil {
		return Row{}, err
	}

	return row, nil
}

func parseOption(p payloadOption) (OptionRow, error) {
	if p.ID == nil {
		return OptionRow{}, fmt.Errorf("%w: option without id", ErrInvalidPayload)
	}

	option := OptionRow{
		ID:           *p.ID,
		Description:  stringOr(p.Description, ""),
		Quantity:     decimalOr(p.Quantity),
		Unit:         stringOr(p.Unit, DefaultUnit),
		PricePerUnit: decimalOr(p.PricePerUnit),
	}

	if err := checkNonNegative(option.Quantity, option.PricePerUnit); err != nil {
		return OptionRow{}, err
	}

	return option, nil
}

// parseAccount translates the payload account string. The sentinel and the
// empty string both mean "no account selected". Everything else is a
// bookkeeping account code, optionally followed by its description.
func parseAccount(s *string) *Account {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*s)
	if trimmed == "" || trimmed == AccountSentinel {
		return nil
	}

	code, description, _ := strings.Cut(trimmed, " ")
	return &Account{Code: code, Description: description}
}

func formatAccount(a *Account) string {
	if a == nil {
		return AccountSentinel
	}

	if a.Description == "" {
		return a.Code
	}

	return a.Code + " " + a.Description
}

func buildSection(s *Section) payloadSection {
	section := payloadSection{
		ID:          &s.ID,
		Name:        &s.Name,
		Expanded:    &s.Expanded,
		Subsections: make([]payloadSubsection, 0, len(s.Subsections)),
	}

	for i := range s.Subsections {
		sub := &s.Subsections[i]

		subsection := payloadSubsection{
			ID:       &sub.ID,
			Name:     &sub.Name,
			Expanded: &sub.Expanded,
			Rows:     buildRows(sub.Rows),
		}

		for j := range sub.Subsections {
			nested := &sub.Subsections[j]
			subsection.Subsections = append(subsection.Subsections, payloadSubsection{
				ID:       &nested.ID,
				Name:     &nested.Name,
				Expanded: &nested.Expanded,
				Rows:     buildRows(nested.Rows),
			})
		}

		section.Subsections = append(section.Subsections, subsection)
	}

	return section
}

func buildRows(rows []Row) []payloadRow {
	built := make([]payloadRow, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		account := formatAccount(r.Account)
		built = append(built, payloadRow{
			ID:           &r.ID,
			Description:  &r.Description,
			Quantity:     &r.Quantity,
			Unit:         &r.Unit,
			PricePerUnit: &r.PricePerUnit,
			CO2:          &r.CO2,
			Account:      &account,
			Resource:     &r.Resource,
			Note:         &r.Note,
		})
	}

	return built
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func decimalOr(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func checkNonNegative(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return ErrNegativePayload
		}
	}

	return nil
}
