package calc

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// The mutation operations below are the only way the tree is edited. Each one
// either applies its edit or, when a referenced id does not exist, leaves the
// tree untouched. A missing id is not a user error: it means the caller acted
// on stale state, so it is logged at debug level and silently ignored.
//
// None of the operations aggregate. Callers must run Aggregate before reading
// amounts.

// RowPatch contains the user editable row fields. Only non-nil fields are
// applied, mirroring a PATCH request body.
type RowPatch struct {
	Description  *string
	Quantity     *decimal.Decimal
	Unit         *string
	PricePerUnit *decimal.Decimal
	Resource     *string
	Note         *string
}

// OptionPatch contains the user editable option fields.
type OptionPatch struct {
	Description  *string
	Quantity     *decimal.Decimal
	Unit         *string
	PricePerUnit *decimal.Decimal
}

// AddSection appends a new section with a fresh id and one default
// subsection.
func (c *Calculation) AddSection() {
	id := c.sectionID()

	c.Sections = append(c.Sections, Section{
		ID:       id,
		Name:     DefaultSectionName,
		Expanded: true,
		Subsections: []Subsection{
			{ID: 1, Name: DefaultSubsectionName, Expanded: true, Rows: []Row{}},
		},
	})
}

// RenameSection sets the name of a section.
func (c *Calculation) RenameSection(sectionID int, name string) {
	section := c.section(sectionID)
	if section == nil {
		return
	}

	section.Name = name
}

// DeleteSection removes a section and everything it owns. The id is never
// reused for later sections.
func (c *Calculation) DeleteSection(sectionID int) {
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			c.Sections = append(c.Sections[:i], c.Sections[i+1:]...)
			return
		}
	}

	logStale("section", sectionID)
}

// AddSubsection appends a subsection to the section. Subsection ids are
// scoped to their parent section.
func (c *Calculation) AddSubsection(sectionID int) {
	section := c.section(sectionID)
	if section == nil {
		return
	}

	section.Subsections = append(section.Subsections, Subsection{
		ID:       nextSubsectionID(section.Subsections),
		Name:     DefaultSubsectionName,
		Expanded: true,
		Rows:     []Row{},
	})
}

// RenameSubsection sets the name of a subsection.
func (c *Calculation) RenameSubsection(sectionID, subsectionID int, name string) {
	subsection := c.subsection(sectionID, subsectionID)
	if subsection == nil {
		return
	}

	subsection.Name = name
}

// DeleteSubsection removes a subsection and its rows.
func (c *Calculation) DeleteSubsection(sectionID, subsectionID int) {
	section := c.section(sectionID)
	if section == nil {
		return
	}

	for i := range section.Subsections {
		if section.Subsections[i].ID == subsectionID {
			section.Subsections = append(section.Subsections[:i], section.Subsections[i+1:]...)
			return
		}
	}

	logStale("subsection", subsectionID)
}

// AddRow appends a row with zeroed numeric fields, the default unit and no
// account selected. Row ids are scoped to their parent subsection.
func (c *Calculation) AddRow(sectionID, subsectionID int) {
	subsection := c.subsection(sectionID, subsectionID)
	if subsection == nil {
		return
	}

	subsection.Rows = append(subsection.Rows, Row{
		ID:   nextRowID(subsection.Rows),
		Unit: DefaultUnit,
	})
}

// UpdateRow applies the set fields of the patch to a row.
//
// Negative quantities and prices are rejected by the caller before the
// mutation is invoked; this operation does not re-validate.
func (c *Calculation) UpdateRow(sectionID, subsectionID, rowID int, patch RowPatch) {
	row := c.row(sectionID, subsectionID, rowID)
	if row == nil {
		return
	}

	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.Quantity != nil {
		row.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		row.Unit = *patch.Unit
	}
	if patch.PricePerUnit != nil {
		row.PricePerUnit = *patch.PricePerUnit
	}
	if patch.Resource != nil {
		row.Resource = *patch.Resource
	}
	if patch.Note != nil {
		row.Note = *patch.Note
	}
}

// UpdateRowCO2 sets the CO2 footprint of a row, either entered manually or
// selected from the CO2 reference database. The value is validated as ≥ 0 by
// the caller.
func (c *Calculation) UpdateRowCO2(sectionID, subsectionID, rowID int, value decimal.Decimal) {
	row := c.row(sectionID, subsectionID, rowID)
	if row == nil {
		return
	}

	row.CO2 = value
}

// SetRowAccount sets or, with nil, clears the bookkeeping account of a row.
func (c *Calculation) SetRowAccount(sectionID, subsectionID, rowID int, account *Account) {
	row := c.row(sectionID, subsectionID, rowID)
	if row == nil {
		return
	}

	row.Account = account
}

// DeleteRow removes a row.
func (c *Calculation) DeleteRow(sectionID, subsectionID, rowID int) {
	subsection := c.subsection(sectionID, subsectionID)
	if subsection == nil {
		return
	}

	for i := range subsection.Rows {
		if subsection.Rows[i].ID == rowID {
			subsection.Rows = append(subsection.Rows[:i], subsection.Rows[i+1:]...)
			return
		}
	}

	logStale("row", rowID)
}

// ToggleSection flips the expanded flag of a section. Pure view state, never
// touches amounts.
func (c *Calculation) ToggleSection(sectionID int) {
	section := c.section(sectionID)
	if section == nil {
		return
	}

	section.Expanded = !section.Expanded
}

// ToggleSubsection flips the expanded flag of a subsection.
func (c *Calculation) ToggleSubsection(sectionID, subsectionID int) {
	subsection := c.subsection(sectionID, subsectionID)
	if subsection == nil {
		return
	}

	subsection.Expanded = !subsection.Expanded
}

// ExpandAll sets the expanded flag on every node.
func (c *Calculation) ExpandAll() {
	c.setExpanded(true)
}

// CollapseAll clears the expanded flag on every node.
func (c *Calculation) CollapseAll() {
	c.setExpanded(false)
}

func (c *Calculation) setExpanded(expanded bool) {
	for i := range c.Sections {
		c.Sections[i].Expanded = expanded
		for j := range c.Sections[i].Subsections {
			c.Sections[i].Subsections[j].Expanded = expanded
			for k := range c.Sections[i].Subsections[j].Subsections {
				c.Sections[i].Subsections[j].Subsections[k].Expanded = expanded
			}
		}
	}
}

// AddOption appends an option row. Option ids are global to the calculation.
func (c *Calculation) AddOption() {
	c.Options = append(c.Options, OptionRow{
		ID:   nextOptionID(c.Options),
		Unit: DefaultUnit,
	})
}

// UpdateOption applies the set fields of the patch to an option.
func (c *Calculation) UpdateOption(optionID int, patch OptionPatch) {
	for i := range c.Options {
		if c.Options[i].ID != optionID {
			continue
		}

		option := &c.Options[i]
		if patch.Description != nil {
			option.Description = *patch.Description
		}
		if patch.Quantity != nil {
			option.Quantity = *patch.Quantity
		}
		if patch.Unit != nil {
			option.Unit = *patch.Unit
		}
		if patch.PricePerUnit != nil {
			option.PricePerUnit = *patch.PricePerUnit
		}
		return
	}

	logStale("option", optionID)
}

// DeleteOption removes an option row.
func (c *Calculation) DeleteOption(optionID int) {
	for i := range c.Options {
		if c.Options[i].ID == optionID {
			c.Options = append(c.Options[:i], c.Options[i+1:]...)
			return
		}
	}

	logStale("option", optionID)
}

func (c *Calculation) section(id int) *Section {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i]
		}
	}

	logStale("section", id)
	return nil
}

func (c *Calculation) subsection(sectionID, subsectionID int) *Subsection {
	section := c.section(sectionID)
	if section == nil {
		return nil
	}

	for i := range section.Subsections {
		if section.Subsections[i].ID == subsectionID {
			return &section.Subsections[i]
		}
	}

	logStale("subsection", subsectionID)
	return nil
}

func (c *Calculation) row(sectionID, subsectionID, rowID int) *Row {
	subsection := c.subsection(sectionID, subsectionID)
	if subsection == nil {
		return nil
	}

	for i := range subsection.Rows {
		if subsection.Rows[i].ID == rowID {
			return &subsection.Rows[i]
		}
	}

	logStale("row", rowID)
	return nil
}

func logStale(kind string, id int) {
	log.Debug().Str("kind", kind).Int("id", id).Msg("mutation target not found, ignoring stale edit")
}

// New ids are max(existing ∪ {0}) + 1 within the uniqueness scope. Section
// ids additionally track a high-water mark so deleting the highest section
// does not free its id for reuse.

// sectionID hands out the next section id. The mark is lazily seeded from the
// existing sections, covering trees built from payloads or templates.
func (c *Calculation) sectionID() int {
	for _, s := range c.Sections {
		if s.ID >= c.nextSectionID {
			c.nextSectionID = s.ID + 1
		}
	}
	if c.nextSectionID < 1 {
		c.nextSectionID = 1
	}

	id := c.nextSectionID
	c.nextSectionID++
	return id
}

func nextSubsectionID(subsections []Subsection) int {
	max := 0
	for _, s := range subsections {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

func nextRowID(rows []Row) int {
	max := 0
	for _, r := range rows {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

func nextOptionID(options []OptionRow) int {
	max := 0
	for _, o := range options {
		if o.ID > max {
			max = o.ID
		}
	}
	return max + 1
}
