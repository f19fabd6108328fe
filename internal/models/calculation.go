package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status of a persisted calculation.
//
// swagger:enum Status
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Calculation is the persisted form of a cost estimation. The tree itself is
// stored as an opaque JSON payload; the backend is a pass-through for it and
// only the listing columns are kept relational.
type Calculation struct {
	DefaultModel
	Name    string `gorm:"uniqueIndex:calculation_name_project"`
	Project string `gorm:"uniqueIndex:calculation_name_project"`
	Status  Status

	// Amount is the bid amount as a pre-formatted localized currency
	// string. It is formatted before saving and never parsed back into the
	// tree, which re-derives its own totals from the payload.
	Amount string

	CreatedBy string

	// Revision points to the calculation this one revises, if any
	Revision *uuid.UUID

	Payload string `gorm:"type:TEXT"`
}

func (c *Calculation) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Project = strings.TrimSpace(c.Project)

	if c.Status == "" {
		c.Status = StatusDraft
	}

	return nil
}
