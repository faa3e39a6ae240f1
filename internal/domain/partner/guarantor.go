package partner

import (
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared"
)

// Guarantor vouches for a customer's installment sale
type Guarantor struct {
	GuarantorID string `json:"guarantorId"`
	Contact
	FatherName string `json:"fatherName"`
	Relation   string `json:"relation"`
	Timestamps
}

// GuarantorDetails are the editable fields of a guarantor
type GuarantorDetails struct {
	Contact
	FatherName string
	Relation   string
}

// NewGuarantor creates a guarantor. CNIC is mandatory.
func NewGuarantor(id string, d GuarantorDetails, now time.Time) (*Guarantor, error) {
	if id == "" {
		return nil, shared.NewValidationError("INVALID_GUARANTOR_ID", "Guarantor ID is required")
	}
	g := &Guarantor{GuarantorID: id, Timestamps: newTimestamps(now)}
	if err := g.Update(d, now); err != nil {
		return nil, err
	}
	return g, nil
}

// Update replaces the editable fields
func (g *Guarantor) Update(d GuarantorDetails, now time.Time) error {
	contact, err := d.Contact.normalize(true)
	if err != nil {
		return err
	}
	g.Contact = contact
	g.FatherName = strings.TrimSpace(d.FatherName)
	g.Relation = strings.TrimSpace(d.Relation)
	g.UpdatedAt = now
	return nil
}

// RecordID implements shared.Record
func (g Guarantor) RecordID() string { return g.GuarantorID }
