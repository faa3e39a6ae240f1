package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared"
)

// Supplier sells stock to the shop
type Supplier struct {
	SupplierID string `json:"supplierId"`
	Contact
	Company string `json:"company"`
	Email   string `json:"email"`
	Timestamps
}

// SupplierDetails are the editable fields of a supplier
type SupplierDetails struct {
	Contact
	Company string
	Email   string
}

// NewSupplier creates a supplier. CNIC is optional for suppliers.
func NewSupplier(id string, d SupplierDetails, now time.Time) (*Supplier, error) {
	if id == "" {
		return nil, shared.NewValidationError("INVALID_SUPPLIER_ID", "Supplier ID is required")
	}
	s := &Supplier{SupplierID: id, Timestamps: newTimestamps(now)}
	if err := s.Update(d, now); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable fields
func (s *Supplier) Update(d SupplierDetails, now time.Time) error {
	contact, err := d.Contact.normalize(false)
	if err != nil {
		return err
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	s.Contact = contact
	s.Company = strings.TrimSpace(d.Company)
	s.Email = strings.ToLower(email)
	s.UpdatedAt = now
	return nil
}

// RecordID implements shared.Record
func (s Supplier) RecordID() string { return s.SupplierID }
