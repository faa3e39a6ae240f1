package partner

import (
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared"
)

// Customer buys on cash or installment
type Customer struct {
	CustomerID string `json:"customerId"`
	Contact
	FatherName string `json:"fatherName"`
	Occupation string `json:"occupation"`
	Timestamps
}

// CustomerDetails are the editable fields of a customer
type CustomerDetails struct {
	Contact
	FatherName string
	Occupation string
}

// NewCustomer creates a customer. CNIC is mandatory for customers.
func NewCustomer(id string, d CustomerDetails, now time.Time) (*Customer, error) {
	if id == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER_ID", "Customer ID is required")
	}
	c := &Customer{CustomerID: id, Timestamps: newTimestamps(now)}
	if err := c.Update(d, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Customer) Update(d CustomerDetails, now time.Time) error {
	contact, err := d.Contact.normalize(true)
	if err != nil {
		return err
	}
	c.Contact = contact
	c.FatherName = strings.TrimSpace(d.FatherName)
	c.Occupation = strings.TrimSpace(d.Occupation)
	c.UpdatedAt = now
	return nil
}

// RecordID implements shared.Record
func (c Customer) RecordID() string { return c.CustomerID }
