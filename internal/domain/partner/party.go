// Package partner holds the customer, guarantor and supplier registries.
package partner

import (
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
)

// Contact is the identity and contact block shared by every registry record
type Contact struct {
	Name    string `json:"name"`
	CNIC    string `json:"cnic"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// normalize trims the fields, formats CNIC and phone, and validates them.
// cnicRequired controls whether an empty CNIC is accepted.
func (c Contact) normalize(cnicRequired bool) (Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	if c.Name == "" {
		return c, shared.NewValidationError("INVALID_NAME", "Name is required")
	}
	if len(c.Name) > 100 {
		return c, shared.NewValidationError("INVALID_NAME", "Name cannot exceed 100 characters")
	}

	if strings.TrimSpace(c.CNIC) != "" || cnicRequired {
		cnic, ok := valueobject.FormatCNIC(c.CNIC)
		if !ok {
			return c, shared.ErrInvalidCNIC
		}
		c.CNIC = cnic
	}

	phone, ok := valueobject.FormatPhone(c.Phone, valueobject.DefaultPhoneRegion)
	if !ok {
		return c, shared.ErrInvalidPhone
	}
	c.Phone = phone
	return c, nil
}

// Timestamps records creation and last update
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTimestamps(now time.Time) Timestamps {
	return Timestamps{CreatedAt: now, UpdatedAt: now}
}
