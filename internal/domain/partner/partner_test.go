package partner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func validContact() Contact {
	return Contact{Name: " Ali Raza ", CNIC: "3520212345671", Phone: "0300-1234567", Address: "Model Town, Lahore"}
}

func TestNewCustomer(t *testing.T) {
	t.Run("formats cnic and phone", func(t *testing.T) {
		c, err := NewCustomer("CUS-001", CustomerDetails{Contact: validContact(), FatherName: "Raza"}, now)
		require.NoError(t, err)

		assert.Equal(t, "Ali Raza", c.Name)
		assert.Equal(t, "35202-1234567-1", c.CNIC)
		assert.Equal(t, "+923001234567", c.Phone)
		assert.Equal(t, now, c.CreatedAt)
		assert.Equal(t, "CUS-001", c.RecordID())
	})

	t.Run("cnic is mandatory", func(t *testing.T) {
		contact := validContact()
		contact.CNIC = ""
		_, err := NewCustomer("CUS-001", CustomerDetails{Contact: contact}, now)
		assert.ErrorIs(t, err, shared.ErrInvalidCNIC)
	})

	t.Run("bad phone", func(t *testing.T) {
		contact := validContact()
		contact.Phone = "123"
		_, err := NewCustomer("CUS-001", CustomerDetails{Contact: contact}, now)
		assert.ErrorIs(t, err, shared.ErrInvalidPhone)
	})

	t.Run("name required", func(t *testing.T) {
		contact := validContact()
		contact.Name = " "
		_, err := NewCustomer("CUS-001", CustomerDetails{Contact: contact}, now)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("flat json shape", func(t *testing.T) {
		c, err := NewCustomer("CUS-001", CustomerDetails{Contact: validContact()}, now)
		require.NoError(t, err)

		data, err := json.Marshal(c)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, "35202-1234567-1", raw["cnic"])
		assert.Equal(t, "CUS-001", raw["customerId"])
		assert.Contains(t, raw, "createdAt")
	})
}

func TestCustomer_UpdateKeepsFormattedCNIC(t *testing.T) {
	c, err := NewCustomer("CUS-001", CustomerDetails{Contact: validContact()}, now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	require.NoError(t, c.Update(CustomerDetails{Contact: c.Contact, Occupation: "Tailor"}, later))
	assert.Equal(t, "35202-1234567-1", c.CNIC)
	assert.Equal(t, "Tailor", c.Occupation)
	assert.Equal(t, later, c.UpdatedAt)
	assert.Equal(t, now, c.CreatedAt)
}

func TestNewGuarantor(t *testing.T) {
	g, err := NewGuarantor("GUA-001", GuarantorDetails{Contact: validContact(), Relation: "Brother"}, now)
	require.NoError(t, err)
	assert.Equal(t, "Brother", g.Relation)
	assert.Equal(t, "GUA-001", g.RecordID())

	_, err = NewGuarantor("", GuarantorDetails{Contact: validContact()}, now)
	assert.True(t, shared.IsValidation(err))
}

func TestNewSupplier(t *testing.T) {
	t.Run("cnic optional", func(t *testing.T) {
		contact := validContact()
		contact.CNIC = ""
		s, err := NewSupplier("SUP-001", SupplierDetails{Contact: contact, Company: "Dawlance", Email: "Sales@Dawlance.PK"}, now)
		require.NoError(t, err)
		assert.Empty(t, s.CNIC)
		assert.Equal(t, "sales@dawlance.pk", s.Email)
	})

	t.Run("malformed cnic still rejected", func(t *testing.T) {
		contact := validContact()
		contact.CNIC = "12-34"
		_, err := NewSupplier("SUP-001", SupplierDetails{Contact: contact}, now)
		assert.ErrorIs(t, err, shared.ErrInvalidCNIC)
	})

	t.Run("bad email", func(t *testing.T) {
		_, err := NewSupplier("SUP-001", SupplierDetails{Contact: validContact(), Email: "nope"}, now)
		assert.True(t, shared.IsValidation(err))
	})
}
