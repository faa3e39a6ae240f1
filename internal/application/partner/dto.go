package partner

import "github.com/erp/pos/internal/domain/partner"

// ContactRequest is the contact block of every registry form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	CNIC    string `json:"cnic" binding:"omitempty,cnic"`
	Phone   string `json:"phone" binding:"required,phone"`
	Address string `json:"address" binding:"max=300"`
}

func (r ContactRequest) contact() partner.Contact {
	return partner.Contact{Name: r.Name, CNIC: r.CNIC, Phone: r.Phone, Address: r.Address}
}

// CustomerRequest creates or updates a customer
type CustomerRequest struct {
	ContactRequest
	FatherName string `json:"fatherName" binding:"max=100"`
	Occupation string `json:"occupation" binding:"max=100"`
}

// GuarantorRequest creates or updates a guarantor
type GuarantorRequest struct {
	ContactRequest
	FatherName string `json:"fatherName" binding:"max=100"`
	Relation   string `json:"relation" binding:"max=50"`
}

// SupplierRequest creates or updates a supplier
type SupplierRequest struct {
	ContactRequest
	Company string `json:"company" binding:"max=100"`
	Email   string `json:"email" binding:"omitempty,email"`
}
