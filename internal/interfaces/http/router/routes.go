package router

import (
	partnerapp "github.com/erp/pos/internal/application/partner"
	"github.com/erp/pos/internal/domain/partner"
	"github.com/erp/pos/internal/interfaces/http/handler"
)

// Handlers are the page handlers served under /api/v1
type Handlers struct {
	Products      *handler.ProductHandler
	Sales         *handler.SaleHandler
	Customers     *handler.PartnerHandler[partner.Customer, partnerapp.CustomerRequest]
	Guarantors    *handler.PartnerHandler[partner.Guarantor, partnerapp.GuarantorRequest]
	Suppliers     *handler.PartnerHandler[partner.Supplier, partnerapp.SupplierRequest]
	Admins        *handler.AccountHandler
	Users         *handler.AccountHandler
	Reports       *handler.ReportHandler
	Notifications *handler.NotificationHandler
	Prints        *handler.PrintHandler
	System        *handler.SystemHandler
}

// RegisterPOS adds every page of the shop to r
func RegisterPOS(r *Router, h Handlers) {
	products := NewDomainGroup("products", "/products").
		GET("", h.Products.List).
		POST("", h.Products.Create).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Delete)

	purchases := NewDomainGroup("purchases", "/purchases").
		GET("", h.Products.ListPurchases).
		POST("", h.Products.AddStock).
		GET("/:id", h.Products.GetPurchase)

	sales := NewDomainGroup("sales", "/sales").
		GET("", h.Sales.List).
		POST("/cash", h.Sales.CreateCashSale).
		POST("/installment", h.Sales.CreateInstallmentSale).
		GET("/:id", h.Sales.GetByID).
		GET("/:id/account", h.Sales.Account)

	payments := NewDomainGroup("payments", "/payments").
		GET("", h.Sales.ListPayments).
		POST("", h.Sales.RecordPayment)

	reports := NewDomainGroup("reports", "/reports").
		GET("/summary", h.Reports.Summary).
		GET("/export", h.Reports.Export)

	notifications := NewDomainGroup("notifications", "/notifications").
		GET("", h.Notifications.Recent).
		GET("/stream", h.Notifications.Stream)

	prints := NewDomainGroup("prints", "/prints").
		GET("/sales/:id", h.Prints.SaleReceipt).
		GET("/purchases/:id", h.Prints.PurchaseInvoice).
		GET("/installments/:id", h.Prints.InstallmentStatement)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	r.Register(products).
		Register(purchases).
		Register(sales).
		Register(payments).
		Register(NewDomainGroup("customers", "/customers").Mount(h.Customers.Register)).
		Register(NewDomainGroup("guarantors", "/guarantors").Mount(h.Guarantors.Register)).
		Register(NewDomainGroup("suppliers", "/suppliers").Mount(h.Suppliers.Register)).
		Register(NewDomainGroup("admins", "/admins").Mount(h.Admins.Register)).
		Register(NewDomainGroup("users", "/users").Mount(h.Users.Register)).
		Register(reports).
		Register(notifications).
		Register(prints).
		Register(system)
}
