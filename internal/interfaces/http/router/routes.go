package router

import (
	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/interfaces/http/handler"
	"github.com/bizline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every API handler mounted by the route table
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	BusinessLine *handler.BusinessLineHandler
	Customer     *handler.CustomerHandler
	Vendor       *handler.VendorHandler
	Stock        *handler.StockHandler
	Intake       *handler.IntakeHandler
	SalesInvoice *handler.SalesInvoiceHandler
	Payment      *handler.PaymentHandler
	Report       *handler.ReportHandler
	System       *handler.SystemHandler
}

func can(resource, action string) gin.HandlerFunc {
	return middleware.RequirePermission(resource, action)
}

// DomainGroups builds the route table. scope resolves the active business line
// and is applied to every group holding line-scoped data.
func DomainGroups(h Handlers, scope gin.HandlerFunc) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h),
		userRoutes(h),
		businessLineRoutes(h),
		customerRoutes(h).Use(scope),
		vendorRoutes(h).Use(scope),
		stockRoutes(h).Use(scope),
		salesRoutes(h).Use(scope),
		paymentRoutes(h).Use(scope),
		reportRoutes(h).Use(scope),
	}
}

func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", h.Auth.Login)
	return g
}

func userRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourceUser
	g := NewDomainGroup("users", "/users")

	// the caller's own account only needs authentication
	g.GET("/me", h.Auth.Me)
	g.GET("/me/navigation", h.Auth.Navigation)
	g.PUT("/me/password", h.Auth.ChangePassword)

	g.POST("", can(res, identity.ActionCreate), h.User.Create)
	g.GET("", can(res, identity.ActionRead), h.User.List)
	g.GET("/:id", can(res, identity.ActionRead), h.User.GetByID)
	g.PUT("/:id", can(res, identity.ActionUpdate), h.User.Update)
	g.PUT("/:id/role", can(res, identity.ActionUpdate), h.User.ChangeRole)
	g.PUT("/:id/business-lines", can(res, identity.ActionUpdate), h.User.AssignBusinessLines)
	g.PUT("/:id/password", can(res, identity.ActionUpdate), h.User.ResetPassword)
	g.POST("/:id/activate", can(res, identity.ActionUpdate), h.User.Activate)
	g.POST("/:id/deactivate", can(res, identity.ActionUpdate), h.User.Deactivate)
	g.DELETE("/:id", can(res, identity.ActionDelete), h.User.Delete)
	return g
}

func businessLineRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourceBusinessLine
	g := NewDomainGroup("business-lines", "/business-lines")
	g.POST("", can(res, identity.ActionCreate), h.BusinessLine.Create)
	g.GET("", can(res, identity.ActionRead), h.BusinessLine.List)
	g.GET("/:id", can(res, identity.ActionRead), h.BusinessLine.GetByID)
	g.PUT("/:id", can(res, identity.ActionUpdate), h.BusinessLine.Update)
	g.POST("/:id/activate", can(res, identity.ActionUpdate), h.BusinessLine.Activate)
	g.POST("/:id/deactivate", can(res, identity.ActionUpdate), h.BusinessLine.Deactivate)
	g.GET("/:id/dependencies", can(res, identity.ActionRead), h.BusinessLine.Dependencies)
	g.DELETE("/:id", can(res, identity.ActionDelete), h.BusinessLine.Delete)
	return g
}

func customerRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourceCustomer
	g := NewDomainGroup("customers", "/customers")
	g.POST("", can(res, identity.ActionCreate), h.Customer.Create)
	g.GET("", can(res, identity.ActionRead), h.Customer.List)
	g.GET("/:id", can(res, identity.ActionRead), h.Customer.GetByID)
	g.PUT("/:id", can(res, identity.ActionUpdate), h.Customer.Update)
	g.GET("/:id/credit", can(res, identity.ActionRead), h.Customer.Credit)
	g.GET("/:id/payments",
		can(res, identity.ActionRead), can(identity.ResourcePayment, identity.ActionRead), h.Customer.Payments)
	g.GET("/:id/unpaid-invoices",
		can(res, identity.ActionRead), can(identity.ResourceSales, identity.ActionRead), h.Customer.UnpaidInvoices)
	g.POST("/:id/activate", can(res, identity.ActionUpdate), h.Customer.Activate)
	g.POST("/:id/deactivate", can(res, identity.ActionUpdate), h.Customer.Deactivate)
	g.DELETE("/:id", can(res, identity.ActionDelete), h.Customer.Delete)
	return g
}

func vendorRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourceVendor
	g := NewDomainGroup("vendors", "/vendors")
	g.POST("", can(res, identity.ActionCreate), h.Vendor.Create)
	g.GET("", can(res, identity.ActionRead), h.Vendor.List)
	g.GET("/:id", can(res, identity.ActionRead), h.Vendor.GetByID)
	g.PUT("/:id", can(res, identity.ActionUpdate), h.Vendor.Update)
	g.POST("/:id/activate", can(res, identity.ActionUpdate), h.Vendor.Activate)
	g.POST("/:id/deactivate", can(res, identity.ActionUpdate), h.Vendor.Deactivate)
	g.DELETE("/:id", can(res, identity.ActionDelete), h.Vendor.Delete)
	return g
}

func stockRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourceStock
	g := NewDomainGroup("stock", "/stock")

	items := g.Group("stock-items", "/items")
	items.POST("", can(res, identity.ActionCreate), h.Stock.CreateItem)
	items.GET("", can(res, identity.ActionRead), h.Stock.ListItems)
	items.GET("/low", can(res, identity.ActionRead), h.Stock.LowStock)
	items.GET("/:id", can(res, identity.ActionRead), h.Stock.GetItem)
	items.PUT("/:id", can(res, identity.ActionUpdate), h.Stock.UpdateItem)
	items.DELETE("/:id", can(res, identity.ActionDelete), h.Stock.DeleteItem)

	g.POST("/adjustments", can(res, identity.ActionCreate), h.Stock.Adjust)
	g.GET("/adjustments", can(res, identity.ActionRead), h.Stock.ListAdjustments)
	g.POST("/counts", can(res, identity.ActionUpdate), h.Stock.Count)

	const purchase = identity.ResourcePurchase
	intakes := g.Group("purchase-intakes", "/intakes")
	intakes.POST("", can(purchase, identity.ActionCreate), h.Intake.Create)
	intakes.GET("", can(purchase, identity.ActionRead), h.Intake.List)
	intakes.GET("/:id", can(purchase, identity.ActionRead), h.Intake.GetByID)
	intakes.POST("/:id/receive", can(purchase, identity.ActionUpdate), h.Intake.Receive)
	intakes.POST("/:id/cancel", can(purchase, identity.ActionUpdate), h.Intake.Cancel)
	return g
}

func salesRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourceSales
	g := NewDomainGroup("sales", "/sales")
	invoices := g.Group("sales-invoices", "/invoices")
	invoices.POST("", can(res, identity.ActionCreate), h.SalesInvoice.Create)
	invoices.GET("", can(res, identity.ActionRead), h.SalesInvoice.List)
	invoices.GET("/:id", can(res, identity.ActionRead), h.SalesInvoice.GetByID)
	invoices.PUT("/:id", can(res, identity.ActionUpdate), h.SalesInvoice.Update)
	invoices.POST("/:id/issue", can(res, identity.ActionUpdate), h.SalesInvoice.Issue)
	invoices.POST("/:id/void", can(res, identity.ActionUpdate), h.SalesInvoice.Void)
	invoices.DELETE("/:id", can(res, identity.ActionDelete), h.SalesInvoice.Delete)
	return g
}

func paymentRoutes(h Handlers) *DomainGroup {
	const res = identity.ResourcePayment
	g := NewDomainGroup("payments", "/payments")
	g.POST("", can(res, identity.ActionCreate), h.Payment.Create)
	g.GET("", can(res, identity.ActionRead), h.Payment.List)
	g.GET("/cheques/pending", can(res, identity.ActionRead), h.Payment.PendingCheques)
	g.GET("/status-changes", can(res, identity.ActionRead), h.Payment.StatusChanges)
	g.GET("/:id", can(res, identity.ActionRead), h.Payment.GetByID)
	g.GET("/:id/history", can(res, identity.ActionRead), h.Payment.History)

	// lifecycle transitions need update rights
	g.POST("/:id/realize", can(res, identity.ActionUpdate), h.Payment.Realize)
	g.POST("/:id/bounce", can(res, identity.ActionUpdate), h.Payment.Bounce)
	g.POST("/:id/settle", can(res, identity.ActionUpdate), h.Payment.Settle)
	g.POST("/:id/cancel", can(res, identity.ActionUpdate), h.Payment.Cancel)
	return g
}

func reportRoutes(h Handlers) *DomainGroup {
	read := can(identity.ResourceReport, identity.ActionRead)
	g := NewDomainGroup("reports", "/reports")
	g.GET("/sales-summary", read, h.Report.SalesSummary)
	g.GET("/receivables", read, h.Report.Receivables)
	g.GET("/stock-valuation", read, h.Report.StockValuation)
	g.GET("/payments-summary", read, h.Report.PaymentsSummary)
	g.GET("/dashboard", read, h.Report.Dashboard)
	return g
}
