package router

import (
	"github.com/innledger/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted by Routes
type Handlers struct {
	System       *handler.SystemHandler
	Payment      *handler.PaymentHandler
	Catalog      *handler.CatalogHandler
	Revenue      *handler.RevenueHandler
	Assistant    *handler.AssistantHandler
	Household    *handler.HouseholdHandler
	HR           *handler.HRHandler
	Loan         *handler.LoanHandler
	Notification *handler.NotificationHandler
	Inbox        *handler.InboxHandler
}

// Routes returns the API route groups, relative to the /api base path
func Routes(h Handlers) []*DomainGroup {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	payment := NewDomainGroup("payment", "/payment")
	items := payment.Group("items", "/items")
	items.GET("", h.Payment.ListItems)
	items.GET("/summary", h.Payment.Summary)
	items.POST("", h.Payment.CreateItem)
	items.GET("/:id", h.Payment.GetItem)
	items.PATCH("/:id", h.Payment.UpdateItem)
	items.POST("/:id/payments", h.Payment.RecordPayment)
	items.GET("/:id/payments", h.Payment.ListPayments)
	items.POST("/:id/restore", h.Payment.Restore)
	items.DELETE("/:id", h.Payment.SoftDelete)
	items.DELETE("/:id/permanent", h.Payment.PermanentDelete)
	payment.DELETE("/records/:id", h.Payment.DeleteRecord)

	categories := NewDomainGroup("categories", "/categories")
	categories.GET("", h.Catalog.ListCategories)
	categories.POST("", h.Catalog.CreateCategory)
	categories.PATCH("/:id", h.Catalog.UpdateCategory)
	categories.DELETE("/:id", h.Catalog.DeleteCategory)

	projects := NewDomainGroup("projects", "/projects")
	projects.GET("", h.Catalog.ListProjects)
	projects.POST("", h.Catalog.CreateProject)
	projects.PATCH("/:id", h.Catalog.UpdateProject)
	projects.DELETE("/:id", h.Catalog.DeleteProject)

	pms := NewDomainGroup("pms-bridge", "/pms-bridge")
	pms.GET("/compare", h.Revenue.Compare)
	pms.POST("/sync", h.Revenue.SyncPms)

	pm := NewDomainGroup("pm-bridge", "/pm-bridge")
	pm.POST("/sync", h.Revenue.SyncPm)

	household := NewDomainGroup("household", "/household/budgets")
	household.GET("", h.Household.List)
	household.GET("/summary", h.Household.Summary)
	household.POST("", h.Household.Create)
	household.PATCH("/:id", h.Household.Update)
	household.DELETE("/:id", h.Household.Delete)

	hr := NewDomainGroup("hr", "/hr/costs")
	hr.GET("", h.HR.List)
	hr.GET("/summary", h.HR.Summary)
	hr.POST("", h.HR.Create)
	hr.PATCH("/:id", h.HR.Update)
	hr.DELETE("/:id", h.HR.Delete)

	loans := NewDomainGroup("loans", "/loans")
	loans.GET("", h.Loan.List)
	loans.POST("", h.Loan.Create)
	loans.PATCH("/:id", h.Loan.Update)
	loans.DELETE("/:id", h.Loan.Delete)
	loans.POST("/:id/repayments", h.Loan.RecordRepayment)

	notifications := NewDomainGroup("notifications", "/notifications")
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread-count", h.Notification.UnreadCount)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)
	notifications.DELETE("/:id", h.Notification.Delete)

	inbox := NewDomainGroup("inbox", "/inbox")
	inbox.GET("", h.Inbox.List)
	inbox.POST("", h.Inbox.Create)
	inbox.PATCH("/:id", h.Inbox.Update)
	inbox.DELETE("/:id", h.Inbox.Delete)
	inbox.POST("/:id/process", h.Inbox.Process)
	inbox.POST("/:id/archive", h.Inbox.Archive)
	inbox.POST("/:id/link", h.Inbox.Link)

	ai := NewDomainGroup("ai", "/ai")
	ai.POST("/chat/stream", h.Assistant.ChatStream)
	ai.GET("/settings", h.Assistant.GetSettings)
	ai.PUT("/settings", h.Assistant.UpdateSettings)

	return []*DomainGroup{
		system, payment, categories, projects, pms, pm,
		household, hr, loans, notifications, inbox, ai,
	}
}
