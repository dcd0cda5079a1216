package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/config"
	"github.com/Kallolx/appointment-backend/internal/handlers"
	"github.com/Kallolx/appointment-backend/internal/middleware"
	"github.com/Kallolx/appointment-backend/internal/services"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// Deps collects everything the routes need.
type Deps struct {
	Config       *config.Config
	Store        storage.Store
	Auth         *services.AuthService
	Availability *services.AvailabilityService
	Booking      *services.BookingService
	Payments     *services.PaymentService
}

// SetupRoutes configures all API routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Auth)
	availabilityHandler := handlers.NewAvailabilityHandler(deps.Availability)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Booking)
	paymentHandler := handlers.NewPaymentHandler(deps.Payments)
	supportHandler := handlers.NewSupportHandler(deps.Store)
	contentHandler := handlers.NewContentHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	protected := middleware.Protected(deps.Auth)
	adminOnly := middleware.AdminOnly()

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/otp/send", authHandler.SendOTP)
	auth.Post("/otp/verify", authHandler.VerifyOTP)

	// Availability (public reads)
	availability := api.Group("/availability")
	availability.Get("/dates", availabilityHandler.ListDates)
	availability.Get("/slots", availabilityHandler.ListSlots)

	// Appointments (owner-scoped)
	appointments := api.Group("/appointments", protected)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Get("/", appointmentHandler.List)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Post("/:id/cancel", appointmentHandler.Cancel)

	// Payments
	payments := api.Group("/payments", protected)
	payments.Post("/appointments/:id/intent", paymentHandler.CreateIntent)
	payments.Get("/:orderID", paymentHandler.GetStatus)

	// Support tickets
	support := api.Group("/support", protected)
	support.Post("/tickets", supportHandler.CreateTicket)
	support.Get("/tickets", supportHandler.ListTickets)

	// Catalog & content (public reads)
	api.Get("/categories", contentHandler.ListCategories)
	api.Get("/categories/:id/property-types", contentHandler.ListPropertyTypes)
	api.Get("/categories/:id/room-types", contentHandler.ListRoomTypes)
	api.Get("/pricing", contentHandler.ListPricing)
	api.Get("/pages/:slug", contentHandler.GetPage)
	api.Get("/settings", contentHandler.ListSettings)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	if deps.Config.Environment == "development" || deps.Config.Payment.WebhookSecret == "" {
		webhooks.Post("/payment", paymentHandler.Webhook)
		if deps.Config.Environment == "development" {
			log.Println("⚠️  Payment webhook signature validation DISABLED for development")
		} else {
			log.Println("⚠️  PAYMENT_WEBHOOK_SECRET not set - webhook signature validation disabled")
		}
	} else {
		webhooks.Post("/payment",
			middleware.ValidatePaymentSignature(deps.Config.Payment.WebhookSecret),
			paymentHandler.Webhook)
	}

	// ========== ADMIN ROUTES ==========
	admin := api.Group("/admin", protected, adminOnly)

	admin.Post("/availability/dates", availabilityHandler.CreateDate)
	admin.Put("/availability/dates/:id", availabilityHandler.UpdateDate)
	admin.Delete("/availability/dates/:id", availabilityHandler.DeleteDate)
	admin.Post("/availability/slots", availabilityHandler.CreateSlot)
	admin.Put("/availability/slots/:id", availabilityHandler.UpdateSlot)
	admin.Delete("/availability/slots/:id", availabilityHandler.DeleteSlot)

	admin.Get("/appointments", appointmentHandler.AdminList)
	admin.Put("/appointments/:id/status", appointmentHandler.AdminSetStatus)

	admin.Get("/support/tickets", supportHandler.AdminListTickets)
	admin.Put("/support/tickets/:id", supportHandler.AdminUpdateTicket)

	admin.Post("/categories", contentHandler.CreateCategory)
	admin.Put("/categories/:id", contentHandler.UpdateCategory)
	admin.Delete("/categories/:id", contentHandler.DeleteCategory)
	admin.Put("/categories/:id/property-types", contentHandler.ReplacePropertyTypes)
	admin.Put("/categories/:id/room-types", contentHandler.ReplaceRoomTypes)
	admin.Post("/pricing", contentHandler.CreatePricing)
	admin.Put("/pricing/:id", contentHandler.UpdatePricing)
	admin.Delete("/pricing/:id", contentHandler.DeletePricing)
	admin.Put("/pages", contentHandler.UpsertPage)
	admin.Put("/settings", contentHandler.UpsertSetting)
}
