package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Kallolx/appointment-backend/database"
	"github.com/Kallolx/appointment-backend/internal/config"
	"github.com/Kallolx/appointment-backend/internal/jobs"
	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/otp"
	"github.com/Kallolx/appointment-backend/internal/routes"
	"github.com/Kallolx/appointment-backend/internal/services"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize storage
	var store storage.Store
	var db *gorm.DB
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		db, err = database.Connect(cfg.DB)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		log.Println("🔄 Running database migrations...")
		err = db.AutoMigrate(
			&models.User{},
			&models.Appointment{},
			&models.AvailableDate{},
			&models.AvailableTimeSlot{},
			&models.Payment{},
			&models.SupportTicket{},
			&models.ServiceCategory{},
			&models.PropertyType{},
			&models.RoomType{},
			&models.ServicePricing{},
			&models.ContentPage{},
			&models.WebsiteSetting{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(db)
	}

	// Initialize Twilio service
	twilioService, err := services.NewTwilioService(cfg.Twilio)
	if err != nil {
		log.Fatal("Failed to initialize Twilio service:", err)
	}
	log.Println("✅ Twilio service initialized")

	// Initialize all services
	otpStore := otp.NewMemoryStore(5 * time.Minute)
	otpService := services.NewOTPService(otpStore, twilioService, twilioService, cfg.Twilio.OTPTemplate)
	availabilityService := services.NewAvailabilityService(store)
	bookingService := services.NewBookingService(store, availabilityService, cfg.StrictSlotCheck)
	gateway := services.NewGatewayClient(cfg.Payment.GatewayURL, cfg.Payment.APIKey)
	paymentService := services.NewPaymentService(store, gateway, cfg.Payment)
	authService := services.NewAuthService(store, otpService, cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Start the daily reminder job
	reminderJob := jobs.NewReminderJob(store, twilioService)
	reminderJob.Start()

	log.Println("✅ All services initialized and scheduled jobs started")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Appointment Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root status endpoint with database summary
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "Appointment Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": cfg.Environment,
			"storage":     storageType(cfg),
		}

		if db != nil {
			sqlDB, err := db.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var userCount, appointmentCount, paymentCount, ticketCount int64
			db.Model(&models.User{}).Count(&userCount)
			db.Model(&models.Appointment{}).Count(&appointmentCount)
			db.Model(&models.Payment{}).Count(&paymentCount)
			db.Model(&models.SupportTicket{}).Count(&ticketCount)

			response["database"] = fiber.Map{
				"status":       dbStatus,
				"users":        userCount,
				"appointments": appointmentCount,
				"payments":     paymentCount,
				"tickets":      ticketCount,
			}
		}

		return c.JSON(response)
	})

	// Setup routes
	routes.SetupRoutes(app, routes.Deps{
		Config:       cfg,
		Store:        store,
		Auth:         authService,
		Availability: availabilityService,
		Booking:      bookingService,
		Payments:     paymentService,
	})

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping reminder job...")
		reminderJob.Stop()
		otpStore.Close()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Appointment Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("🌍 Environment: %s", cfg.Environment)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
