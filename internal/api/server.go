package api

import (
	"errors"
	"log"

	"github.com/LumosAcademy/payment_service/config"
	"github.com/LumosAcademy/payment_service/infra/queue"
	"github.com/LumosAcademy/payment_service/internal/api/rest/handlers"
	"github.com/LumosAcademy/payment_service/internal/api/rest/middleware"
	"github.com/LumosAcademy/payment_service/internal/clients/slipcheck"
	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/helper"
	"github.com/LumosAcademy/payment_service/internal/repository"
	"github.com/LumosAcademy/payment_service/internal/services"
	"github.com/LumosAcademy/payment_service/pkg/cloudinary"
	"github.com/LumosAcademy/payment_service/pkg/mailer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260315

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Document{},
		&domain.Bundle{},
		&domain.PaymentProof{},
		&domain.ProofItem{},
		&domain.ResumeRequest{},
		&domain.Enrollment{},
		&domain.DocumentPurchase{},
		&domain.BundlePurchase{},
		&domain.ChatRoom{},
		&domain.ChatMember{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	seedAdmin(db, cfg)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	var slipChecker *slipcheck.Client
	if cfg.SlipCheckAPIKey != "" {
		slipChecker = slipcheck.New(cfg.SlipCheckAPIKey)
	}

	smtpSender := mailer.NewSMTPSender(cfg.SMTPUser, cfg.SMTPAppPassword, cfg.MailFrom, cfg.MailFromName)
	notifier := services.NewNotificationService(smtpSender, cfg.SiteBaseURL)

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	proofRepo := repository.NewProofRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// ---------- Services ----------
	authSvc := services.NewAuthService(userRepo, authHelper)
	proofSvc := services.NewProofService(
		proofRepo,
		userRepo,
		catalogRepo,
		entitlementRepo,
		chatRepo,
		notifier,
		kafkaProducer,
		up,
		slipChecker,
	)
	resumeSvc := services.NewResumeService(
		resumeRepo,
		userRepo,
		catalogRepo,
		chatRepo,
		notifier,
		kafkaProducer,
		cfg.ResumeInstructorEmail,
	)

	// ---------- Handlers ----------
	authHandler := handlers.NewAuthHandler(authSvc)
	proofHandler := handlers.NewProofHandler(proofSvc, authHelper)
	resumeHandler := handlers.NewResumeHandler(resumeSvc, authHelper)

	authMw := middleware.AuthMiddleware(authHelper)
	adminMw := middleware.AdminOnly(userRepo)

	rest := app.Group("/api")
	rest.Post("/auth/login", authHandler.Login)
	rest.Post("/proofs", authMw, proofHandler.Submit)

	admin := rest.Group("/admin", authMw, adminMw)
	admin.Get("/proofs", proofHandler.List)
	admin.Post("/proofs/:proofID/decide", proofHandler.Decide)
	admin.Post("/resume-requests/:requestID/approve", resumeHandler.ApprovePayment)
	admin.Post("/resume-requests/:requestID/reject", resumeHandler.RejectPayment)
	admin.Post("/resume-requests/:requestID/deliver", resumeHandler.Deliver)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

func seedAdmin(db *gorm.DB, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	var u domain.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&u).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("admin seed lookup error: %v", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("admin seed hash error: %v", err)
		return
	}

	if err := db.Create(&domain.User{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Role:         domain.RoleAdmin,
		Status:       "active",
	}).Error; err != nil {
		log.Printf("admin seed create error: %v", err)
		return
	}
	log.Println("admin account seeded")
}
