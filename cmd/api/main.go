package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/querocurso/marketplace/configs"
	"github.com/querocurso/marketplace/database"
	"github.com/querocurso/marketplace/handlers"
	"github.com/querocurso/marketplace/jobs"
	"github.com/querocurso/marketplace/logger"
	"github.com/querocurso/marketplace/models"
	"github.com/querocurso/marketplace/notifications"
	"github.com/querocurso/marketplace/pdf"
	"github.com/querocurso/marketplace/ranking"
	"github.com/querocurso/marketplace/routes"
	"github.com/querocurso/marketplace/services"
	"github.com/querocurso/marketplace/storage"
	"github.com/querocurso/marketplace/websocket"
	"go.uber.org/zap"
)

func main() {
	zlog, err := logger.New(config.ConfigDefault("APP_ENV", "development"), config.Config("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("🔥 Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		zlog.Fatal("🔥 JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(config.ConfigDefault("CRON_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		zlog.Warn("unknown CRON_TIMEZONE, falling back to local time", zap.Error(err))
		loc = time.Local
	}
	clock := func() time.Time { return time.Now().In(loc) }

	db := database.ConnectDB(config.Config("DATABASE_URL"), zlog)
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("🔥 Failed to migrate database", zap.Error(err))
	}
	defaults := models.Setting{LowStockThreshold: ranking.DefaultLowStockThreshold}
	if err := database.SeedSettings(db, defaults); err != nil {
		zlog.Fatal("🔥 Failed to seed settings", zap.Error(err))
	}
	if err := database.SeedAdmin(db, config.Config("ADMIN_EMAIL"), config.Config("ADMIN_PASSWORD"),
		config.ConfigDefault("ADMIN_FULL_NAME", "Administrador"), zlog); err != nil {
		zlog.Fatal("🔥 Failed to seed admin", zap.Error(err))
	}

	fetchTimeout := config.ConfigDuration("ASSET_FETCH_TIMEOUT", 10*time.Second)

	var objects storage.ObjectStorage
	var signer handlers.UploadSigner
	switch config.ConfigDefault("STORAGE_DRIVER", "cloudinary") {
	case "memory":
		objects = storage.NewMemoryStorage("http://localhost:" + config.ConfigDefault("PORT", "8080") + "/files")
		zlog.Warn("⚠️ Using in-memory storage; certificates are lost on restart")
	default:
		cld, err := storage.NewCloudinaryStorage(config.Config("CLOUDINARY_URL"), fetchTimeout)
		if err != nil {
			zlog.Fatal("🔥 Failed to initialize Cloudinary", zap.Error(err))
		}
		objects, signer = cld, cld
	}

	hub := websocket.NewHub(zlog)
	mailer := notifications.NewBrevoService(
		config.Config("BREVO_API_KEY"),
		config.Config("EMAIL_SENDER"),
		config.Config("EMAIL_SENDER_NAME"),
		zlog,
	)

	certificates := services.NewCertificateService(
		database.NewCertificateStore(db),
		objects,
		services.NewHTTPFetcher(fetchTimeout, config.ConfigInt("ASSET_FETCH_RETRIES", 2), zlog),
		pdf.NewChromeComposer(config.Config("CHROME_PATH"), config.ConfigDuration("PDF_RENDER_TIMEOUT", 30*time.Second)),
		services.Notifiers{mailer, hub},
		zlog,
		services.CertificateOptions{
			Bucket:        config.ConfigDefault("STORAGE_BUCKET", services.DefaultCertificateBucket),
			RetentionDays: config.ConfigInt("CERTIFICATE_RETENTION_DAYS", 365),
			StrictCleanup: config.ConfigBool("STRICT_CLEANUP", false),
			Location:      loc,
			Now:           clock,
		},
	)
	courses := services.NewCourseService(
		database.NewCourseStore(db),
		database.NewSettingsStore(db, defaults),
		ranking.DefaultPolicy(),
		clock,
		zlog,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	scheduler := jobs.NewScheduler(loc, zlog)
	if err := scheduler.Add("cleanup_expired_certificates",
		config.ConfigDefault("CERTIFICATE_CLEANUP_CRON", "0 3 * * *"), 10*time.Minute,
		jobs.CleanupExpiredCertificates(certificates, zlog)); err != nil {
		zlog.Fatal("🔥 Failed to schedule cleanup", zap.Error(err))
	}
	if err := scheduler.Add("issue_pending_certificates",
		config.ConfigDefault("CERTIFICATE_ISSUE_CRON", "*/10 * * * *"), 10*time.Minute,
		jobs.IssuePendingCertificates(certificates, zlog)); err != nil {
		zlog.Fatal("🔥 Failed to schedule pending issue", zap.Error(err))
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:       "Marketplace de Cursos",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler(zlog),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   loc.String(),
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	if mem, ok := objects.(*storage.MemoryStorage); ok {
		app.Get("/files/:bucket/+", func(c *fiber.Ctx) error {
			data, err := mem.Get(c.Params("bucket"), c.Params("+"))
			if err != nil {
				return fiber.ErrNotFound
			}
			c.Set(fiber.HeaderContentType, "application/pdf")
			return c.Send(data)
		})
	}

	routes.Register(app, &handlers.Handler{
		Courses:      courses,
		Certificates: certificates,
		Users:        database.NewUserStore(db),
		Signer:       signer,
		Hub:          hub,
		JWTSecret:    jwtSecret,
		UploadFolder: config.ConfigDefault("STORAGE_BUCKET", services.DefaultCertificateBucket) + "/assets",
		Now:          clock,
		Logger:       zlog,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	port := config.ConfigDefault("PORT", "8080")
	go func() {
		zlog.Info("✅ Server is running", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			zlog.Fatal("🔥 Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	scheduler.Stop(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
