package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roame/config"
	"roame/cron"
	"roame/database"
	"roame/database/repository"
	"roame/handlers"
	"roame/middleware"
	"roame/routes"
	"roame/services/booking"
	"roame/services/invoice"
	"roame/services/listing"
	"roame/services/notification"
	"roame/services/payment"
	"roame/services/storage"
	"roame/services/tasks"
	"roame/services/user"
	"roame/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, utils.AllRedisClients(), database.MongoClient)

	// repositories.
	repos := repository.NewMongoRepositories(database.DB())

	// payment gateway; the key secret also signs checkout callbacks.
	gateway, err := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.PaymentCurrency)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize payment gateway: %v", err)
	}
	orders := payment.NewOrderTracker(utils.GetCacheClient())

	var locker booking.ListingLocker
	switch cfg.LockBackend {
	case "local":
		locker = booking.NewLocalLocker()
	default:
		locker = utils.NewRedisLocker(utils.GetCacheClient(), cfg.LockTTL)
	}
	logger.Info("Booking lock configured", zap.String("backend", cfg.LockBackend))

	// background tasks.
	taskClient := asynq.NewClient(cron.QueueRedisOpt())
	defer taskClient.Close()
	enqueuer := tasks.NewEnqueuer(taskClient)

	// storage.
	invoiceStore, invoiceDir, err := storage.InvoiceStore(cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize invoice storage: %v", err)
	}
	invoiceFolder := ""
	if invoiceDir == "" {
		invoiceFolder = "roame/invoices"
	}
	var imageStore storage.StorageService
	uploadDir := ""
	if cld, err := storage.Cloudinary(cfg); err == nil {
		imageStore = cld
	} else {
		local, err := storage.NewLocalStorage("./uploads", "/uploads")
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize image storage: %v", err)
		}
		imageStore, uploadDir = local, local.Root()
	}

	// services.
	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		Sender:   cfg.MailSender,
	})
	notificationService, err := notification.NewDefaultNotificationService(mailer, cfg.PublicBaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	invoiceService := invoice.NewInvoiceService(
		repos.Bookings, repos.Listings, repos.Users,
		invoice.NewPDFRenderer(), invoiceStore, invoiceFolder, logger)
	invoiceService.Notifier = notificationService

	settlementService := booking.NewSettlementService(
		repos.Bookings, repos.Listings, locker, orders, enqueuer,
		cfg.RazorpayKeySecret, cfg.AutoRefundOnConflict, logger)

	listingService := listing.NewListingService(repos.Listings, repos.Reviews, repos.Users, imageStore, logger)

	userService := user.NewUserService(
		repos.Users, repos.Listings, repos.Bookings,
		utils.NewOTPStore(utils.GetOTPCacheClient(), cfg.OTPTTL),
		notificationService, logger)

	worker := cron.InitTaskWorker(invoiceService, gateway)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	secure := config.IsProduction()
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: repos.Users,
		Payment: &handlers.PaymentHandler{
			Gateway:       gateway,
			Orders:        orders,
			Settlement:    settlementService,
			Invoices:      invoiceService,
			SecureCookies: secure,
		},
		Booking: &handlers.BookingHandler{
			Availability: &booking.AvailabilityService{
				Bookings:     repos.Bookings,
				Listings:     repos.Listings,
				GatewayKeyID: cfg.RazorpayKeyID,
			},
		},
		Listing:    &handlers.ListingHandler{Listings: listingService},
		User:       &handlers.UserHandler{UserService: userService, SecureCookies: secure},
		InvoiceDir: invoiceDir,
		UploadDir:  uploadDir,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	stop()
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}
