package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtside/config"
	"courtside/cron"
	"courtside/database"
	listingRepo "courtside/database/repository/listing"
	partnerRepo "courtside/database/repository/partner"
	userRepo "courtside/database/repository/user"
	"courtside/handlers"
	"courtside/middleware"
	"courtside/routes"
	"courtside/services/billing"
	"courtside/services/booking"
	"courtside/services/identity"
	"courtside/services/listing"
	"courtside/services/notification"
	"courtside/services/partner"
	"courtside/services/storage"
	"courtside/services/user"
	"courtside/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	// Mongo.
	mongoClient, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("main: database connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			logger.Warn("main: error disconnecting MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.DatabaseName)
	tx := database.NewMongoTransactor(mongoClient)

	listings, err := listingRepo.NewMongoListingRepo(ctx, db)
	if err != nil {
		logger.Fatal("main: listing repository", zap.Error(err))
	}
	users, err := userRepo.NewMongoUserRepo(ctx, db)
	if err != nil {
		logger.Fatal("main: user repository", zap.Error(err))
	}
	partners, err := partnerRepo.NewMongoPartnerRepo(ctx, db)
	if err != nil {
		logger.Fatal("main: partner repository", zap.Error(err))
	}

	// Redis: cache DB for query snapshots, queue DB for asynq.
	cacheOpts := utils.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisCacheDB}
	queueOpts := utils.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
	cache, err := utils.NewRedisClient(ctx, cacheOpts)
	if err != nil {
		logger.Fatal("main: redis connection failed", zap.Error(err))
	}
	defer cache.Close()

	asynqClient := asynq.NewClient(queueOpts.AsynqOpt())
	defer asynqClient.Close()

	// Firebase.
	fb, err := utils.NewFirebaseClients(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Fatal("main: firebase init failed", zap.Error(err))
	}
	idp := identity.NewFirebaseProvider(fb.Auth)

	cld, err := utils.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		logger.Fatal("main: cloudinary init failed", zap.Error(err))
	}

	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	priceMode, err := listing.ParsePriceMode(cfg.ListingPriceMode)
	if err != nil {
		logger.Fatal("main: invalid LISTING_PRICE_MODE", zap.Error(err))
	}

	// Services.
	notifier := notification.NewService(
		notification.NewAsynqEmailQueue(asynqClient),
		notification.NewFCMPusher(fb.Messaging),
		users, partners, cfg.SupportEmail, logger,
	)
	listingService := listing.NewService(
		listings, partners, tx,
		listing.NewRedisSnapshotStore(cache, cfg.SnapshotTTL),
		priceMode, loc, logger,
	)
	bookingService := booking.NewService(listings, users, tx, notifier, loc, cfg.BookingMaxAttempts, logger)
	billingService := billing.NewService(partners, loc, logger)
	partnerService := partner.NewService(partners, idp, partner.PaymentConfig{
		EncryptionSecret: cfg.CardEncryptionSecret,
		ReauthSecret:     cfg.ReauthSecret,
		ReauthTTL:        cfg.ReauthTTL,
	}, logger)
	userService := user.NewService(users, idp, logger)

	health := utils.NewHealthMonitor(mongoClient, cache)
	health.Start(ctx, 30*time.Second)

	hb := &handlers.HandlerBundle{
		Listing: handlers.NewListingHandler(listingService),
		Booking: handlers.NewBookingHandler(bookingService),
		Partner: handlers.NewPartnerHandler(partnerService),
		User:    handlers.NewUserHandler(userService),
		Auth:    handlers.NewAuthHandler(idp, notifier),
		Admin:   handlers.NewAdminHandler(billingService, userService),
		Storage: handlers.NewStorageHandler(storage.NewCloudinaryStore(cld, cfg.CloudinaryFolder)),
		Mail:    handlers.NewMailHandler(notifier),
		Health:  health,
	}

	limiter := middleware.NewRateLimiter(cfg.MaxRequestsPerMin)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Prune(10 * time.Minute); n > 0 {
					logger.Debug("Pruned idle rate limiter entries", zap.Int("count", n))
				}
			}
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.RegisterRoutes(router, hb, routes.Deps{
		Verifier:    idp,
		Limiter:     limiter,
		Logger:      logger,
		AdminKey:    cfg.AdminAPIKey,
		EmailAPIKey: cfg.EmailAPIKey,
	})

	// Background processing.
	worker := cron.NewEmailWorker(queueOpts.AsynqOpt(), mailer, logger)
	worker.Start()

	scheduler := cron.NewScheduler(billingService, userService, loc, logger)
	if err := scheduler.Start(cron.Schedule{Billing: cfg.BillingCron, EmailSync: cfg.EmailSyncCron}); err != nil {
		logger.Fatal("main: scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server shutdown", zap.Error(err))
	}
	scheduler.Stop()
	worker.Shutdown()
}
