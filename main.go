package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soothe/config"
	"soothe/cron"
	"soothe/database"
	blogRepoPkg "soothe/database/repository/blog"
	bookingRepoPkg "soothe/database/repository/booking"
	catalogRepoPkg "soothe/database/repository/catalog"
	reviewRepoPkg "soothe/database/repository/review"
	userRepoPkg "soothe/database/repository/user"
	"soothe/handlers"
	"soothe/routes"
	"soothe/services/auth"
	"soothe/services/booking"
	"soothe/services/catalog"
	"soothe/services/notify"
	"soothe/services/payment"
	"soothe/services/realtime"
	"soothe/services/review"
	"soothe/services/storage"
	"soothe/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	zap.ReplaceGlobals(logger)

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	mediaStorage, err := storage.NewS3Storage()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize media storage: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	users := userRepoPkg.NewMongoUserRepo()
	services := catalogRepoPkg.NewMongoServiceRepo()
	bookings := bookingRepoPkg.NewMongoBookingRepo()
	reviews := reviewRepoPkg.NewMongoReviewRepo()
	blog := blogRepoPkg.NewMongoBlogRepo()

	// background context for everything that outlives a request.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// telegram bot and the notification queue feeding it.
	telegram, err := notify.NewTelegramService(config.AppConfig.TelegramBotToken, users)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize telegram bot: %v", err)
	}
	go telegram.Start(ctx)

	notifyQueue := notify.NewNotifyQueue()
	defer notifyQueue.Close()
	cron.InitNotifyWorker(bookings, services, users, telegram)

	// realtime hub for in-booking chat.
	hub := realtime.NewHub()

	// services.
	authService := auth.NewAuthService(users)
	catalogService := catalog.NewCatalogService(services, users)
	bookingService := booking.NewBookingService(bookings, services, notifyQueue, hub)
	reviewService := review.NewReviewService(reviews, bookings, users)
	paymentService := payment.NewPaymentService(bookings, notifyQueue)

	// pending-booking scanner.
	cron.StartBookingScanner(ctx, bookingService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:    authService,
		Catalog: catalogService,
		Booking: bookingService,
		Review:  reviewService,
		Payment: paymentService,
		Users:   users,
		Blog:    blog,
		Storage: mediaStorage,
		Hub:     hub,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
