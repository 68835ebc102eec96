// File: consultly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consultly/config"
	"consultly/handlers"
	"consultly/middleware"
	"consultly/realtime"
	"consultly/routes"
	"consultly/services/artifact"
	"consultly/services/booking"
	"consultly/services/identity"
	"consultly/services/notification"
	"consultly/services/session"
	"consultly/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitAuthCache()
	utils.FirebaseInit()

	// Shared real-time client; its connect/disconnect lifecycle follows
	// identity transitions.
	realtimeClient := realtime.NewClient(config.AppConfig.RealtimeWSURL, config.AppConfig.RealtimeAPIKey)

	// services.
	credentialStore := identity.NewRedisCredentialStore(utils.GetAuthCacheClient())
	identityService := identity.NewDefaultIdentityService(
		config.AppConfig.BookingAPIURL,
		credentialStore,
		realtimeClient,
	)
	if err := identityService.Restore(context.Background()); err != nil {
		logger.Sugar().Warnf("main: failed to restore persisted identity: %v", err)
	}

	bookingService := &booking.DefaultBookingService{
		Store:       booking.NewRESTStore(config.AppConfig.BookingAPIURL, identityService),
		Notifier:    notification.NewFCMNotificationService(),
		DeviceToken: identityService.DeviceToken,
	}

	orchestrator := session.NewOrchestrator(realtimeClient)
	artifactService := artifact.NewDefaultArtifactService(artifact.NewRetriever(realtimeClient))

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		IdentityService: identityService,

		Auth:     handlers.NewAuthHandler(identityService),
		Booking:  handlers.NewBookingHandler(bookingService),
		Session:  handlers.NewSessionHandler(orchestrator),
		Artifact: handlers.NewArtifactHandler(bookingService, artifactService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetAuthCacheClient(), realtimeClient.Connected)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Release live sessions before the process exits so none are orphaned
	// on the backend.
	orchestrator.LeaveAll(ctx)
	realtimeClient.Disconnect()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
