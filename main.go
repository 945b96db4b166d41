// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"slotbook/config"
	"slotbook/cron"
	"slotbook/database"
	appointmentRepo "slotbook/database/repository/appointment"
	"slotbook/handlers"
	"slotbook/middleware"
	"slotbook/models"
	"slotbook/routes"
	"slotbook/services/calendar"
	"slotbook/services/scheduling"
	"slotbook/services/tasks"
	"slotbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	ctx := context.Background()

	calendarClient, err := calendar.NewGoogleClient(ctx, config.AppConfig.GoogleCredentialsPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Google Calendar client: %v", err)
	}

	workingHours := models.WorkingHoursConfig{
		StartHour:           config.AppConfig.StartHour,
		EndHour:             config.AppConfig.EndHour,
		SlotDurationMinutes: config.AppConfig.SlotDuration,
		Timezone:            config.AppConfig.Timezone,
	}
	if err := workingHours.Validate(); err != nil {
		logger.Sugar().Fatalf("main: invalid working hours configuration: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// reminders.
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	reminderScheduler := &tasks.AsynqReminderScheduler{
		Client:    asynq.NewClient(redisOpts),
		Inspector: asynq.NewInspector(redisOpts),
		LeadTime:  time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
	}
	cron.InitReminderWorker(&cron.LogNotifier{Logger: logger})

	// services.
	resolver := scheduling.NewAvailabilityResolver(calendarClient, workingHours)
	extTimeout := time.Duration(config.AppConfig.CalendarTimeoutSecs) * time.Second
	registry := scheduling.NewLedgerRegistry(apptRepo, calendarClient, resolver, reminderScheduler, extTimeout)

	schedulingService := &scheduling.DefaultSchedulingService{
		Registry: registry,
		Resolver: resolver,
		Repo:     apptRepo,
		Calendars: map[string]bool{
			config.AppConfig.GoogleCalendarID: true,
		},
	}

	schedulingHandler := handlers.NewSchedulingHandler(schedulingService, utils.GetCacheClient(), logger)

	// Register routes.
	routes.RegisterSchedulingRoutes(router, schedulingHandler)

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
