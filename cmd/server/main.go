package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kjanat/petmed-tracker-sub000/internal/auth"
	"github.com/kjanat/petmed-tracker-sub000/internal/config"
	"github.com/kjanat/petmed-tracker-sub000/internal/database"
	"github.com/kjanat/petmed-tracker-sub000/internal/handlers"
	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/reminder"
	"github.com/kjanat/petmed-tracker-sub000/internal/repository"
	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

var Version = "dev"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)

	pets := repository.NewPetRepository(db)
	meds := repository.NewMedicationRepository(db)
	food := repository.NewFoodRepository(db)
	logs := repository.NewLogRepository(db)

	care := repository.NewCareSource(db)
	rec := schedule.NewReconciler(care, care, logger)

	scanner := reminder.NewScanner(pets, rec, &reminder.ZapNotifier{Log: logger}, cfg.ReminderLookahead, logger)
	if err := scanner.Start(); err != nil {
		logger.Fatal("failed to start reminder scanner", zap.Error(err))
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Public routes
	r.POST("/api/auth/register", handlers.Register(db, jwtService))
	r.POST("/api/auth/login", handlers.Login(db, jwtService))
	r.GET("/api/qr/:token/schedule", handlers.QRDaySchedule(pets, rec))
	r.POST("/api/qr/:token/logs", handlers.QRCreateMedicationLog(pets, meds, logs))

	// Authenticated routes
	api := r.Group("/api", middleware.RequireAuth(jwtService))
	{
		api.GET("/auth/me", handlers.Me(db))

		api.GET("/pets", handlers.ListPets(pets))
		api.POST("/pets", handlers.CreatePet(pets))

		// Pet-scoped routes, caregiver membership enforced up front
		pet := api.Group("/pets/:petId", middleware.PetAccess(pets))
		{
			pet.GET("", handlers.GetPet())
			pet.POST("/caregivers", handlers.AddCaregiver(pets))
			pet.GET("/schedule", handlers.GetDaySchedule(rec))
			pet.GET("/medications", handlers.ListMedications(meds))
			pet.POST("/medications", handlers.CreateMedication(meds))
			pet.GET("/food", handlers.ListFood(food))
			pet.POST("/food", handlers.CreateFood(food))
		}

		// Item-scoped routes, access checked against the item's pet
		api.GET("/medications/:id", handlers.GetMedication(meds, pets))
		api.POST("/medications/:id/schedules", handlers.CreateSchedule(meds, pets))
		api.POST("/medications/:id/logs", handlers.CreateMedicationLog(logs, meds, pets))
		api.GET("/medications/:id/logs", handlers.ListMedicationLogs(logs, meds, pets))

		api.PATCH("/schedules/:id", handlers.UpdateSchedule(meds, pets))
		api.DELETE("/schedules/:id", handlers.DeleteSchedule(meds, pets))

		api.POST("/food/:id/logs", handlers.CreateFoodLog(logs, food, pets))
		api.GET("/food/:id/logs", handlers.ListFoodLogs(logs, food, pets))
		api.DELETE("/food/:id", handlers.DeleteFood(food, pets))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")

	scanner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
