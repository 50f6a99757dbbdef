package main

import (
	"context"
	"flag"
	"time"

	"clinic-portal/cmd/bootstrap"
	"clinic-portal/config"
	"clinic-portal/internal/infrastructure/cache"
	"clinic-portal/internal/infrastructure/database"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/service"
)

func main() {
	reset := flag.Bool("reset", false, "delete all clinic data before seeding")
	adminEmail := flag.String("admin-email", "admin@clinic.local", "email of the admin account")
	adminPassword := flag.String("admin-password", service.DemoPassword, "password of the admin account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap.NewLogger("info").Fatalf("Failed to load config: %v", err)
	}
	log := bootstrap.NewLogger(cfg.App.LogLevel)

	if err := bootstrap.Migrate(cfg.DB); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	seeder := service.NewSeeder(db, log,
		repository.NewUserRepository(),
		repository.NewAppointmentRepository(),
		repository.NewPrescriptionRepository(),
		repository.NewReferenceRepository(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seeder.Run(ctx, service.SeedOptions{
		Reset:         *reset,
		AdminEmail:    *adminEmail,
		AdminPassword: *adminPassword,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// the running API would otherwise serve the old lists until the TTL expires
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Warnf("Reference cache not cleared: %v", err)
		return
	}
	defer redisClient.Close()
	if err := service.NewReferenceCache(redisClient, cfg.Cache.ReferenceTTL).Invalidate(ctx); err != nil {
		log.Warnf("Reference cache not cleared: %v", err)
	}
}
