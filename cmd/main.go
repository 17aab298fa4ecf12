package main

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/rcastellanos/fleet-admin/internal/auth"
	"github.com/rcastellanos/fleet-admin/internal/config"
	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/fuel"
	"github.com/rcastellanos/fleet-admin/internal/handlers"
	"github.com/rcastellanos/fleet-admin/internal/inspection"
	"github.com/rcastellanos/fleet-admin/internal/middleware"
	"github.com/rcastellanos/fleet-admin/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	database := client.Database(cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}
	cancel()
	log.Info("connected to MongoDB")

	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	fuelLoads := &db.MongoFuelLoadCollection{Collection: database.Collection("fuel_loads")}
	inspections := &db.MongoInspectionCollection{Collection: database.Collection("inspections")}
	templates := &db.MongoTemplateCollection{Collection: database.Collection("inspection_templates")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewServiceWith(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}
	fuelService := fuel.NewService(vehicles, fuelLoads)
	inspectionService := inspection.NewService(inspections, templates, vehicles)

	authHandler := handlers.NewAuthHandler(authService, users)
	fuelHandler := handlers.NewFuelLoadHandler(fuelService)
	inspectionHandler := handlers.NewInspectionHandler(inspectionService, users)
	vehicleHandler := handlers.NewVehicleHandler(vehicles)
	templateHandler := handlers.NewTemplateHandler(templates)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	adminOnly := authMiddleware.RequireRole(models.RoleAdmin)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("POST /api/fuel-loads", fuelHandler.Create)
	mux.HandleFunc("PUT /api/fuel-loads/{id}", fuelHandler.Update)
	mux.Handle("DELETE /api/fuel-loads/{id}", adminOnly(http.HandlerFunc(fuelHandler.Delete)))
	mux.HandleFunc("GET /api/fuel-loads/vehicle/{id}", fuelHandler.ListForVehicle)
	mux.HandleFunc("GET /api/fuel-loads/vehicle/{id}/stats", fuelHandler.Stats)

	mux.HandleFunc("POST /api/inspections", inspectionHandler.Create)
	mux.Handle("GET /api/inspections/pending", adminOnly(http.HandlerFunc(inspectionHandler.Pending)))
	mux.HandleFunc("GET /api/inspections/{id}", inspectionHandler.Get)
	mux.Handle("PUT /api/inspections/{id}/approve", adminOnly(http.HandlerFunc(inspectionHandler.Approve)))
	mux.Handle("PUT /api/inspections/{id}/close", adminOnly(http.HandlerFunc(inspectionHandler.Close)))
	mux.Handle("PUT /api/inspections/{id}/flag-review", adminOnly(http.HandlerFunc(inspectionHandler.FlagReview)))
	mux.HandleFunc("PUT /api/inspections/{id}/sign-mechanic", inspectionHandler.SignMechanic)

	mux.Handle("POST /api/vehicles", adminOnly(http.HandlerFunc(vehicleHandler.Create)))
	mux.HandleFunc("GET /api/vehicles", vehicleHandler.List)
	mux.HandleFunc("GET /api/vehicles/{id}", vehicleHandler.Get)
	mux.Handle("DELETE /api/vehicles/{id}", adminOnly(http.HandlerFunc(vehicleHandler.Deactivate)))

	mux.Handle("POST /api/templates", adminOnly(http.HandlerFunc(templateHandler.Create)))
	mux.HandleFunc("GET /api/templates", templateHandler.List)
	mux.HandleFunc("GET /api/templates/{id}", templateHandler.Get)
	mux.Handle("DELETE /api/templates/{id}", adminOnly(http.HandlerFunc(templateHandler.Deactivate)))

	handler := rateLimiter.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)(
		authMiddleware.Authenticate(mux))

	log.WithField("port", cfg.ServerPort).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+cfg.ServerPort, handler); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
