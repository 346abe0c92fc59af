package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/wellnesshub/platform/pkg/common/config"
	"github.com/wellnesshub/platform/pkg/common/database"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/gateway/auth"
	"github.com/wellnesshub/platform/pkg/gateway/middleware"
	"github.com/wellnesshub/platform/pkg/insights"
	"github.com/wellnesshub/platform/pkg/privacy"
	"github.com/wellnesshub/platform/pkg/profile"
	"github.com/wellnesshub/platform/pkg/wellness"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	profileRepo := profile.NewRepository(db)
	wellnessRepo := wellness.NewRepository(db)

	cache := profile.NewSettingsCache(database.GetRedis(), cfg.SettingsCacheTTL)
	profiles := profile.NewService(profileRepo, cache)

	policy, err := privacy.LoadPolicy(cfg.PrivacyPolicyPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load privacy policy")
	}

	var hasher *privacy.Hasher
	if cfg.PrivacyHashSalt != "" {
		hasher, err = privacy.NewHasherWithSalt(cfg.PrivacyHashSalt)
	} else {
		hasher, err = privacy.NewHasher()
	}
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize hasher")
	}

	anonymizer := privacy.NewAnonymizer(
		hasher,
		privacy.NewGeneralizer(policy),
		privacy.NewAggregator(cfg.PrivacyMinGroupSize),
	)

	// Read-only deployment: no producer or scrubber, records are never
	// written here.
	records := wellness.NewService(wellnessRepo, profiles, anonymizer, nil, nil)

	service := insights.NewService(records, profileRepo, privacy.NewRoleFilter(policy), cfg.EmployerMinEmployeeCount)

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize token manager")
	}

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Authenticate(jwtManager))
	insights.NewHandler(service).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, "8084"),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8084",
		}).Info("Insights Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Insights Service...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Insights Service stopped")
}
