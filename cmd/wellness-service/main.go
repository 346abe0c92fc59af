package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/wellnesshub/platform/pkg/common/config"
	"github.com/wellnesshub/platform/pkg/common/database"
	"github.com/wellnesshub/platform/pkg/common/kafka"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/gateway/auth"
	"github.com/wellnesshub/platform/pkg/gateway/middleware"
	"github.com/wellnesshub/platform/pkg/privacy"
	"github.com/wellnesshub/platform/pkg/profile"
	"github.com/wellnesshub/platform/pkg/scrub"
	"github.com/wellnesshub/platform/pkg/wellness"
)

type WellnessApp struct {
	profiles *profile.Service
	jwt      *auth.JWTManager
}

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	profileRepo := profile.NewRepository(db)
	if err := profileRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate profile tables")
	}

	wellnessRepo := wellness.NewRepository(db)
	if err := wellnessRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate wellness tables")
	}

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

	scrubRules, err := scrub.LoadRules(cfg.ScrubRulesPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default scrub rules")
	}
	scrubber, err := scrub.NewScrubber(scrubRules)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to compile scrub rules")
	}

	producer := kafka.NewProducer(cfg.WellnessEventsTopic)
	defer producer.Close()

	service := wellness.NewService(wellnessRepo, profiles, anonymizer, producer, scrubber)

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize token manager")
	}

	app := &WellnessApp{profiles: profiles, jwt: jwtManager}

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	limitAuth := middleware.RateLimit(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	router.Handle("/api/v1/auth/register", limitAuth(http.HandlerFunc(app.handleRegister))).Methods(http.MethodPost)
	router.Handle("/api/v1/auth/login", limitAuth(http.HandlerFunc(app.handleLogin))).Methods(http.MethodPost)

	if cfg.OIDCIssuer != "" {
		oidc, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure OIDC")
		}
		router.HandleFunc("/api/v1/auth/sso", func(w http.ResponseWriter, r *http.Request) {
			state := r.URL.Query().Get("state")
			if state == "" {
				state = uuid.NewString()
			}
			http.Redirect(w, r, oidc.AuthCodeURL(state), http.StatusFound)
		}).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Authenticate(jwtManager))
	wellness.NewHandler(service).Register(api)
	api.HandleFunc("/profiles/{id}/settings", app.handleUpdateSettings).Methods(http.MethodPut)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Wellness Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Wellness Service...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Wellness Service stopped")
}

func (a *WellnessApp) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	prof, err := a.profiles.CreateProfile(r.Context(), req)
	if err != nil {
		if errors.Is(err, profile.ErrEmailAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a.writeAuthResponse(w, http.StatusCreated, prof)
}

func (a *WellnessApp) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	prof, err := a.profiles.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	a.writeAuthResponse(w, http.StatusOK, prof)
}

func (a *WellnessApp) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid profile id", http.StatusBadRequest)
		return
	}

	// Settings are self-service only.
	requester := middleware.RequesterFromContext(r.Context())
	if requester.ProfileID != profileID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var settings models.PrivacySettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := a.profiles.UpdatePrivacySettings(r.Context(), profileID, settings); err != nil {
		logger.Log.WithError(err).Error("failed to update privacy settings")
		http.Error(w, "failed to update settings", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *WellnessApp) writeAuthResponse(w http.ResponseWriter, status int, prof models.Profile) {
	token, err := a.jwt.IssueToken(prof)
	if err != nil {
		logger.Log.WithError(err).Error("failed to issue token")
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.AuthResponse{Token: token, Profile: prof})
}
