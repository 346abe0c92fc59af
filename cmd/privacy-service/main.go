package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/wellnesshub/platform/pkg/common/config"
	"github.com/wellnesshub/platform/pkg/common/kafka"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/observability/metrics"
	"github.com/wellnesshub/platform/pkg/privacy"
)

type PrivacyApp struct {
	anonymizer *privacy.Anonymizer
	roleFilter *privacy.RoleFilter
	producer   *kafka.Producer
	consumer   *kafka.Consumer
}

func main() {
	logger.Init()
	cfg := config.Load()

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

	app := &PrivacyApp{
		anonymizer: privacy.NewAnonymizer(
			hasher,
			privacy.NewGeneralizer(policy),
			privacy.NewAggregator(cfg.PrivacyMinGroupSize),
		),
		roleFilter: privacy.NewRoleFilter(policy),
	}

	app.producer = kafka.NewProducer(cfg.MetricsEventsTopic)
	defer app.producer.Close()

	app.consumer = kafka.NewConsumer(cfg.WellnessEventsTopic, "privacy-service")
	defer app.consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := app.consumer.ConsumeRecords(ctx, app.processRecords); err != nil {
			logger.Log.WithError(err).Fatal("consumer error")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/anonymize/{domain}", app.handleAnonymize).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/filter", app.handleFilter).Methods(http.MethodPost)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, "8083"),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8083",
		}).Info("Privacy Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Privacy Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Privacy Service stopped")
}

// processRecords anonymizes a wellness record envelope and republishes only
// the aggregated, generalized view. The personal copy stays inside this
// process.
func (a *PrivacyApp) processRecords(ctx context.Context, eventID string, env kafka.RecordEnvelope) error {
	_, batch, err := a.anonymizer.AnonymizeForDomain(env.Domain, env.Records, env.PrivacySettings)
	if err != nil {
		logger.WithComponent("anonymizer").WithError(err).WithField("domain", env.Domain).Error("failed to anonymize event")
		return err
	}
	metrics.ObserveAnonymizedBatch(len(batch.Records), batch.Aggregated.Skipped)

	payload := map[string]interface{}{
		"original_event_id": eventID,
		"domain":            env.Domain,
		"records":           batch.Records,
		"aggregated":        batch.Aggregated,
	}

	err = a.producer.PublishEvent(ctx, kafka.EventAnonymize, "privacy-service", payload)
	metrics.ObservePublish(err)
	return err
}

func (a *PrivacyApp) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	domain := mux.Vars(r)["domain"]

	var req models.AnonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	personal, batch, err := a.anonymizer.AnonymizeForDomain(domain, req.Records, req.PrivacySettings)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	metrics.ObserveAnonymizedBatch(len(batch.Records), batch.Aggregated.Skipped)

	resp := models.AnonymizeResponse{
		PersonalData: personal,
		Anonymized:   batch,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (a *PrivacyApp) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req models.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	role := privacy.ParseRole(req.Role)
	filtered := a.roleFilter.Filter(req.Context, role)
	metrics.ObserveFilteredContext()

	resp := models.FilterResponse{
		Role:    string(role),
		Context: filtered,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
