package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"condogov/internal/approval"
	approvalHandler "condogov/internal/approval/handler"
	approvalService "condogov/internal/approval/service"
	"condogov/internal/entity"
	entityHandler "condogov/internal/entity/handler"
	entityService "condogov/internal/entity/service"
	jwttoken "condogov/internal/jwt_token"
	"condogov/internal/platform/config"
	"condogov/internal/platform/database"
	"condogov/internal/platform/httpserver"
	"condogov/internal/platform/logger"
	"condogov/internal/platform/metrics"
	"condogov/internal/platform/redis"
	"condogov/internal/process"
	processHandler "condogov/internal/process/handler"
	processService "condogov/internal/process/service"
	"condogov/internal/stakeholder"
	stakeholderHandler "condogov/internal/stakeholder/handler"
	stakeholderService "condogov/internal/stakeholder/service"
	httptransport "condogov/internal/transport/http"
	"condogov/internal/validation"
	validationHandler "condogov/internal/validation/handler"
	validationService "condogov/internal/validation/service"
	"condogov/pkg/platform/audit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var (
		entityStore      entity.Store
		stakeholderStore stakeholder.Store
		processStore     process.Store
		approvalStore    approval.Store
		auditStore       audit.Store
		healthChecks     []func() error
	)
	if db != nil {
		entityStore = entity.NewPostgres(db)
		stakeholderStore = stakeholder.NewPostgres(db)
		processStore = process.NewPostgres(db)
		approvalStore = approval.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		healthChecks = append(healthChecks, db.Ping)
		defer db.Close()
	} else {
		// No DATABASE_URL: run fully in memory, cascades wired by hook.
		log.Warn("running with in-memory stores, data will not survive restarts")
		memProcesses := process.NewInMemoryStore()
		memApprovals := approval.NewInMemoryStore()
		memProcesses.OnDelete(memApprovals.DropProcess)
		entityStore = entity.NewInMemoryStore()
		stakeholderStore = stakeholder.NewInMemoryStore()
		processStore = memProcesses
		approvalStore = memApprovals
		auditStore = audit.NewInMemory()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		healthChecks = append(healthChecks, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		defer redisClient.Close()
	}

	m := metrics.New()
	auditor := audit.NewPublisher(auditStore, log).WithAsyncBuffer(256)

	entitySvc := entityService.NewService(entityStore)
	stakeholderSvc := stakeholderService.NewService(stakeholderStore)
	processSvc := processService.NewService(processStore, auditor, m)
	approvalSvc := approvalService.NewService(approvalStore, processStore, auditor, m).
		WithApproverDirectory(stakeholderStore)

	validator := validationService.NewService(entityStore, cfg.ValidationCacheTTL, m)
	var entityValidator validationService.Validator = validator
	if redisClient != nil {
		cache := validation.NewCache(redisClient.Client, cfg.ValidationCacheTTL)
		entityValidator = validationService.NewCached(validator, cache)
	}
	batchSvc := validationService.NewBatchService(validator, processStore, entityStore, cfg.BatchConcurrency)

	jwtValidator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey))

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Validator:    jwtValidator,
		Entities:     entityHandler.New(entitySvc, log),
		Stakeholders: stakeholderHandler.New(stakeholderSvc, log),
		Processes:    processHandler.New(processSvc, approvalSvc, log),
		Approvals:    approvalHandler.New(approvalSvc, log),
		Validation:   validationHandler.New(entityValidator, batchSvc, log),
		Health:       healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	auditCtx, stopAudit := context.WithCancel(context.Background())
	go func() {
		if err := auditor.Run(auditCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	go func() {
		log.Info("starting condogov", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	stopAudit()
}
