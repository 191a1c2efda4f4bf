package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/config"
	"github.com/yoockh/recruitdesk/internal/api/handlers"
	"github.com/yoockh/recruitdesk/internal/api/routes"
	"github.com/yoockh/recruitdesk/internal/cache"
	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/jobad"
	"github.com/yoockh/recruitdesk/internal/logger"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/repositories/memory"
	mongorepo "github.com/yoockh/recruitdesk/internal/repositories/mongo"
	pgrepo "github.com/yoockh/recruitdesk/internal/repositories/postgres"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/tasks"
	"github.com/yoockh/recruitdesk/internal/utils"
	"github.com/yoockh/recruitdesk/internal/workers"
)

func main() {
	cfg := config.Load()
	log := logger.New()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("store init failed")
	}
	defer closeStore()

	opts := services.Options{StrictReferences: cfg.StrictReferences, OneWayPublish: cfg.OneWayPublish}
	progress := services.ProgressFormula{PerProfile: cfg.ProgressPerProfile, Cap: cfg.ProgressCap}

	var (
		bus        events.Bus = events.NewHub()
		draftCache cache.Cache = cache.NewMemoryCache()
		dispatcher services.CVJobDispatcher
		pool       *workers.CVImportPool
	)
	jobs := tasks.NewGroup(ctx)
	processor := &services.CVProcessor{CVs: repos.CVs, Delay: cfg.CVProcessingDelay, Logger: log}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = config.InitRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("redis init failed")
		}
		defer rdb.Close()
		log.Info("redis connected")

		bus = events.NewRedisBus(rdb, log)
		draftCache = cache.NewRedisCache(rdb)
		dispatcher = workers.NewStreamDispatcher(rdb)
	}
	processor.Bus = bus

	if rdb != nil {
		pool = &workers.CVImportPool{Redis: rdb, Processor: processor, NumWorkers: cfg.CVWorkers, Logger: log}
		if err := pool.Start(ctx); err != nil {
			log.WithError(err).Fatal("cv import pool start failed")
		}
	} else {
		dispatcher = services.NewLocalDispatcher(jobs, processor)
	}

	classifier := utils.NewClassifier(utils.Locale(cfg.Locale), log)

	projects := services.NewProjectService(repos.Projects, repos.Profiles, progress, opts)
	profiles := services.NewProfileService(repos.Profiles, repos.Projects, opts)
	publications := services.NewPublicationService(repos.Publications, repos.Profiles, opts)
	cvs := services.NewCVService(repos.CVs, repos.Profiles, dispatcher, bus, log, opts)
	jobAds := services.NewJobAdService(repos.Profiles, jobad.NewGenerator(cfg.Locale), draftCache, log, opts)
	dashboard := services.NewDashboardService(repos, progress, cfg.Locale, opts)

	r := routes.NewRouter(log, routes.Deps{
		Project:     handlers.NewProjectHandler(projects, profiles, classifier),
		Profile:     handlers.NewProfileHandler(profiles, publications, jobAds, classifier),
		Publication: handlers.NewPublicationHandler(publications, classifier),
		CV:          handlers.NewCVHandler(cvs, classifier),
		Dashboard:   handlers.NewDashboardHandler(dashboard, classifier),
		WS:          handlers.NewWSHandler(cvs, bus, classifier, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "backend": cfg.StoreBackend}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := jobs.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("cv jobs did not stop in time")
	}
	if pool != nil {
		if err := pool.Stop(shutdownCtx); err != nil {
			log.WithError(err).Warn("cv import pool did not stop in time")
		}
	}
}

// openStore picks the repositories for cfg.StoreBackend; the returned func releases connections.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (repositories.Set, func(), error) {
	if cfg.StoreBackend != config.BackendPersistent {
		log.Info("using in-memory store")
		return memory.NewStore().Set(), func() {}, nil
	}

	db, err := config.InitPostgres(cfg.PostgresURI)
	if err != nil {
		return repositories.Set{}, nil, err
	}
	if err := pgrepo.AutoMigrate(db); err != nil {
		return repositories.Set{}, nil, err
	}
	log.Info("postgres connected")

	client, err := config.InitMongo(ctx, cfg.MongoURI)
	if err != nil {
		return repositories.Set{}, nil, err
	}
	mdb := client.Database(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(ctx, mdb); err != nil {
		_ = client.Disconnect(context.Background())
		return repositories.Set{}, nil, err
	}
	log.Info("mongodb connected")

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = client.Disconnect(context.Background())
	}
	return repositories.Set{
		Projects:     pgrepo.NewProjectRepo(db),
		Profiles:     pgrepo.NewProfileRepo(db),
		Publications: pgrepo.NewPublicationRepo(db),
		CVs:          mongorepo.NewCVRepo(mdb),
	}, closeFn, nil
}
