package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/internal/api"
	"github.com/dynamicreport/report-api/internal/core/reportquery"
	"github.com/dynamicreport/report-api/internal/core/service"
	"github.com/dynamicreport/report-api/internal/infrastructure/crypto/rsakeys"
	"github.com/dynamicreport/report-api/internal/infrastructure/db/redis"
	"github.com/dynamicreport/report-api/internal/infrastructure/db/sqlstore"
	"github.com/dynamicreport/report-api/internal/pkg/config"
	"github.com/dynamicreport/report-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.AppName,
	})

	keys, err := loadKeys(cfg.Keys)
	if err != nil {
		log.Fatal().Err(err).Msg("load rsa keys")
	}

	db, err := sqlstore.Connect(ctx, sqlstore.Config{
		Driver:          cfg.DB.Driver,
		DSN:             cfg.DB.DSN,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("connect database")
	}
	if cfg.DB.AutoMigrate {
		if err := sqlstore.Migrate(ctx, db, cfg.DB.Driver); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		log.Info().Msg("database migrated")
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
		}
	}

	placeholder := sqlstore.PlaceholderFor(cfg.DB.Driver)
	accounts := sqlstore.NewAccountRepository(db,
		sqlstore.WithPlaceholder(placeholder),
		sqlstore.WithQueryTimeout(cfg.DB.QueryTimeout))
	reports := sqlstore.NewReportRepository(db,
		sqlstore.WithPlaceholder(placeholder),
		sqlstore.WithQueryTimeout(cfg.DB.QueryTimeout))

	codec := service.NewTokenCodec(keys)

	var authOpts []service.AuthOption
	if rdb != nil {
		throttle := redis.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
		authOpts = append(authOpts, service.WithLoginThrottle(throttle))
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	router := api.NewRouter(api.Deps{
		AppName:       cfg.AppName,
		Logger:        log,
		AuthService:   service.NewAuthService(accounts, codec, keys, log, authOpts...),
		ReportService: service.NewReportService(reportquery.NewBuilder(reportquery.WithPlaceholder(placeholder)), reports, log),
		Codec:         codec,
		Roles:         service.NewRoleResolver(accounts),
		DB:            db,
		Redis:         rdb,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = db.Close()
	log.Info().Msg("stopped")
}

func loadKeys(k config.KeysConfig) (*rsakeys.KeyPair, error) {
	if k.Inline() {
		return rsakeys.Parse(k.PrivateKey, k.PublicKey)
	}
	return rsakeys.LoadFiles(k.PrivateKeyFile, k.PublicKeyFile)
}
