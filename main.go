package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"foodorder/configs"
	"foodorder/events"
	"foodorder/repository"
	"foodorder/routes"
	"foodorder/services"
	"foodorder/ws"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stores struct {
	users  services.UserRepository
	meals  services.MealRepository
	carts  services.CartRepository
	orders services.OrderRepository
	close  func()
}

func openStores(ctx context.Context, cfg *configs.Config) (*stores, error) {
	if cfg.DBDriver == "mongo" {
		client, db, err := configs.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &stores{
			users:  repository.NewMongoUserRepository(db),
			meals:  repository.NewMongoMealRepository(db),
			carts:  repository.NewMongoCartRepository(db),
			orders: repository.NewMongoOrderRepository(db),
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &stores{
		users:  repository.NewUserRepository(db),
		meals:  repository.NewMealRepository(db),
		carts:  repository.NewCartRepository(db),
		orders: repository.NewOrderRepository(db),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

func main() {
	cfg := configs.LoadConfig()

	logger, err := configs.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	if cfg.JWTSecret == configs.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set, using the development default")
	}

	decimal.MarshalJSONWithoutQuotes = true
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("connect database failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer st.close()

	meals := st.meals
	rdb, err := configs.NewRedis(ctx, cfg)
	if err != nil {
		logger.Fatal("connect redis failed", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		meals = repository.NewCachedMealRepository(st.meals, rdb, cfg.CacheTTL, logger)
		logger.Info("meal cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	// seed
	if err := configs.SeedAdmin(ctx, cfg, st.users, logger); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}
	if cfg.SeedMeals {
		if err := configs.SeedMeals(ctx, st.meals, logger); err != nil {
			logger.Fatal("seed meals failed", zap.Error(err))
		}
	}

	// order events
	hub := ws.NewOrderHub(logger)
	go hub.Run(ctx)
	publishers := events.Fanout{hub}
	if w := configs.NewKafkaWriter(cfg); w != nil {
		defer w.Close()
		publishers = append(publishers, events.NewKafkaPublisher(w))
		logger.Info("kafka publishing enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	authSvc := services.NewAuthService(st.users, cfg.JWTSecret, cfg.JWTTTL)
	r := routes.NewRouter(routes.Deps{
		Auth:        authSvc,
		Meals:       services.NewMealService(meals),
		Carts:       services.NewCartService(st.carts, meals, logger),
		Orders:      services.NewOrderService(st.orders, st.meals, publishers, logger),
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
