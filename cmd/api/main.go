package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	infraSession "storefront/internal/infra/session"
	"storefront/internal/messaging"
	"storefront/internal/messaging/kafka"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	loveRepo := infraRepo.NewLoveGormRepository(gormDB)
	roleRepo := infraRepo.NewRoleGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	if err := db.Seed(ctx, roleRepo, adminRepo, cfg.AdminPassword); err != nil {
		return err
	}

	//セッションストア（REDIS_URLが無ければメモリ）
	var store session.Store
	if cfg.RedisURL != "" {
		rs, err := infraSession.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
	} else {
		logger.Warn("REDIS_URL not set, using in-memory sessions")
		store = infraSession.NewMemoryStore()
	}

	//イベント（KAFKA_BROKERSが無ければログだけ）
	var events messaging.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		defer kp.Close()
		events = kp
	} else {
		events = messaging.NewLogPublisher(logger)
	}

	//Usecase生成
	hasher := usecase.NewBcryptHasher()
	cartUC := usecase.NewCartUsecase(productRepo)
	productUC := usecase.NewProductUsecase(txm, productRepo, categoryRepo, reviewRepo, loveRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, loveRepo, productRepo)
	customerUC := usecase.NewCustomerUsecase(customerRepo, hasher)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txm, customerRepo, cartUC, events)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, orderItemRepo, auditRepo, events)
	adminAuthUC := usecase.NewAdminAuthUsecase(adminRepo, roleRepo, hasher)
	accessUC := usecase.NewAccessUsecase(txm, roleRepo, adminRepo, hasher)
	categoryUC := usecase.NewCategoryUsecase(txm, categoryRepo)
	adminCustomerUC := usecase.NewAdminCustomerUsecase(txm, customerRepo, orderRepo)
	dashboardUC := usecase.NewDashboardUsecase(productRepo, orderRepo, customerRepo)

	//Handler生成
	handlers := server.Handlers{
		Product:      handler.NewProductHandler(productUC, reviewUC),
		Cart:         handler.NewCartHandler(cartUC),
		Auth:         handler.NewAuthHandler(customerUC, orderUC, reviewUC),
		Order:        handler.NewOrderHandler(checkoutUC, orderUC),
		AdminUser:    handler.NewAdminUserHandler(adminAuthUC, accessUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Admin:        handler.NewAdminHandler(dashboardUC, categoryUC, adminCustomerUC, reviewUC),
	}

	e := server.New(logger, middleware.SessionConfig{
		Store:  store,
		Codec:  session.NewTokenCodec(cfg.SessionSecret, cfg.SessionTTL),
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, handlers)

	//Server起動
	logger.Info("server starting", "addr", cfg.Addr())
	return server.Start(ctx, e, cfg.Addr())
}
