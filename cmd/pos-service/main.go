// cmd/pos-service/main.go
package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"merx/internal/pkg/bootstrap"
	"merx/internal/pkg/database"
	"merx/internal/pkg/logger"
	"merx/internal/pkg/mq"
	"merx/internal/pkg/redis"
	"merx/internal/pkg/zookeeper"
	catalogapp "merx/internal/service/catalog/application"
	cataloginfra "merx/internal/service/catalog/infrastructure"
	catalogifc "merx/internal/service/catalog/interfaces"
	promoapp "merx/internal/service/promotion/application"
	promodomain "merx/internal/service/promotion/domain"
	promoinfra "merx/internal/service/promotion/infrastructure"
	"merx/internal/service/promotion/infrastructure/rule"
	promoifc "merx/internal/service/promotion/interfaces"
	saleapp "merx/internal/service/sale/application"
	saledomain "merx/internal/service/sale/domain"
	saleinfra "merx/internal/service/sale/infrastructure"
	"merx/internal/service/sale/infrastructure/adapter"
	saleifc "merx/internal/service/sale/interfaces"
)

const (
	serviceName = "pos-service"
	servicePort = 8080
)

// main 是应用的组装根：创建并组装所有依赖项，然后启动服务。
// promotion、sale、catalog 三个上下文跑在同一个进程里，
// 进程内直连，部署上是一个单体 POS 服务。
func main() {
	logger.Init(serviceName)
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	tracer := otel.Tracer(serviceName)

	// 1. MySQL
	db, err := database.Open(cfg.Infra.Mysql)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.AutoMigrate(
		&promoinfra.DiscountSetModel{},
		&promoinfra.ProductConfigurationModel{},
		&cataloginfra.ProductModel{},
		&saleinfra.SaleModel{},
		&saleinfra.SaleLineModel{},
		&saleinfra.SaleAppliedRuleModel{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	// 2. 可选组件：Redis 缓存、Zookeeper 锁、Kafka 生产者
	var campaignCache promodomain.CampaignCache
	if cfg.Infra.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Infra.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		campaignCache = promoinfra.NewCampaignRedisCache(redisClient)
	}

	var activationLock promodomain.ActivationLock
	if cfg.Infra.Zookeeper.Enabled {
		zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to zookeeper")
		}
		defer zkConn.Close()
		activationLock = zookeeper.NewLockRunner(zkConn)
	}

	var saleProducer saledomain.SaleEventProducer
	if cfg.Infra.Kafka.Enabled {
		kafkaAdapter := adapter.NewSaleKafkaAdapter(mq.NewWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.SaleTopic))
		defer kafkaAdapter.Close()
		saleProducer = kafkaAdapter
	}

	// 3. promotion 上下文
	eligibility, err := rule.NewCELEligibilityEvaluator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize eligibility evaluator")
	}
	campaignRepo := promoinfra.NewGormCampaignRepository(db)
	promotionService := promoapp.NewPromotionService(campaignRepo, campaignCache, eligibility, activationLock, tracer)
	promotionHandler := promoifc.NewPromotionHandler(promotionService, campaignRepo)

	// 4. catalog 上下文
	catalogService := catalogapp.NewCatalogService(cataloginfra.NewGormProductRepository(db), tracer)
	catalogHandler := catalogifc.NewCatalogHandler(catalogService)

	// 5. sale 上下文
	saleRepo := saleinfra.NewGormSaleRepository(db)
	saleService := saleapp.NewSaleService(
		saleRepo,
		adapter.NewCatalogAdapter(catalogService),
		promotionService,
		saleProducer,
		tracer,
	)
	saleHandler := saleifc.NewSaleHandler(saleService)
	liveQuoteHandler := saleifc.NewLiveQuoteHandler(promotionService)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
			promotionHandler.RegisterRoutes(appCtx.Mux)
			catalogHandler.RegisterRoutes(appCtx.Mux)
			saleHandler.RegisterRoutes(appCtx.Mux)
			liveQuoteHandler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			log.Info().Msg("pos-service shutting down")
		},
	})
}
