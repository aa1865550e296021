// cmd/campaign-seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"merx/internal/pkg/bootstrap"
	"merx/internal/pkg/database"
	"merx/internal/pkg/logger"
	catalogapp "merx/internal/service/catalog/application"
	catalogdomain "merx/internal/service/catalog/domain"
	cataloginfra "merx/internal/service/catalog/infrastructure"
	promoinfra "merx/internal/service/promotion/infrastructure"
)

// SeedFile 是导入文件的结构：一份商品价格表加若干活动配置。
type SeedFile struct {
	Products  []catalogapp.ProductDTO       `json:"products"`
	Campaigns []promoinfra.CampaignDocument `json:"campaigns"`
}

// campaign-seeder 把活动配置和商品价格表灌进数据库，
// 门店上新或调活动时跑一次。
func main() {
	logger.Init("campaign-seeder")

	var (
		file     = flag.String("file", "seed.json", "path to the seed file")
		activate = flag.String("activate", "", "campaign to activate as default after seeding")
	)
	flag.Parse()

	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	db, err := database.Open(cfg.Infra.Mysql)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.AutoMigrate(
		&promoinfra.DiscountSetModel{},
		&promoinfra.ProductConfigurationModel{},
		&cataloginfra.ProductModel{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to read seed file")
	}
	var seed SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("seed file is not valid JSON")
	}

	ctx := context.Background()

	productRepo := cataloginfra.NewGormProductRepository(db)
	for i := range seed.Products {
		dto := &seed.Products[i]
		product, err := domainProduct(dto)
		if err != nil {
			log.Fatal().Err(err).Str("product", dto.ID).Msg("invalid product in seed file")
		}
		if err := productRepo.Save(ctx, product); err != nil {
			log.Fatal().Err(err).Str("product", dto.ID).Msg("failed to save product")
		}
	}
	log.Info().Int("count", len(seed.Products)).Msg("products seeded")

	campaignRepo := promoinfra.NewGormCampaignRepository(db)
	for i := range seed.Campaigns {
		doc := &seed.Campaigns[i]
		if err := campaignRepo.SaveDocument(ctx, doc); err != nil {
			log.Fatal().Err(err).Str("campaign", doc.Name).Msg("failed to save campaign")
		}
	}
	log.Info().Int("count", len(seed.Campaigns)).Msg("campaigns seeded")

	if *activate != "" {
		if err := campaignRepo.ActivateByName(ctx, *activate); err != nil {
			log.Fatal().Err(err).Str("campaign", *activate).Msg("failed to activate campaign")
		}
		log.Info().Str("campaign", *activate).Msg("campaign activated as default")
	}
}

func domainProduct(dto *catalogapp.ProductDTO) (*catalogdomain.Product, error) {
	product, err := catalogdomain.NewProduct(dto.ID, dto.Name, dto.Category, dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	product.Active = dto.Active
	return product, nil
}
