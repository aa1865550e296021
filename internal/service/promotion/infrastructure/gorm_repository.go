package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"merx/internal/service/promotion/domain"
)

// GormCampaignRepository 是 domain.CampaignRepository 的 GORM 实现。
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository 创建一个新的 GORM 仓储实例。
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindActiveDefault 查找当前启用中的默认活动。
func (r *GormCampaignRepository) FindActiveDefault(ctx context.Context) (*domain.DiscountSet, error) {
	var model DiscountSetModel
	err := r.db.WithContext(ctx).
		Preload("ProductConfigurations").
		Where("is_active = ? AND is_default = ?", true, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, errors.Wrap(err, "find active default campaign")
	}
	return ToDomainDiscountSet(&model), nil
}

// FindByName 按名称查找活动。
func (r *GormCampaignRepository) FindByName(ctx context.Context, name string) (*domain.DiscountSet, error) {
	model, err := r.findModelByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return ToDomainDiscountSet(model), nil
}

// SaveDocument 插入或整体覆盖一份活动配置文档。
// 覆盖时旧的商品配置行被整批替换，活动文档是不可分割的整体。
func (r *GormCampaignRepository) SaveDocument(ctx context.Context, doc *CampaignDocument) error {
	if doc.Name == "" {
		return domain.ErrCampaignInvalid
	}
	model := doc.ToModel()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DiscountSetModel
		err := tx.Where("name = ?", doc.Name).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return errors.Wrap(tx.Create(model).Error, "create campaign")
		case err != nil:
			return errors.Wrap(err, "lookup campaign")
		}

		if err := tx.Where("discount_set_id = ?", existing.ID).
			Delete(&ProductConfigurationModel{}).Error; err != nil {
			return errors.Wrap(err, "clear product configurations")
		}
		model.ID = existing.ID
		for i := range model.ProductConfigurations {
			model.ProductConfigurations[i].DiscountSetID = existing.ID
		}
		return errors.Wrap(tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error, "update campaign")
	})
}

// Save 实现 domain.CampaignRepository；领域对象走文档同一条路径落库的
// 场景极少（领域对象本身由 JSON 解析而来），这里只更新活动级开关。
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *domain.DiscountSet) error {
	if campaign == nil || campaign.Name == "" {
		return domain.ErrCampaignInvalid
	}
	updates := map[string]interface{}{
		"is_active":                   campaign.Active,
		"is_default":                  campaign.Default,
		"is_one_time_per_transaction": campaign.OneTimePerTransaction,
	}
	res := r.db.WithContext(ctx).Model(&DiscountSetModel{}).
		Where("name = ?", campaign.Name).Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "save campaign flags")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

// ActivateByName 原子地把目标活动设为唯一的默认活动。
func (r *GormCampaignRepository) ActivateByName(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model DiscountSetModel
		if err := tx.Where("name = ?", name).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCampaignNotFound
			}
			return errors.Wrap(err, "lookup campaign")
		}
		if err := tx.Model(&DiscountSetModel{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return errors.Wrap(err, "clear default flags")
		}
		return errors.Wrap(tx.Model(&model).
			Updates(map[string]interface{}{"is_default": true, "is_active": true}).Error,
			"activate campaign")
	})
}

func (r *GormCampaignRepository) findModelByName(ctx context.Context, name string) (*DiscountSetModel, error) {
	var model DiscountSetModel
	err := r.db.WithContext(ctx).
		Preload("ProductConfigurations").
		Where("name = ?", name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, errors.Wrap(err, "find campaign by name")
	}
	return &model, nil
}
