package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/promptvault/backend/internal/model"
	"gorm.io/gorm"
)

type promptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

// Create 创建提示词并在同一事务内写入版本 1
func (r *promptRepository) Create(prompt *model.Prompt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if prompt.ID == "" {
			prompt.ID = uuid.NewString()
		}
		if err := tx.Create(prompt).Error; err != nil {
			return err
		}

		version := snapshotOf(prompt, 1)
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		prompt.Versions = []model.PromptVersion{*version}
		return nil
	})
}

func (r *promptRepository) List() ([]model.Prompt, error) {
	var prompts []model.Prompt
	err := r.db.Order("updated_at DESC").Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) ListFiltered(category, modelName string) ([]model.Prompt, error) {
	query := r.db.Order("updated_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if modelName != "" {
		query = query.Where("model = ?", modelName)
	}
	var prompts []model.Prompt
	err := query.Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) ListPublished() ([]model.Prompt, error) {
	var prompts []model.Prompt
	err := r.db.Where("is_published = ?", true).
		Order("category ASC, name ASC").
		Find(&prompts).Error
	return prompts, err
}

// Get 获取提示词及其全部版本，版本号倒序
func (r *promptRepository) Get(id string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version DESC")
	}).First(&prompt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) GetBasic(id string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.db.First(&prompt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &prompt, nil
}

// UpdateWithVersion 更新当前记录并追加下一个版本号的快照。
// 版本号取 MAX(version)+1，查号与写入处于同一事务，
// (prompt_id, version) 上的唯一索引兜底并发写入。
func (r *promptRepository) UpdateWithVersion(prompt *model.Prompt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxVersion sql.NullInt64
		if err := tx.Model(&model.PromptVersion{}).
			Where("prompt_id = ?", prompt.ID).
			Select("MAX(version)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		nextVersion := 1
		if maxVersion.Valid {
			nextVersion = int(maxVersion.Int64) + 1
		}

		prompt.UpdatedAt = time.Now()
		if err := tx.Model(&model.Prompt{}).
			Where("id = ?", prompt.ID).
			Updates(map[string]interface{}{
				"name":        prompt.Name,
				"description": prompt.Description,
				"category":    prompt.Category,
				"model":       prompt.Model,
				"content":     prompt.Content,
				"updated_at":  prompt.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		return tx.Create(snapshotOf(prompt, nextVersion)).Error
	})
}

func (r *promptRepository) Save(prompt *model.Prompt) error {
	return r.db.Save(prompt).Error
}

// Delete 删除提示词并级联清理其全部版本
func (r *promptRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", id).Delete(&model.PromptVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Prompt{}, "id = ?", id).Error
	})
}

func (r *promptRepository) DistinctCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&model.Prompt{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *promptRepository) DistinctModels() ([]string, error) {
	var models []string
	err := r.db.Model(&model.Prompt{}).
		Distinct("model").
		Where("model IS NOT NULL").
		Order("model ASC").
		Pluck("model", &models).Error
	return models, err
}

func (r *promptRepository) GetStats(recentSince time.Time) (*model.PromptStats, error) {
	stats := &model.PromptStats{}
	if err := r.db.Model(&model.Prompt{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Prompt{}).
		Where("is_published = ?", true).
		Count(&stats.Published).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Prompt{}).
		Where("updated_at >= ?", recentSince).
		Count(&stats.RecentCount).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func snapshotOf(prompt *model.Prompt, version int) *model.PromptVersion {
	return &model.PromptVersion{
		ID:          uuid.NewString(),
		PromptID:    prompt.ID,
		Version:     version,
		Name:        prompt.Name,
		Description: prompt.Description,
		Category:    prompt.Category,
		Model:       prompt.Model,
		Content:     prompt.Content,
	}
}
