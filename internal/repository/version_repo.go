package repository

import (
	"errors"

	"github.com/promptvault/backend/internal/model"
	"gorm.io/gorm"
)

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Get(id string) (*model.PromptVersion, error) {
	var version model.PromptVersion
	err := r.db.First(&version, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) GetByPrompt(promptID string) ([]model.PromptVersion, error) {
	var versions []model.PromptVersion
	err := r.db.Where("prompt_id = ?", promptID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}
