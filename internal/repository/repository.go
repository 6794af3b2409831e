package repository

import (
	"errors"
	"time"

	"github.com/promptvault/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type PromptRepository interface {
	Create(prompt *model.Prompt) error
	List() ([]model.Prompt, error)
	ListFiltered(category, modelName string) ([]model.Prompt, error)
	ListPublished() ([]model.Prompt, error)
	Get(id string) (*model.Prompt, error)
	GetBasic(id string) (*model.Prompt, error)
	UpdateWithVersion(prompt *model.Prompt) error
	Save(prompt *model.Prompt) error
	Delete(id string) error
	DistinctCategories() ([]string, error)
	DistinctModels() ([]string, error)
	GetStats(recentSince time.Time) (*model.PromptStats, error)
}

type VersionRepository interface {
	Get(id string) (*model.PromptVersion, error)
	GetByPrompt(promptID string) ([]model.PromptVersion, error)
}
