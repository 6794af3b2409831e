package model

import (
	"time"
)

type Prompt struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"size:1000;not null"`
	Category    string          `json:"category" gorm:"size:255;not null;index"`
	Model       *string         `json:"model" gorm:"size:255"`
	Content     string          `json:"content" gorm:"type:text;not null"`
	IsPublished bool            `json:"is_published" gorm:"default:false"`
	PublishedAt *time.Time      `json:"published_at"`
	GithubPath  *string         `json:"github_path" gorm:"size:500"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Versions    []PromptVersion `json:"versions,omitempty" gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE"`
}

// PromptVersion 提示词的不可变历史快照，只新增，不修改
type PromptVersion struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	PromptID    string    `json:"prompt_id" gorm:"size:36;not null;index;uniqueIndex:idx_prompt_version,priority:1"`
	Version     int       `json:"version" gorm:"not null;uniqueIndex:idx_prompt_version,priority:2"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1000;not null"`
	Category    string    `json:"category" gorm:"size:255;not null"`
	Model       *string   `json:"model" gorm:"size:255"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// PromptStats 仪表盘统计数据
type PromptStats struct {
	Total       int64 `json:"total"`
	Published   int64 `json:"published"`
	RecentCount int64 `json:"recent_count"`
}
