package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/promptvault/backend/config"
	"github.com/promptvault/backend/internal/model"
	"github.com/promptvault/backend/internal/repository"
)

var (
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrMissingFields   = errors.New("name, description, category and content are required")
)

type PromptService struct {
	cfg         *config.Config
	promptRepo  repository.PromptRepository
	versionRepo repository.VersionRepository
}

func NewPromptService(cfg *config.Config, promptRepo repository.PromptRepository, versionRepo repository.VersionRepository) *PromptService {
	return &PromptService{
		cfg:         cfg,
		promptRepo:  promptRepo,
		versionRepo: versionRepo,
	}
}

type CreatePromptRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Model       *string `json:"model"`
	Content     string  `json:"content"`
}

// UpdatePromptRequest 合并式更新：缺省字段保持当前值不变
type UpdatePromptRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Model       *string `json:"model"`
	Content     *string `json:"content"`
}

// Create 创建提示词，初始版本号为 1
func (s *PromptService) Create(req CreatePromptRequest) (*model.Prompt, error) {
	if req.Name == "" || req.Description == "" || req.Category == "" || req.Content == "" {
		return nil, ErrMissingFields
	}

	prompt := &model.Prompt{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Model:       req.Model,
		Content:     req.Content,
	}
	if err := s.promptRepo.Create(prompt); err != nil {
		return nil, fmt.Errorf("创建提示词失败: %w", err)
	}

	klog.V(6).Infof("提示词已创建: id=%s, name=%s", prompt.ID, prompt.Name)
	return prompt, nil
}

// Update 覆盖式合并请求字段后更新当前记录，并追加新版本
func (s *PromptService) Update(id string, req UpdatePromptRequest) (*model.Prompt, error) {
	current, err := s.promptRepo.GetBasic(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Category != nil {
		current.Category = *req.Category
	}
	if req.Model != nil {
		current.Model = req.Model
	}
	if req.Content != nil {
		current.Content = *req.Content
	}

	if err := s.promptRepo.UpdateWithVersion(current); err != nil {
		return nil, fmt.Errorf("更新提示词失败: %w", err)
	}

	return s.promptRepo.Get(id)
}

// Revert 回退到指定历史版本。不截断历史，而是以目标版本的
// 内容追加一个新版本。
func (s *PromptService) Revert(id string, versionID string) (*model.Prompt, error) {
	target, err := s.versionRepo.Get(versionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	// 拒绝跨提示词的版本引用
	if target.PromptID != id {
		return nil, ErrVersionNotFound
	}

	current, err := s.promptRepo.GetBasic(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}

	current.Name = target.Name
	current.Description = target.Description
	current.Category = target.Category
	current.Model = target.Model
	current.Content = target.Content

	if err := s.promptRepo.UpdateWithVersion(current); err != nil {
		return nil, fmt.Errorf("回退提示词版本失败: %w", err)
	}

	klog.V(6).Infof("提示词已回退: id=%s, targetVersion=%d", id, target.Version)
	return s.promptRepo.Get(id)
}

func (s *PromptService) Get(id string) (*model.Prompt, error) {
	prompt, err := s.promptRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	return prompt, nil
}

func (s *PromptService) List() ([]model.Prompt, error) {
	return s.promptRepo.List()
}

// Search 按分类与模型做等值过滤，再对文本字段做不区分大小写的
// 子串匹配。SQLite 的 LIKE 对大小写不敏感匹配不可靠，故在内存中过滤。
func (s *PromptService) Search(query, category, modelName string) ([]model.Prompt, error) {
	prompts, err := s.promptRepo.ListFiltered(category, modelName)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return prompts, nil
	}

	q := strings.ToLower(query)
	matched := make([]model.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if promptMatches(&p, q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func promptMatches(p *model.Prompt, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Content), q) ||
		strings.Contains(strings.ToLower(p.Category), q) {
		return true
	}
	return p.Model != nil && strings.Contains(strings.ToLower(*p.Model), q)
}

func (s *PromptService) ListVersions(id string) ([]model.PromptVersion, error) {
	return s.versionRepo.GetByPrompt(id)
}

// Delete 删除提示词及其全部版本。远端发布状态的清理由调用方
// 在删除前完成（见 publish handler）。
func (s *PromptService) Delete(id string) error {
	if err := s.promptRepo.Delete(id); err != nil {
		return fmt.Errorf("删除提示词失败: %w", err)
	}
	klog.V(6).Infof("提示词已删除: id=%s", id)
	return nil
}

func (s *PromptService) ListPublished() ([]model.Prompt, error) {
	return s.promptRepo.ListPublished()
}

// MarkPublished 将提示词标记为已发布并记录远端路径
func (s *PromptService) MarkPublished(id string, githubPath string) (*model.Prompt, error) {
	prompt, err := s.promptRepo.GetBasic(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}

	now := time.Now()
	prompt.IsPublished = true
	prompt.PublishedAt = &now
	prompt.GithubPath = &githubPath
	if err := s.promptRepo.Save(prompt); err != nil {
		return nil, fmt.Errorf("标记发布状态失败: %w", err)
	}
	return prompt, nil
}

// MarkUnpublished 清除发布标记与远端路径
func (s *PromptService) MarkUnpublished(id string) (*model.Prompt, error) {
	prompt, err := s.promptRepo.GetBasic(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}

	prompt.IsPublished = false
	prompt.PublishedAt = nil
	prompt.GithubPath = nil
	if err := s.promptRepo.Save(prompt); err != nil {
		return nil, fmt.Errorf("清除发布状态失败: %w", err)
	}
	return prompt, nil
}

type FilterOptions struct {
	Categories []string `json:"categories"`
	Models     []string `json:"models"`
}

func (s *PromptService) GetFilterOptions() (*FilterOptions, error) {
	categories, err := s.promptRepo.DistinctCategories()
	if err != nil {
		return nil, err
	}
	models, err := s.promptRepo.DistinctModels()
	if err != nil {
		return nil, err
	}
	return &FilterOptions{Categories: categories, Models: models}, nil
}

func (s *PromptService) GetCategories() ([]string, error) {
	return s.promptRepo.DistinctCategories()
}

// GetStats 返回总量、已发布数量与近 7 天更新数量
func (s *PromptService) GetStats() (*model.PromptStats, error) {
	return s.promptRepo.GetStats(time.Now().Add(-7 * 24 * time.Hour))
}
