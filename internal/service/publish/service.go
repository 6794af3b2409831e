package publish

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/promptvault/backend/internal/model"
)

const indexPath = "README.md"

var (
	// ErrNotPublished 前置条件不满足：提示词未处于已发布状态
	ErrNotPublished = errors.New("prompt is not published")
	// ErrRemoteNotFound 远端不存在目标文件
	ErrRemoteNotFound = errors.New("remote file not found")
)

// RemoteStore 远端文件存储契约。sha 为远端的乐观并发令牌，
// PutFile 传空 sha 表示新建文件。
type RemoteStore interface {
	GetFile(ctx context.Context, path string) (content string, sha string, err error)
	PutFile(ctx context.Context, path string, content string, message string, sha string) error
	DeleteFile(ctx context.Context, path string, message string, sha string) error
}

// Service 将已发布的提示词镜像为远端仓库中的文件：
// 每个提示词一个 prompt.md，外加一份聚合的 README 索引。
type Service struct {
	store RemoteStore
}

func New(store RemoteStore) *Service {
	return &Service{store: store}
}

// Publish 在由名称推导出的路径下写入新的远端文件，返回该路径。
// 路径在首次发布时确定，后续编辑不再重新计算。
func (s *Service) Publish(ctx context.Context, prompt *model.Prompt) (string, error) {
	path := fmt.Sprintf("prompts/%s/prompt.md", PromptSlug(prompt.Name))
	content := renderPromptFile(prompt)

	if err := s.store.PutFile(ctx, path, content, "Publish prompt: "+prompt.Name, ""); err != nil {
		return "", fmt.Errorf("发布提示词到远端失败: %w", err)
	}

	klog.V(6).Infof("提示词已发布: id=%s, path=%s", prompt.ID, path)
	return path, nil
}

// UpdatePublished 以刷新后的内容覆盖已发布文件。先读取远端文件
// 取得当前 sha，再携带 sha 覆盖写入。
func (s *Service) UpdatePublished(ctx context.Context, prompt *model.Prompt, path string) error {
	if !prompt.IsPublished || path == "" {
		return ErrNotPublished
	}

	_, sha, err := s.store.GetFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrRemoteNotFound) {
			return ErrRemoteNotFound
		}
		return fmt.Errorf("读取远端文件失败: %w", err)
	}

	content := renderPromptFile(prompt)
	if err := s.store.PutFile(ctx, path, content, "Update prompt: "+prompt.Name, sha); err != nil {
		return fmt.Errorf("更新远端提示词失败: %w", err)
	}

	klog.V(6).Infof("已更新远端提示词: id=%s, path=%s", prompt.ID, path)
	return nil
}

// Unpublish 删除远端文件
func (s *Service) Unpublish(ctx context.Context, path string) error {
	_, sha, err := s.store.GetFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrRemoteNotFound) {
			return ErrRemoteNotFound
		}
		return fmt.Errorf("读取远端文件失败: %w", err)
	}

	if err := s.store.DeleteFile(ctx, path, "Remove prompt from repository", sha); err != nil {
		return fmt.Errorf("删除远端提示词失败: %w", err)
	}

	klog.V(6).Infof("已删除远端提示词: path=%s", path)
	return nil
}

// RegenerateIndex 依据全部已发布提示词重建 README 索引。
// 文件已存在时沿用其 sha，不存在则新建。
func (s *Service) RegenerateIndex(ctx context.Context, prompts []model.Prompt) error {
	content := renderIndex(prompts)

	var sha string
	_, existingSHA, err := s.store.GetFile(ctx, indexPath)
	switch {
	case err == nil:
		sha = existingSHA
	case errors.Is(err, ErrRemoteNotFound):
		// README 尚不存在，直接新建
	default:
		return fmt.Errorf("读取远端索引失败: %w", err)
	}

	if err := s.store.PutFile(ctx, indexPath, content, "Update README with prompt listings", sha); err != nil {
		return fmt.Errorf("更新远端索引失败: %w", err)
	}
	return nil
}

// PromptSlug 由提示词名称推导远端目录名：小写化，
// 非字母数字折叠为单个连字符，去掉首尾连字符。
func PromptSlug(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// renderIndex 生成聚合索引。分类按字典序排列，
// 分类内的提示词按名称排列。
func renderIndex(prompts []model.Prompt) string {
	published := make([]model.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.IsPublished {
			published = append(published, p)
		}
	}

	var b strings.Builder
	b.WriteString("# Prompts Repository\n\n")
	b.WriteString("This repository contains a collection of AI prompts organized by category.\n\n")
	b.WriteString("## Available Prompts\n\n")
	fmt.Fprintf(&b, "Total prompts: %d\n\n", len(published))

	if len(published) == 0 {
		b.WriteString("*No prompts published yet.*\n")
		return b.String()
	}

	byCategory := make(map[string][]model.Prompt)
	for _, p := range published {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(&b, "### %s\n\n", category)

		group := byCategory[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		for _, p := range group {
			path := "./prompts/" + PromptSlug(p.Name) + "/prompt.md"
			if p.GithubPath != nil && *p.GithubPath != "" {
				path = "./" + *p.GithubPath
			}
			fmt.Fprintf(&b, "#### [%s](%s)\n\n", p.Name, path)
			fmt.Fprintf(&b, "%s\n\n", p.Description)
			modelName := "Not specified"
			if p.Model != nil && *p.Model != "" {
				modelName = *p.Model
			}
			fmt.Fprintf(&b, "- **Model**: %s\n", modelName)
			fmt.Fprintf(&b, "- **Updated**: %s\n\n", p.UpdatedAt.Format("2006-01-02"))
		}
	}

	b.WriteString("\n---\n\n*This README is automatically generated when prompts are published.*\n")
	return b.String()
}
