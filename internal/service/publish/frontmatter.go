package publish

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/promptvault/backend/internal/model"
)

// promptFrontMatter 发布文件头部的元数据块
type promptFrontMatter struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	Model       *string `yaml:"model"`
	CreatedAt   string  `yaml:"createdAt"`
	UpdatedAt   string  `yaml:"updatedAt"`
}

// renderPromptFile 生成发布文件：YAML front matter + 原始内容
func renderPromptFile(prompt *model.Prompt) string {
	meta := promptFrontMatter{
		Name:        prompt.Name,
		Description: prompt.Description,
		Category:    prompt.Category,
		Model:       prompt.Model,
		CreatedAt:   prompt.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   prompt.UpdatedAt.UTC().Format(time.RFC3339),
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		// 固定结构体序列化不应失败
		klog.Errorf("front matter 序列化失败: %v", err)
		data = nil
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n")
	b.WriteString(prompt.Content)
	if !strings.HasSuffix(prompt.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
