package subscriber

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/promptvault/backend/internal/eventbus"
	"github.com/promptvault/backend/internal/model"
)

type publishedLister interface {
	ListPublished() ([]model.Prompt, error)
}

type indexRegenerator interface {
	RegenerateIndex(ctx context.Context, prompts []model.Prompt) error
}

// IndexEventSubscriber 在发布状态变化后重建远端 README 索引。
// 索引重建是尽力而为的：任何失败只记录日志，绝不影响
// 已经成功的主操作。
type IndexEventSubscriber struct {
	prompts publishedLister
	index   indexRegenerator
}

func NewIndexEventSubscriber(prompts publishedLister, index indexRegenerator) *IndexEventSubscriber {
	return &IndexEventSubscriber{prompts: prompts, index: index}
}

func (s *IndexEventSubscriber) Register(bus *eventbus.Bus) {
	if bus == nil {
		return
	}
	bus.Subscribe(eventbus.PromptPublished, s.handlePublishChanged)
	bus.Subscribe(eventbus.PromptRepublished, s.handlePublishChanged)
	bus.Subscribe(eventbus.PromptUnpublished, s.handlePublishChanged)
	bus.Subscribe(eventbus.PromptDeleted, s.handlePublishChanged)
}

func (s *IndexEventSubscriber) handlePublishChanged(ctx context.Context, event eventbus.PromptEvent) error {
	published, err := s.prompts.ListPublished()
	if err != nil {
		klog.Errorf("重建索引前获取已发布列表失败: type=%s, error=%v", event.Type, err)
		return nil
	}

	// 删除流程中剔除正在删除的提示词
	if event.ExcludeID != "" {
		filtered := make([]model.Prompt, 0, len(published))
		for _, p := range published {
			if p.ID != event.ExcludeID {
				filtered = append(filtered, p)
			}
		}
		published = filtered
	}

	if err := s.index.RegenerateIndex(ctx, published); err != nil {
		klog.Errorf("重建远端索引失败: type=%s, promptID=%s, error=%v", event.Type, event.PromptID, err)
		return nil
	}

	klog.V(6).Infof("远端索引已重建: type=%s, promptID=%s, count=%d", event.Type, event.PromptID, len(published))
	return nil
}
