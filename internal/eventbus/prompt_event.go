package eventbus

import (
	"context"
	"time"
)

type PromptEventType string

const (
	PromptPublished   PromptEventType = "prompt.published"
	PromptRepublished PromptEventType = "prompt.republished"
	PromptUnpublished PromptEventType = "prompt.unpublished"
	PromptDeleted     PromptEventType = "prompt.deleted"
)

// PromptEvent 提示词发布状态变更事件。
// ExcludeID 仅在删除流程中携带：重建索引时需要剔除正在删除的提示词。
type PromptEvent struct {
	Type       PromptEventType
	PromptID   string
	PromptName string
	ExcludeID  string
	OccurredAt time.Time
}

type PromptEventHandler func(ctx context.Context, event PromptEvent) error
