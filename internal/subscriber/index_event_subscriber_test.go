package subscriber

import (
	"context"
	"errors"
	"testing"

	"github.com/promptvault/backend/internal/eventbus"
	"github.com/promptvault/backend/internal/model"
)

type mockLister struct {
	prompts []model.Prompt
	err     error
}

// ListPublished 返回预置的已发布列表
func (m *mockLister) ListPublished() ([]model.Prompt, error) {
	return m.prompts, m.err
}

type mockRegenerator struct {
	calls [][]model.Prompt
	err   error
}

// RegenerateIndex 记录每次收到的列表
func (m *mockRegenerator) RegenerateIndex(ctx context.Context, prompts []model.Prompt) error {
	m.calls = append(m.calls, prompts)
	return m.err
}

func TestIndexSubscriberRegeneratesOnPublish(t *testing.T) {
	lister := &mockLister{prompts: []model.Prompt{{ID: "a"}, {ID: "b"}}}
	regen := &mockRegenerator{}
	bus := eventbus.NewBus()
	NewIndexEventSubscriber(lister, regen).Register(bus)

	if err := bus.Publish(context.Background(), eventbus.PromptEvent{Type: eventbus.PromptPublished, PromptID: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regen.calls) != 1 || len(regen.calls[0]) != 2 {
		t.Fatalf("unexpected regenerate calls: %+v", regen.calls)
	}
}

func TestIndexSubscriberExcludesDeletedPrompt(t *testing.T) {
	lister := &mockLister{prompts: []model.Prompt{{ID: "a"}, {ID: "b"}}}
	regen := &mockRegenerator{}
	bus := eventbus.NewBus()
	NewIndexEventSubscriber(lister, regen).Register(bus)

	event := eventbus.PromptEvent{Type: eventbus.PromptDeleted, PromptID: "a", ExcludeID: "a"}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regen.calls) != 1 {
		t.Fatalf("expected one regenerate call")
	}
	if len(regen.calls[0]) != 1 || regen.calls[0][0].ID != "b" {
		t.Fatalf("expected deleted prompt excluded: %+v", regen.calls[0])
	}
}

func TestIndexSubscriberSwallowsFailures(t *testing.T) {
	lister := &mockLister{prompts: []model.Prompt{{ID: "a"}}}
	regen := &mockRegenerator{err: errors.New("remote down")}
	bus := eventbus.NewBus()
	NewIndexEventSubscriber(lister, regen).Register(bus)

	// 索引重建失败不反馈给发布方
	if err := bus.Publish(context.Background(), eventbus.PromptEvent{Type: eventbus.PromptUnpublished}); err != nil {
		t.Fatalf("expected swallowed error, got %v", err)
	}

	lister.err = errors.New("db down")
	if err := bus.Publish(context.Background(), eventbus.PromptEvent{Type: eventbus.PromptPublished}); err != nil {
		t.Fatalf("expected swallowed lister error, got %v", err)
	}
}
