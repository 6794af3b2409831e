package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/promptvault/backend/internal/eventbus"
	"github.com/promptvault/backend/internal/service"
	"github.com/promptvault/backend/internal/service/publish"
)

// PublishHandler 驱动发布同步：远端主文件写入成功后才落地
// 本地发布状态，索引重建交给事件订阅方尽力完成。
type PublishHandler struct {
	service   *service.PromptService
	publisher *publish.Service
	bus       *eventbus.Bus
}

func NewPublishHandler(service *service.PromptService, publisher *publish.Service, bus *eventbus.Bus) *PublishHandler {
	return &PublishHandler{
		service:   service,
		publisher: publisher,
		bus:       bus,
	}
}

// Publish 首次发布：写入远端文件，成功后标记本地发布状态
func (h *PublishHandler) Publish(c *gin.Context) {
	id := c.Param("id")

	prompt, err := h.service.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	path, err := h.publisher.Publish(c.Request.Context(), prompt)
	if err != nil {
		klog.Errorf("发布提示词失败: id=%s, error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish prompt"})
		return
	}

	updated, err := h.service.MarkPublished(id, path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.PromptEvent{
		Type:       eventbus.PromptPublished,
		PromptID:   id,
		PromptName: updated.Name,
		OccurredAt: time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Prompt published successfully",
		"prompt":      updated,
		"github_path": path,
	})
}

// UpdatePublished 刷新已发布文件的内容，路径保持首次发布时的值
func (h *PublishHandler) UpdatePublished(c *gin.Context) {
	id := c.Param("id")

	prompt, err := h.service.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if !prompt.IsPublished || prompt.GithubPath == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is not published"})
		return
	}

	if err := h.publisher.UpdatePublished(c.Request.Context(), prompt, *prompt.GithubPath); err != nil {
		klog.Errorf("更新已发布提示词失败: id=%s, error=%v", id, err)
		switch {
		case errors.Is(err, publish.ErrRemoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Published file not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update published prompt"})
		}
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.PromptEvent{
		Type:       eventbus.PromptRepublished,
		PromptID:   id,
		PromptName: prompt.Name,
		OccurredAt: time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Published prompt updated successfully"})
}

// Unpublish 删除远端文件，成功后清除本地发布状态
func (h *PublishHandler) Unpublish(c *gin.Context) {
	id := c.Param("id")

	prompt, err := h.service.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if !prompt.IsPublished || prompt.GithubPath == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is not published"})
		return
	}

	if err := h.publisher.Unpublish(c.Request.Context(), *prompt.GithubPath); err != nil {
		klog.Errorf("取消发布失败: id=%s, error=%v", id, err)
		switch {
		case errors.Is(err, publish.ErrRemoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Published file not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unpublish prompt"})
		}
		return
	}

	updated, err := h.service.MarkUnpublished(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.PromptEvent{
		Type:       eventbus.PromptUnpublished,
		PromptID:   id,
		PromptName: updated.Name,
		OccurredAt: time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Prompt unpublished successfully",
		"prompt":  updated,
	})
}
