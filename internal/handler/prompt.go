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

type PromptHandler struct {
	service   *service.PromptService
	publisher *publish.Service
	bus       *eventbus.Bus
}

func NewPromptHandler(service *service.PromptService, publisher *publish.Service, bus *eventbus.Bus) *PromptHandler {
	return &PromptHandler{
		service:   service,
		publisher: publisher,
		bus:       bus,
	}
}

// List 列出提示词，支持 q/category/model 过滤
func (h *PromptHandler) List(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")
	modelName := c.Query("model")

	if query == "" && category == "" && modelName == "" {
		prompts, err := h.service.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, prompts)
		return
	}

	prompts, err := h.service.Search(query, category, modelName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prompts)
}

func (h *PromptHandler) Create(c *gin.Context) {
	var req service.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.service.Create(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, prompt)
}

func (h *PromptHandler) Get(c *gin.Context) {
	prompt, err := h.service.Get(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *PromptHandler) Update(c *gin.Context) {
	var req service.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.service.Update(c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// Delete 删除提示词。已发布的先尽力清理远端文件并重建索引，
// 但远端不可用时不阻塞本地删除。
func (h *PromptHandler) Delete(c *gin.Context) {
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

	remoteCleaned := false
	if prompt.IsPublished && prompt.GithubPath != nil {
		if err := h.publisher.Unpublish(c.Request.Context(), *prompt.GithubPath); err != nil {
			// 本地删除不被远端失败阻塞，最多留下孤儿文件
			klog.Errorf("删除前清理远端文件失败: id=%s, path=%s, error=%v", id, *prompt.GithubPath, err)
		} else {
			remoteCleaned = true
		}
	}

	if err := h.service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if remoteCleaned {
		h.bus.Publish(c.Request.Context(), eventbus.PromptEvent{
			Type:       eventbus.PromptDeleted,
			PromptID:   id,
			PromptName: prompt.Name,
			ExcludeID:  id,
			OccurredAt: time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                 "Prompt deleted successfully",
		"unpublished_from_github": prompt.IsPublished,
	})
}

func (h *PromptHandler) Versions(c *gin.Context) {
	versions, err := h.service.ListVersions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, versions)
}

type revertRequest struct {
	VersionID string `json:"version_id" binding:"required"`
}

func (h *PromptHandler) Revert(c *gin.Context) {
	var req revertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.service.Revert(c.Param("id"), req.VersionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound), errors.Is(err, service.ErrVersionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, prompt)
}
