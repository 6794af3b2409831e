package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptvault/backend/internal/service"
	"github.com/promptvault/backend/internal/service/modelcatalog"
)

// MetaHandler 提供筛选项、分类、统计与静态模型目录
type MetaHandler struct {
	service *service.PromptService
	catalog *modelcatalog.Catalog
}

func NewMetaHandler(service *service.PromptService, catalog *modelcatalog.Catalog) *MetaHandler {
	return &MetaHandler{service: service, catalog: catalog}
}

func (h *MetaHandler) FilterOptions(c *gin.Context) {
	options, err := h.service.GetFilterOptions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *MetaHandler) Categories(c *gin.Context) {
	categories, err := h.service.GetCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MetaHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Models 返回表单可选的模型下拉项
func (h *MetaHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Options())
}

// ModelCatalog 返回完整的静态模型目录
func (h *MetaHandler) ModelCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Models())
}
