package modelcatalog

import (
	_ "embed"
	"encoding/json"
	"sync"

	"k8s.io/klog/v2"
)

//go:embed data/llm_models.json
var rawModels []byte

// Model 静态模型目录中的一条记录
type Model struct {
	Item     string  `json:"item"`
	Vendor   string  `json:"vendor"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Value    float64 `json:"value"`
}

// Option 表单下拉框使用的选项
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type catalogData struct {
	Models []Model `json:"models"`
}

// Catalog 进程生命周期内加载一次的只读模型目录
type Catalog struct {
	once   sync.Once
	models []Model
	byItem map[string]Model
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) load() {
	c.once.Do(func() {
		var data catalogData
		if err := json.Unmarshal(rawModels, &data); err != nil {
			klog.Errorf("加载静态模型目录失败: %v", err)
			return
		}
		c.models = data.Models
		c.byItem = make(map[string]Model, len(data.Models))
		for _, m := range data.Models {
			c.byItem[m.Item] = m
		}
	})
}

func (c *Catalog) Models() []Model {
	c.load()
	return c.models
}

func (c *Catalog) Options() []Option {
	c.load()
	options := make([]Option, 0, len(c.models))
	for _, m := range c.models {
		options = append(options, Option{
			Value: m.Item,
			Label: m.Item + " (" + m.Vendor + ")",
		})
	}
	return options
}

// GetByItem 按模型标识查找
func (c *Catalog) GetByItem(item string) (Model, bool) {
	c.load()
	m, ok := c.byItem[item]
	return m, ok
}
