package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformdash/internal/dashboard"
	"uniformdash/internal/filter"
	"uniformdash/internal/model"
)

// LiveRequest 实时刷新请求
type LiveRequest struct {
	Selections map[string][]string `json:"selections"`
}

// LiveResponse 实时刷新响应：applied=false 表示本次结果已被更新的选择取代
type LiveResponse struct {
	Session string          `json:"session"`
	Applied bool            `json:"applied"`
	View    *dashboard.View `json:"view"`
}

// OptionsResponse 页签筛选项
type OptionsResponse struct {
	Tab     dashboard.Tab                `json:"tab"`
	Status  string                       `json:"status"`
	Options map[model.Dimension][]string `json:"options"`
}

// ListTabs 页签及其筛选维度
// GET /api/tabs
func (h *Handler) ListTabs(c *gin.Context) {
	type tabInfo struct {
		Tab        dashboard.Tab     `json:"tab"`
		Kind       model.RecordKind  `json:"kind"`
		Dimensions []model.Dimension `json:"dimensions"`
	}
	items := make([]tabInfo, 0, len(dashboard.Tabs))
	for _, t := range dashboard.Tabs {
		dims := t.Dimensions()
		if dims == nil {
			dims = []model.Dimension{}
		}
		items = append(items, tabInfo{Tab: t, Kind: t.Kind(), Dimensions: dims})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTab 计算页签视图
// GET /api/tabs/:tab?department=..&location=..
func (h *Handler) GetTab(c *gin.Context) {
	tab, ok := dashboard.ParseTab(c.Param("tab"))
	if !ok {
		badRequest(c, fmt.Sprintf("unknown tab: %s", c.Param("tab")))
		return
	}
	sel := filter.ParseSelections(c.Request.URL.Query())

	v, err := h.engine.View(c.Request.Context(), tab, sel)
	if !h.writeView(c, tab, v, err) {
		return
	}
	c.JSON(http.StatusOK, v)
}

// LiveRefresh 会话内刷新页签；过期的结果不会覆盖最新选择
// POST /api/live/:tab
func (h *Handler) LiveRefresh(c *gin.Context) {
	tab, ok := dashboard.ParseTab(c.Param("tab"))
	if !ok {
		badRequest(c, fmt.Sprintf("unknown tab: %s", c.Param("tab")))
		return
	}
	var req LiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	sel, err := parseSelections(req.Selections)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	id, s := h.session(c)
	v, applied, err := s.Refresh(c.Request.Context(), tab, sel)
	if !h.writeView(c, tab, v, err) {
		return
	}
	c.Header(SessionHeader, id)
	c.JSON(http.StatusOK, LiveResponse{Session: id, Applied: applied, View: v})
}

// GetOptions 页签各维度的下拉选项
// GET /api/options/:tab
func (h *Handler) GetOptions(c *gin.Context) {
	tab, ok := dashboard.ParseTab(c.Param("tab"))
	if !ok {
		badRequest(c, fmt.Sprintf("unknown tab: %s", c.Param("tab")))
		return
	}

	catalog := h.catalog()
	resp := OptionsResponse{Tab: tab, Status: dashboard.StatusOK, Options: map[model.Dimension][]string{}}

	var observed []model.Record
	loaded := false
	for _, d := range tab.Dimensions() {
		if catalog.Domain(d) != nil {
			resp.Options[d] = filter.StaticOptions(catalog, d)
			continue
		}
		if !loaded {
			loaded = true
			records, err := h.engine.Snapshot(c.Request.Context(), tab.Kind(), nil)
			if err != nil {
				resp.Status = dashboard.StatusSourceUnavailable
				if errors.Is(err, model.ErrMalformedRecord) {
					resp.Status = dashboard.StatusMalformed
				}
			}
			observed = records
		}
		resp.Options[d] = append([]string{filter.SentinelAll}, filter.ObservedOptions(observed, d)...)
	}
	c.JSON(http.StatusOK, resp)
}

// writeView 处理视图错误；返回 false 表示响应已写出
func (h *Handler) writeView(c *gin.Context, tab dashboard.Tab, v *dashboard.View, err error) bool {
	if err == nil {
		return true
	}
	if v == nil {
		if errors.Is(err, dashboard.ErrUnknownTab) {
			badRequest(c, err.Error())
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	// 数据源失败时仍返回零值视图，状态字段说明原因
	h.logger.Warn("tab degraded", zap.String("tab", string(tab)), zap.String("status", v.Status), zap.Error(err))
	return true
}

// parseSelections JSON 选择转为 Selections；未知维度视为非法输入
func parseSelections(raw map[string][]string) (filter.Selections, error) {
	out := filter.Selections{}
	for name, values := range raw {
		d := model.Dimension(name)
		if !slices.Contains(model.AllDimensions, d) {
			return nil, fmt.Errorf("unknown dimension: %s", name)
		}
		if sel := filter.Multi(values...); sel != nil {
			out[d] = sel
		}
	}
	return out, nil
}
