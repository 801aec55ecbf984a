package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qlink-go/internal/apperrors"
	"qlink-go/internal/dto"
	"qlink-go/internal/middleware"
	"qlink-go/internal/service"
	"qlink-go/response"
)

type LinkHandler struct {
	links     *service.LinkService
	redirects *service.RedirectService
	analytics *service.AnalyticsService
}

func NewLinkHandler(links *service.LinkService, redirects *service.RedirectService, analytics *service.AnalyticsService) *LinkHandler {
	return &LinkHandler{
		links:     links,
		redirects: redirects,
		analytics: analytics,
	}
}

// CreateLinkHandler 创建短链
func (h *LinkHandler) CreateLinkHandler(c *gin.Context) {
	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authorization required"))
		return
	}

	link, err := h.links.Create(c.Request.Context(), userID, req)
	if err != nil {
		zap.L().Warn("Link creation failed",
			zap.Error(err),
			zap.String("alias", req.CustomAlias),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.OK(dto.ToLinkResponse(link, time.Now()), "link created"))
}

// ListLinksHandler 分页查询归属人的短链列表
func (h *LinkHandler) ListLinksHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authorization required"))
		return
	}

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "10")
	search := c.Query("search")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		_ = c.Error(apperrors.InvalidRequestError("page must be a positive integer"))
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		_ = c.Error(apperrors.InvalidRequestError("limit must be an integer between 1 and 100"))
		return
	}

	pageResp, err := h.links.List(c.Request.Context(), userID, page, limit, search)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(pageResp, "success"))
}

// LinkAnalyticsHandler 查询某条短链的聚合分析
func (h *LinkHandler) LinkAnalyticsHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authorization required"))
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id < 1 {
		_ = c.Error(apperrors.InvalidRequestError("invalid link id"))
		return
	}

	snapshot, err := h.analytics.Snapshot(c.Request.Context(), uint(id), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(snapshot, "success"))
}

// RedirectHandler 跳转热路径：公开、免认证
func (h *LinkHandler) RedirectHandler(c *gin.Context) {
	alias := c.Param("alias")

	meta := service.RequestMeta{
		UserAgent:     c.GetHeader("User-Agent"),
		Referrer:      c.GetHeader("Referer"),
		SourceAddress: c.ClientIP(),
	}

	link, err := h.redirects.Resolve(c.Request.Context(), alias, meta)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// 302 跳转禁止中间缓存，确保每次访问都经过计数
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, link.OriginalURL)
}

// HealthHandler 健康检查
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
