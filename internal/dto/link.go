package dto

import (
	"time"

	"qlink-go/internal/model"
	"qlink-go/pkg/utils"
)

// CreateLinkRequest 用于创建短链的请求参数
type CreateLinkRequest struct {
	OriginalURL string     `json:"originalUrl" binding:"required,url"` // Gin 内置 URL 校验
	CustomAlias string     `json:"customAlias" binding:"omitempty,shortalias"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// Validate 自定义验证逻辑
func (r *CreateLinkRequest) Validate() error {
	// 1. 复用公共的 URL 校验逻辑（绝对 URL + 长度）
	if err := utils.ValidateOriginalURL(r.OriginalURL); err != nil {
		return err
	}

	// 2. 自定义别名可选，给了就必须合法
	if r.CustomAlias != "" {
		if err := utils.ValidateAlias(r.CustomAlias); err != nil {
			return err
		}
	}

	return nil
}

// LinkResponse 短链对外视图
type LinkResponse struct {
	ID          uint       `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	Alias       string     `json:"alias"`
	OwnerID     uint       `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	ClickCount  int64      `json:"clickCount"`
	IsExpired   bool       `json:"isExpired"`
}

// ToLinkResponse 由模型构造响应视图
func ToLinkResponse(link *model.Link, now time.Time) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		Alias:       link.Alias,
		OwnerID:     link.OwnerID,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		ClickCount:  link.ClickCount,
		IsExpired:   link.IsExpired(now),
	}
}
