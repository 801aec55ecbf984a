package model

import "time"

type Link struct {
	BaseModel
	Alias       string     `gorm:"uniqueIndex;size:32;not null" json:"alias"`
	OriginalURL string     `gorm:"size:2048;not null" json:"originalUrl"`
	OwnerID     uint       `gorm:"index;not null" json:"ownerId"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	// ClickCount 与点击日志长度始终一致，仅由 ClickRecorder 原子递增
	ClickCount int64 `gorm:"default:0" json:"clickCount"`
}

// IsExpired 判断链接在 now 时刻是否已过期（严格晚于 ExpiresAt）
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
