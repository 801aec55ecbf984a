package model

import "time"

// ClickEvent 短链的一次访问记录，追加后不再修改
type ClickEvent struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	LinkID        uint      `gorm:"index;not null" json:"linkId"`
	Timestamp     time.Time `gorm:"index;not null" json:"timestamp"`
	UserAgent     string    `gorm:"size:512" json:"userAgent,omitempty"`
	Referrer      string    `gorm:"size:512" json:"referrer,omitempty"`
	SourceAddress string    `gorm:"size:64" json:"sourceAddress,omitempty"`
}
