package model

type DailyStat struct {
	BaseModel
	LinkID uint   `gorm:"uniqueIndex:idx_link_date"`
	Date   string `gorm:"type:date;uniqueIndex:idx_link_date"` // YYYY-MM-DD
	Clicks int64  `gorm:"default:0"`
}
