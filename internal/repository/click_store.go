package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qlink-go/internal/model"
)

// ClickStore 点击日志的存储句柄。
// Append 在单个事务里完成日志追加与 click_count 自增，
// 两者永不分叉；日志只追加，不修改不删除。
type ClickStore interface {
	Append(ctx context.Context, event *model.ClickEvent) error
	EventsByLink(ctx context.Context, linkID uint) ([]model.ClickEvent, error)
	CountsByDate(ctx context.Context, linkID uint, since time.Time) (map[string]int64, error)
	UpsertDailyStat(ctx context.Context, linkID uint, date string, clicks int64) error
}

type gormClickStore struct {
	db *gorm.DB
}

func NewClickStore(db *gorm.DB) ClickStore {
	return &gormClickStore{db: db}
}

func (s *gormClickStore) Append(ctx context.Context, event *model.ClickEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Link{}).
			Where("id = ?", event.LinkID).
			UpdateColumn("click_count", gorm.Expr("click_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(event).Error
	})
}

func (s *gormClickStore) EventsByLink(ctx context.Context, linkID uint) ([]model.ClickEvent, error) {
	var events []model.ClickEvent
	if err := s.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("timestamp ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *gormClickStore) CountsByDate(ctx context.Context, linkID uint, since time.Time) (map[string]int64, error) {
	rows := []struct {
		Date   string
		Clicks int64
	}{}
	if err := s.db.WithContext(ctx).
		Model(&model.ClickEvent{}).
		Select("DATE(timestamp) AS date, COUNT(*) AS clicks").
		Where("link_id = ? AND timestamp >= ?", linkID, since).
		Group("DATE(timestamp)").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Date] = r.Clicks
	}
	return counts, nil
}

func (s *gormClickStore) UpsertDailyStat(ctx context.Context, linkID uint, date string, clicks int64) error {
	stat := model.DailyStat{
		LinkID: linkID,
		Date:   date,
		Clicks: clicks,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "link_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"clicks", "updated_at"}),
		}).
		Create(&stat).Error
}
