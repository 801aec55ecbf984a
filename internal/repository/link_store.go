package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"qlink-go/internal/model"
)

// 存储层哨兵错误，由 service 层翻译成对外的业务错误
var (
	ErrDuplicateAlias = errors.New("alias already exists")
	ErrNotFound       = errors.New("record not found")
)

// LinkStore 短链注册表的存储句柄。
// Insert 依赖底层唯一索引保证原子 check-and-insert：
// 并发写入同一别名时至多一个成功，其余返回 ErrDuplicateAlias。
type LinkStore interface {
	Insert(ctx context.Context, link *model.Link) error
	FindByAlias(ctx context.Context, alias string) (*model.Link, error)
	FindByID(ctx context.Context, id uint) (*model.Link, error)
	ListByOwner(ctx context.Context, ownerID uint, page, limit int, search string) ([]model.Link, int64, error)
	All(ctx context.Context) ([]model.Link, error)
}

type gormLinkStore struct {
	db *gorm.DB
}

func NewLinkStore(db *gorm.DB) LinkStore {
	return &gormLinkStore{db: db}
}

func (s *gormLinkStore) Insert(ctx context.Context, link *model.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAlias
		}
		return err
	}
	return nil
}

func (s *gormLinkStore) FindByAlias(ctx context.Context, alias string) (*model.Link, error) {
	var link model.Link
	if err := s.db.WithContext(ctx).Where("alias = ?", alias).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (s *gormLinkStore) FindByID(ctx context.Context, id uint) (*model.Link, error) {
	var link model.Link
	if err := s.db.WithContext(ctx).First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (s *gormLinkStore) ListByOwner(ctx context.Context, ownerID uint, page, limit int, search string) ([]model.Link, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.Link{}).Where("owner_id = ?", ownerID)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(original_url) LIKE ? OR LOWER(alias) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Link{}, 0, nil
	}

	var links []model.Link
	if err := db.
		Limit(limit).
		Offset((page - 1) * limit).
		Order("created_at DESC, id DESC").
		Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

func (s *gormLinkStore) All(ctx context.Context) ([]model.Link, error) {
	var links []model.Link
	if err := s.db.WithContext(ctx).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
