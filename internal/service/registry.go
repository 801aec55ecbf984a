package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"qlink-go/constant"
	"qlink-go/internal/apperrors"
	"qlink-go/internal/dto"
	"qlink-go/internal/model"
	"qlink-go/internal/repository"
	"qlink-go/response"
)

const (
	aliasLength      = 6
	aliasGenAttempts = 5
	aliasCharset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// LinkService 别名注册表：负责短链的创建、解析与列表查询。
// 别名唯一性由存储层的原子 check-and-insert 保证。
type LinkService struct {
	links repository.LinkStore
	cache *redis.Pool // 可为 nil，缓存纯粹是热路径优化
	log   *zap.Logger
}

func NewLinkService(links repository.LinkStore, cache *redis.Pool, log *zap.Logger) *LinkService {
	return &LinkService{
		links: links,
		cache: cache,
		log:   log,
	}
}

// Create 创建短链。自定义别名冲突返回 AliasConflict；
// 自动生成的别名冲突则换一个重试，重试耗尽才报错。
func (s *LinkService) Create(ctx context.Context, ownerID uint, req dto.CreateLinkRequest) (*model.Link, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.InvalidURLError(err.Error())
	}

	// 过期时间不限制在未来：过期是跳转时才生效的软状态，
	// 建一条已过期的链接是合法的，只是立刻进入 410 状态。
	link := &model.Link{
		OriginalURL: req.OriginalURL,
		OwnerID:     ownerID,
		ExpiresAt:   req.ExpiresAt,
	}

	if req.CustomAlias != "" {
		link.Alias = req.CustomAlias
		if err := s.links.Insert(ctx, link); err != nil {
			if errors.Is(err, repository.ErrDuplicateAlias) {
				return nil, apperrors.AliasConflictError()
			}
			s.log.Error("Failed to insert link", zap.String("alias", req.CustomAlias), zap.Error(err))
			return nil, apperrors.SystemErrorDefault()
		}
	} else {
		inserted := false
		for attempt := 0; attempt < aliasGenAttempts; attempt++ {
			link.Alias = generateAlias(aliasLength)
			err := s.links.Insert(ctx, link)
			if err == nil {
				inserted = true
				break
			}
			if !errors.Is(err, repository.ErrDuplicateAlias) {
				s.log.Error("Failed to insert link", zap.String("alias", link.Alias), zap.Error(err))
				return nil, apperrors.SystemErrorDefault()
			}
			// 62^6 的空间下撞库概率几乎为零，重试仅是兜底
		}
		if !inserted {
			s.log.Error("Alias generation exhausted retries", zap.Int("attempts", aliasGenAttempts))
			return nil, apperrors.SystemErrorDefault()
		}
	}

	s.cacheLink(link)
	return link, nil
}

// Resolve 按别名查找短链：先查缓存（含空值缓存），未命中再查库。
// 过期判定不在这里做，Resolve 只回答"这个别名注册过没有"。
func (s *LinkService) Resolve(ctx context.Context, alias string) (*model.Link, error) {
	if cached, hit := s.cachedLink(alias); hit {
		if cached == nil {
			return nil, apperrors.NotFoundError()
		}
		return cached, nil
	}

	link, err := s.links.FindByAlias(ctx, alias)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// 缓存空值，防止缓存穿透
			s.cacheMiss(alias)
			return nil, apperrors.NotFoundError()
		}
		s.log.Error("Failed to query link by alias", zap.String("alias", alias), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	s.cacheLink(link)
	return link, nil
}

// FindOwned 按 ID 查找短链并校验归属
func (s *LinkService) FindOwned(ctx context.Context, id, callerID uint) (*model.Link, error) {
	link, err := s.links.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundError()
		}
		s.log.Error("Failed to query link by id", zap.Uint("id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}
	if link.OwnerID != callerID {
		return nil, apperrors.ForbiddenError()
	}
	return link, nil
}

// List 分页查询归属人的短链列表，search 对原始 URL 和别名做大小写不敏感的子串匹配
func (s *LinkService) List(ctx context.Context, ownerID uint, page, limit int, search string) (*response.PageResponse[dto.LinkResponse], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10 // 默认每页10条，最大100条
	}

	links, total, err := s.links.ListByOwner(ctx, ownerID, page, limit, search)
	if err != nil {
		s.log.Error("Failed to list links", zap.Uint("owner_id", ownerID), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	now := time.Now()
	list := make([]dto.LinkResponse, 0, len(links))
	for i := range links {
		list = append(list, dto.ToLinkResponse(&links[i], now))
	}

	totalPages := (int(total) + limit - 1) / limit

	return &response.PageResponse[dto.LinkResponse]{
		Page:       page,
		Limit:      limit,
		Total:      int(total),
		TotalPages: totalPages,
		List:       list,
	}, nil
}

func generateAlias(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = aliasCharset[rand.Intn(len(aliasCharset))]
	}
	return string(b)
}

// --- 缓存辅助：全部尽力而为，失败只记日志 ---

func (s *LinkService) cacheLink(link *model.Link) {
	if s.cache == nil {
		return
	}
	conn := s.cache.Get()
	defer s.closeConn(conn)

	data, err := json.Marshal(link)
	if err != nil {
		return
	}
	key := constant.GetAliasCacheKey(link.Alias)
	if _, err := conn.Do("SET", key, data, "EX", constant.AliasCacheTTL); err != nil {
		s.log.Warn("Failed to cache link", zap.String("cache_key", key), zap.Error(err))
	}
}

func (s *LinkService) cacheMiss(alias string) {
	if s.cache == nil {
		return
	}
	conn := s.cache.Get()
	defer s.closeConn(conn)

	key := constant.GetAliasCacheKey(alias)
	if _, err := conn.Do("SET", key, "", "EX", constant.MissCacheTTL); err != nil {
		s.log.Warn("Failed to cache miss marker", zap.String("cache_key", key), zap.Error(err))
	}
}

// cachedLink 返回 (link, hit)：hit 为 true 且 link 为 nil 表示命中空值缓存
func (s *LinkService) cachedLink(alias string) (*model.Link, bool) {
	if s.cache == nil {
		return nil, false
	}
	conn := s.cache.Get()
	defer s.closeConn(conn)

	key := constant.GetAliasCacheKey(alias)
	data, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if err != redis.ErrNil {
			s.log.Warn("Error getting from Redis", zap.String("cache_key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, true
	}

	var link model.Link
	if err := json.Unmarshal(data, &link); err != nil {
		s.log.Warn("Failed to unmarshal cached link", zap.String("cache_key", key), zap.Error(err))
		return nil, false
	}
	return &link, true
}

func (s *LinkService) closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		s.log.Error("Failed to close Redis connection", zap.Error(err))
	}
}
