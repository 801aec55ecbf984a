package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"qlink-go/internal/apperrors"
	"qlink-go/internal/model"
)

// RequestMeta 跳转请求携带的访客元数据
type RequestMeta struct {
	UserAgent     string
	Referrer      string
	SourceAddress string
}

type aliasResolver interface {
	Resolve(ctx context.Context, alias string) (*model.Link, error)
}

type clickEnqueuer interface {
	Enqueue(event model.ClickEvent) bool
}

// RedirectService 跳转编排：LOOKUP → EXPIRY_CHECK → RECORD → RESPOND。
// NotFound / Expired 直接终止；RECORD 是非阻塞投递，失败不影响跳转。
type RedirectService struct {
	registry aliasResolver
	recorder clickEnqueuer
	log      *zap.Logger
	now      func() time.Time
}

func NewRedirectService(registry aliasResolver, recorder clickEnqueuer, log *zap.Logger) *RedirectService {
	return &RedirectService{
		registry: registry,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Resolve 处理一次跳转请求，成功时返回跳转目标所属的短链。
// 过期链接不记录点击。
func (s *RedirectService) Resolve(ctx context.Context, alias string, meta RequestMeta) (*model.Link, error) {
	link, err := s.registry.Resolve(ctx, alias)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if link.IsExpired(now) {
		return nil, apperrors.ExpiredError()
	}

	s.recorder.Enqueue(model.ClickEvent{
		LinkID:        link.ID,
		Timestamp:     now,
		UserAgent:     meta.UserAgent,
		Referrer:      meta.Referrer,
		SourceAddress: meta.SourceAddress,
	})

	return link, nil
}
