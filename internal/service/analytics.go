package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"qlink-go/internal/apperrors"
	"qlink-go/internal/dto"
	"qlink-go/internal/model"
	"qlink-go/internal/repository"
	"qlink-go/pkg/classify"
)

// DefaultWindowDays 时间序列聚合的默认尾部窗口
const DefaultWindowDays = 30

// AnalyticsService 分析聚合引擎：按需把某条短链的点击日志
// 汇总成时间序列和分类分布。只读日志，不做任何修改。
type AnalyticsService struct {
	links      *LinkService
	clicks     repository.ClickStore
	windowDays int
	log        *zap.Logger
}

func NewAnalyticsService(links *LinkService, clicks repository.ClickStore, windowDays int, log *zap.Logger) *AnalyticsService {
	if windowDays < 1 {
		windowDays = DefaultWindowDays
	}
	return &AnalyticsService{
		links:      links,
		clicks:     clicks,
		windowDays: windowDays,
		log:        log,
	}
}

// Snapshot 计算某条短链的聚合分析，先校验调用方是否为归属人。
// 单次有序查询读出日志（与并发追加互不阻塞），聚合本身是纯计算，
// 调用方取消 ctx 即中止。
func (s *AnalyticsService) Snapshot(ctx context.Context, linkID, callerID uint) (*dto.AnalyticsResponse, error) {
	link, err := s.links.FindOwned(ctx, linkID, callerID)
	if err != nil {
		return nil, err
	}

	events, err := s.clicks.EventsByLink(ctx, linkID)
	if err != nil {
		s.log.Error("Failed to load click events", zap.Uint("link_id", linkID), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	now := time.Now()
	return &dto.AnalyticsResponse{
		Link:      dto.ToLinkResponse(link, now),
		Analytics: BuildSnapshot(link, events, now, s.windowDays),
	}, nil
}

// BuildSnapshot 把点击日志聚合成快照。纯函数：
// 日志不变则结果逐位一致，可安全地重复或并发调用。
func BuildSnapshot(link *model.Link, events []model.ClickEvent, now time.Time, windowDays int) dto.Snapshot {
	total := int64(len(events))

	byDate := make(map[string]int64)
	devices := make(map[string]int64)
	browsers := make(map[string]int64)
	referrers := make(map[string]int64)

	for _, event := range events {
		// 日期桶固定取 UTC 的日期分量
		date := event.Timestamp.UTC().Format("2006-01-02")
		byDate[date]++

		devices[string(classify.DeviceOf(event.UserAgent))]++
		browsers[string(classify.BrowserOf(event.UserAgent))]++
		referrers[classify.ReferrerHost(event.Referrer)]++
	}

	return dto.Snapshot{
		TotalClicks:  total,
		ClicksByDate: fillDateWindow(byDate, now, windowDays),
		ByDevice:     toCategoryStats(devices, total),
		ByBrowser:    toCategoryStats(browsers, total),
		ByReferrer:   toCategoryStats(referrers, total),
		IsExpired:    link.IsExpired(now),
		GeneratedAt:  now,
	}
}

// fillDateWindow 生成以 now（UTC）为终点、长度 windowDays 的日期序列，
// 窗口内每一天都出现，没有点击的补零，日期升序。
func fillDateWindow(byDate map[string]int64, now time.Time, windowDays int) []dto.DateCount {
	end := now.UTC().Truncate(24 * time.Hour)
	series := make([]dto.DateCount, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		date := end.AddDate(0, 0, -i).Format("2006-01-02")
		series = append(series, dto.DateCount{
			Date:  date,
			Count: byDate[date],
		})
	}
	return series
}

// toCategoryStats 把类别计数变为带占比的有序列表：
// 计数降序，同数按名称升序，保证展示顺序可复现。
// 总数为 0 时占比恒为 0，避免除零。
func toCategoryStats(counts map[string]int64, total int64) []dto.CategoryStat {
	stats := make([]dto.CategoryStat, 0, len(counts))
	for name, count := range counts {
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(100 * float64(count) / float64(total)))
		}
		stats = append(stats, dto.CategoryStat{
			Name:       name,
			Count:      count,
			Percentage: percentage,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// RollupDailyStats 把各短链的点击量按天物化到 daily_stats 表，
// 供仪表盘走快路径。由 cron 定时触发，不影响按需聚合的口径。
func (s *AnalyticsService) RollupDailyStats(ctx context.Context) error {
	s.log.Info("RollupDailyStats start")
	links, err := s.links.links.All(ctx)
	if err != nil {
		s.log.Error("Failed to load links for rollup", zap.Error(err))
		return err
	}

	since := time.Now().UTC().AddDate(0, 0, -(s.windowDays - 1)).Truncate(24 * time.Hour)
	for i := range links {
		counts, err := s.clicks.CountsByDate(ctx, links[i].ID, since)
		if err != nil {
			s.log.Error("Failed to count clicks by date",
				zap.Uint("link_id", links[i].ID),
				zap.Error(err))
			continue
		}
		for date, clicks := range counts {
			if err := s.clicks.UpsertDailyStat(ctx, links[i].ID, date, clicks); err != nil {
				s.log.Error("Failed to upsert daily stat",
					zap.Uint("link_id", links[i].ID),
					zap.String("date", date),
					zap.Int64("clicks", clicks),
					zap.Error(err))
			}
		}
	}

	s.log.Info("RollupDailyStats end")
	return nil
}
