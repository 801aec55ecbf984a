package dto

import "time"

// DateCount 某个自然日（UTC）的点击数
type DateCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// CategoryStat 单个类别的点击数及占比
type CategoryStat struct {
	Name       string `json:"name"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"` // round(100 * count / total)，总数为 0 时恒为 0
}

// Snapshot 某条短链在某一时刻的聚合分析结果。
// 由点击日志按需计算，不落库；日志不变则重复计算结果逐位一致。
type Snapshot struct {
	TotalClicks  int64          `json:"totalClicks"`
	ClicksByDate []DateCount    `json:"clicksByDate"` // 尾部窗口，缺日补零，日期升序
	ByDevice     []CategoryStat `json:"byDevice"`     // 计数降序，同数按名称升序
	ByBrowser    []CategoryStat `json:"byBrowser"`
	ByReferrer   []CategoryStat `json:"byReferrer"`
	IsExpired    bool           `json:"isExpired"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// AnalyticsResponse 分析接口的完整响应
type AnalyticsResponse struct {
	Link      LinkResponse `json:"link"`
	Analytics Snapshot     `json:"analytics"`
}
