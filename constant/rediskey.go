package constant

import "fmt"

// 常量定义
const (
	BasePrefix = "qlink:"
	Separator  = ":"
)

// Redis 键模板
const (
	AliasCache = BasePrefix + "alias" + Separator + "%s" // qlink:alias:<alias>
)

// 缓存 TTL（秒）
const (
	AliasCacheTTL = 3600 // 正向缓存 1 小时
	MissCacheTTL  = 300  // 空值缓存 5 分钟，防止缓存穿透
)

// GetAliasCacheKey 生成别名缓存 key
func GetAliasCacheKey(alias string) string {
	return fmt.Sprintf(AliasCache, alias)
}
