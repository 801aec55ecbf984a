// Package classify 将原始请求元数据归类为可聚合的统计维度。
// 所有函数均为纯函数：相同输入必定产生相同输出，无任何副作用。
package classify

import (
	"net/url"
	"strings"
)

// Device 设备类别
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceDesktop Device = "desktop"
)

// Browser 浏览器类别
type Browser string

const (
	BrowserChrome  Browser = "chrome"
	BrowserFirefox Browser = "firefox"
	BrowserSafari  Browser = "safari"
	BrowserEdge    Browser = "edge"
	BrowserOther   Browser = "other"
)

// ReferrerDirect 无来源或来源不可解析时的归类
const ReferrerDirect = "direct"

// DeviceOf 根据 User-Agent 归类设备，大小写不敏感的子串匹配。
// 检查顺序固定为 mobile → tablet → desktop：
// 同时包含 mobile 和 tablet 标记时 mobile 优先。
// 空 UA 归为 desktop。
func DeviceOf(userAgent string) Device {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"):
		return DeviceMobile
	case strings.Contains(ua, "tablet"):
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// BrowserOf 根据 User-Agent 归类浏览器，大小写不敏感的子串匹配。
// 检查顺序固定为 chrome → firefox → safari → edge，首个命中即返回。
// 注意：Edge 的 UA 含 "Chrome" 标记，会被归为 chrome —— 该顺序是
// 既定契约的一部分，不要调整。空 UA 或无命中归为 other。
func BrowserOf(userAgent string) Browser {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "chrome"):
		return BrowserChrome
	case strings.Contains(ua, "firefox"):
		return BrowserFirefox
	case strings.Contains(ua, "safari"):
		return BrowserSafari
	case strings.Contains(ua, "edge"):
		return BrowserEdge
	default:
		return BrowserOther
	}
}

// ReferrerHost 提取来源 URL 的主机名；为空或解析失败时归为 direct
func ReferrerHost(referrer string) string {
	if referrer == "" {
		return ReferrerDirect
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return ReferrerDirect
	}
	return u.Hostname()
}
