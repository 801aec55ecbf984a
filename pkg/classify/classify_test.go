package classify

import "testing"

func TestDeviceOf(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Device
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) Mobile/15E148", DeviceMobile},
		{"android tablet", "Mozilla/5.0 (Linux; Android 12; Tablet) AppleWebKit/537.36", DeviceTablet},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", DeviceDesktop},
		{"mobile wins over tablet", "Mozilla/5.0 (Mobile; Tablet)", DeviceMobile},
		{"uppercase marker", "MOZILLA MOBILE", DeviceMobile},
		{"empty ua", "", DeviceDesktop},
		{"garbage", "curl/8.0.1", DeviceDesktop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeviceOf(tt.ua); got != tt.want {
				t.Errorf("DeviceOf(%q) = %q, want %q", tt.ua, got, tt.want)
			}
		})
	}
}

func TestBrowserOf(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Browser
	}{
		{"chrome", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0.0.0 Safari/537.36", BrowserChrome},
		{"firefox", "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0", BrowserFirefox},
		{"safari only", "Mozilla/5.0 (Macintosh) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", BrowserSafari},
		{"edge without chrome token", "Mozilla/5.0 (Windows NT 10.0) Edge/18.19041", BrowserEdge},
		// Edge 的现代 UA 带 Chrome 标记，按既定检查顺序归为 chrome
		{"edge with chrome token", "Mozilla/5.0 ... Edge/18 ... Chrome/70", BrowserChrome},
		{"empty ua", "", BrowserOther},
		{"unknown", "Wget/1.21", BrowserOther},
		{"case insensitive", "FIREFOX/99", BrowserFirefox},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BrowserOf(tt.ua); got != tt.want {
				t.Errorf("BrowserOf(%q) = %q, want %q", tt.ua, got, tt.want)
			}
		})
	}
}

func TestBrowserOfDeterministic(t *testing.T) {
	ua := "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Edg/120.0 Safari/537.36"
	first := BrowserOf(ua)
	for i := 0; i < 100; i++ {
		if got := BrowserOf(ua); got != first {
			t.Fatalf("BrowserOf not deterministic: %q then %q", first, got)
		}
	}
}

func TestReferrerHost(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		want     string
	}{
		{"https referrer", "https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"http referrer", "http://example.com/page", "example.com"},
		{"with port", "https://example.com:8443/x", "example.com"},
		{"empty", "", ReferrerDirect},
		{"no host", "not a url", ReferrerDirect},
		{"relative path", "/internal/page", ReferrerDirect},
		{"malformed", "http://%zz", ReferrerDirect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReferrerHost(tt.referrer); got != tt.want {
				t.Errorf("ReferrerHost(%q) = %q, want %q", tt.referrer, got, tt.want)
			}
		})
	}
}
