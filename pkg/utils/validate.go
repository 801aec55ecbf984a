package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode"
)

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAlias 校验别名是否合法
func ValidateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("error.alias_required")
	}

	if ContainsWhitespace(alias) {
		return fmt.Errorf("error.alias_cannot_contain_spaces")
	}

	if len(alias) > 32 {
		return fmt.Errorf("error.alias_max_length")
	}

	if !aliasPattern.MatchString(alias) {
		return fmt.Errorf("error.alias_invalid")
	}

	return nil
}

// ValidateOriginalURL 校验目标 URL 是否为合法的绝对 URL
func ValidateOriginalURL(originalURL string) error {
	// 1. 检查目标 URL 是否为空
	if originalURL == "" {
		return fmt.Errorf("error.original_url_required")
	}

	// 2. 必须是带 http/https scheme 和 host 的绝对 URL
	u, err := url.Parse(originalURL)
	if err != nil {
		return fmt.Errorf("error.original_url_invalid")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("error.original_url_invalid")
	}

	// 3. URL 长度限制
	if len(originalURL) > 2048 {
		return fmt.Errorf("error.original_url_max_length")
	}
	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
