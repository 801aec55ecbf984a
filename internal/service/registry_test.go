package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"qlink-go/internal/apperrors"
	"qlink-go/internal/dto"
	"qlink-go/pkg/utils"
)

func newTestLinkService(store *memStore) *LinkService {
	return NewLinkService(store, nil, zap.NewNop())
}

func TestCreateAndResolve(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)
	ctx := context.Background()

	link, err := svc.Create(ctx, 1, dto.CreateLinkRequest{
		OriginalURL: "https://example.com/some/long/path",
		CustomAlias: "my-link",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if link.Alias != "my-link" {
		t.Errorf("alias = %q, want %q", link.Alias, "my-link")
	}

	resolved, err := svc.Resolve(ctx, "my-link")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.OriginalURL != "https://example.com/some/long/path" {
		t.Errorf("originalUrl = %q", resolved.OriginalURL)
	}
}

func TestCreateAliasConflict(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)
	ctx := context.Background()

	req := dto.CreateLinkRequest{OriginalURL: "https://example.com", CustomAlias: "taken"}
	if _, err := svc.Create(ctx, 1, req); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := svc.Create(ctx, 2, req)
	if !apperrors.HasCode(err, http.StatusConflict) {
		t.Errorf("second Create error = %v, want 409 conflict", err)
	}
}

func TestConcurrentCreateSameAlias(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), uint(i+1), dto.CreateLinkRequest{
				OriginalURL: "https://example.com",
				CustomAlias: "contested",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !apperrors.HasCode(err, http.StatusConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
}

func TestCreateGeneratesAlias(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)

	link, err := svc.Create(context.Background(), 1, dto.CreateLinkRequest{
		OriginalURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(link.Alias) != aliasLength {
		t.Errorf("alias length = %d, want %d", len(link.Alias), aliasLength)
	}
	if err := utils.ValidateAlias(link.Alias); err != nil {
		t.Errorf("generated alias %q is invalid: %v", link.Alias, err)
	}
}

func TestCreateInvalidURL(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)

	for _, raw := range []string{"", "not a url", "example.com/path", "ftp://example.com"} {
		_, err := svc.Create(context.Background(), 1, dto.CreateLinkRequest{OriginalURL: raw})
		if !apperrors.HasCode(err, http.StatusBadRequest) {
			t.Errorf("Create(%q) error = %v, want 400", raw, err)
		}
	}
}

// 过期是软状态：带着过去的 expiresAt 创建也成功，链接生而过期
func TestCreateWithPastExpiresAt(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)

	yesterday := time.Now().AddDate(0, 0, -1)
	link, err := svc.Create(context.Background(), 1, dto.CreateLinkRequest{
		OriginalURL: "https://example.com",
		CustomAlias: "stale",
		ExpiresAt:   &yesterday,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !link.IsExpired(time.Now()) {
		t.Error("link.IsExpired = false, want true")
	}

	// 注册表照常解析，过期判定留给跳转层
	got, err := svc.Resolve(context.Background(), "stale")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != link.ID {
		t.Errorf("Resolve returned link %d, want %d", got.ID, link.ID)
	}
}

func TestResolveNotFound(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)

	_, err := svc.Resolve(context.Background(), "missing")
	if !apperrors.HasCode(err, http.StatusNotFound) {
		t.Errorf("error = %v, want 404", err)
	}
}

func TestFindOwned(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)
	ctx := context.Background()

	link, err := svc.Create(ctx, 7, dto.CreateLinkRequest{OriginalURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.FindOwned(ctx, link.ID, 7); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.FindOwned(ctx, link.ID, 8); !apperrors.HasCode(err, http.StatusForbidden) {
		t.Errorf("non-owner error = %v, want 403", err)
	}
	if _, err := svc.FindOwned(ctx, 999, 7); !apperrors.HasCode(err, http.StatusNotFound) {
		t.Errorf("missing link error = %v, want 404", err)
	}
}

func TestListSearchAndPagination(t *testing.T) {
	store := newMemStore()
	svc := newTestLinkService(store)
	ctx := context.Background()

	seed := []struct {
		url   string
		alias string
	}{
		{"https://example.com/golang-tutorial", "go-tut"},
		{"https://example.com/python-tutorial", "py-tut"},
		{"https://example.com/news", "daily-news"},
		{"https://other.org/golang-weekly", "gow"},
	}
	for _, s := range seed {
		if _, err := svc.Create(ctx, 1, dto.CreateLinkRequest{OriginalURL: s.url, CustomAlias: s.alias}); err != nil {
			t.Fatalf("seed Create(%q) failed: %v", s.alias, err)
		}
	}
	// 别的归属人的链接不应出现在结果里
	if _, err := svc.Create(ctx, 2, dto.CreateLinkRequest{OriginalURL: "https://example.com/golang-other-owner", CustomAlias: "other-go"}); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	// search 命中 alias 子串
	page, err := svc.List(ctx, 1, 1, 10, "tut")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}
	for _, item := range page.List {
		if item.Alias != "go-tut" && item.Alias != "py-tut" {
			t.Errorf("unexpected item %q in search result", item.Alias)
		}
	}

	// search 大小写不敏感，命中 URL 子串
	page, err = svc.List(ctx, 1, 1, 10, "GOLANG")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2 (go-tut and gow)", page.Total)
	}

	// 分页
	page, err = svc.List(ctx, 1, 1, 2, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 4 || len(page.List) != 2 || page.TotalPages != 2 {
		t.Errorf("page 1: total=%d len=%d totalPages=%d, want 4/2/2", page.Total, len(page.List), page.TotalPages)
	}
	page2, err := svc.List(ctx, 1, 2, 2, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page2.List) != 2 {
		t.Errorf("page 2 len = %d, want 2", len(page2.List))
	}
	if page.List[0].ID == page2.List[0].ID {
		t.Error("pages overlap")
	}
}
