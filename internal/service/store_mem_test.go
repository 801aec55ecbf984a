package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"qlink-go/internal/model"
	"qlink-go/internal/repository"
)

// memStore 同时实现 LinkStore 和 ClickStore，
// 用互斥锁模拟存储层的原子 check-and-insert / append 语义
type memStore struct {
	mu        sync.Mutex
	seq       uint
	eventSeq  uint
	links     map[uint]*model.Link
	aliases   map[string]uint
	events    map[uint][]model.ClickEvent
	daily     map[string]int64
	appendErr error // 注入 Append 失败
}

func newMemStore() *memStore {
	return &memStore{
		links:   make(map[uint]*model.Link),
		aliases: make(map[string]uint),
		events:  make(map[uint][]model.ClickEvent),
		daily:   make(map[string]int64),
	}
}

var _ repository.LinkStore = (*memStore)(nil)
var _ repository.ClickStore = (*memStore)(nil)

func (s *memStore) Insert(ctx context.Context, link *model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.aliases[link.Alias]; taken {
		return repository.ErrDuplicateAlias
	}
	s.seq++
	link.ID = s.seq
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	cp := *link
	s.links[link.ID] = &cp
	s.aliases[link.Alias] = link.ID
	return nil
}

func (s *memStore) FindByAlias(ctx context.Context, alias string) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.aliases[alias]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.links[id]
	return &cp, nil
}

func (s *memStore) FindByID(ctx context.Context, id uint) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (s *memStore) ListByOwner(ctx context.Context, ownerID uint, page, limit int, search string) ([]model.Link, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Link, 0)
	needle := strings.ToLower(search)
	for _, link := range s.links {
		if link.OwnerID != ownerID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(link.OriginalURL), needle) &&
			!strings.Contains(strings.ToLower(link.Alias), needle) {
			continue
		}
		matched = append(matched, *link)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []model.Link{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *memStore) All(ctx context.Context) ([]model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]model.Link, 0, len(s.links))
	for _, link := range s.links {
		links = append(links, *link)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

func (s *memStore) Append(ctx context.Context, event *model.ClickEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendErr != nil {
		return s.appendErr
	}
	link, ok := s.links[event.LinkID]
	if !ok {
		return repository.ErrNotFound
	}
	s.eventSeq++
	event.ID = s.eventSeq
	s.events[event.LinkID] = append(s.events[event.LinkID], *event)
	link.ClickCount++
	return nil
}

func (s *memStore) EventsByLink(ctx context.Context, linkID uint) ([]model.ClickEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]model.ClickEvent, len(s.events[linkID]))
	copy(events, s.events[linkID])
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (s *memStore) CountsByDate(ctx context.Context, linkID uint, since time.Time) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64)
	for _, event := range s.events[linkID] {
		if event.Timestamp.Before(since) {
			continue
		}
		counts[event.Timestamp.UTC().Format("2006-01-02")]++
	}
	return counts, nil
}

func (s *memStore) UpsertDailyStat(ctx context.Context, linkID uint, date string, clicks int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.daily[fmt.Sprintf("%d:%s", linkID, date)] = clicks
	return nil
}

func (s *memStore) clickCount(linkID uint) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if link, ok := s.links[linkID]; ok {
		return link.ClickCount
	}
	return 0
}

func (s *memStore) eventCount(linkID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[linkID])
}
