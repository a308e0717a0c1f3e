package services_test

import (
	"context"
	"errors"
	"path"
	"sync"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
)

func testCatalog() []*entities.Product {
	return []*entities.Product{
		{ID: "p1", Name: "Jollof Rice Kit", Description: "Everything for party jollof rice", Category: "food", Price: 25, Rating: 4.8, InStock: true},
		{ID: "p2", Name: "Kente Cloth Scarf", Description: "Handwoven Ghanaian kente fabric", Category: "fashion", Price: 60, Rating: 4.2, InStock: true},
		{ID: "p3", Name: "Suya Pepper", Description: "Smoky suya spice blend", Category: "spices", Price: 8, Rating: 4.6},
		{ID: "p4", Name: "Injera Flour", Description: "Teff flour for injera bread", Category: "groceries", Price: 15, InStock: true},
		{ID: "p5", Name: "Shea Butter", Description: "Raw unrefined shea", Price: 12, Rating: 3.9, InStock: true},
	}
}

func staticCatalog(products []*entities.Product) providers.CatalogProvider {
	return providers.CatalogProviderFunc(func(ctx context.Context) ([]*entities.Product, error) {
		return products, nil
	})
}

func failingCatalog(err error) providers.CatalogProvider {
	return providers.CatalogProviderFunc(func(ctx context.Context) ([]*entities.Product, error) {
		return nil, err
	})
}

func ids(products []*entities.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// MockCacheProvider for testing
type MockCacheProvider struct {
	mu       sync.RWMutex
	data     map[string][]byte
	patterns []string
	err      error
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.patterns = append(m.patterns, pattern)
	for key := range m.data {
		// keys in these tests contain no '/'
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *MockCacheProvider) Patterns() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.patterns...)
}

// MockEventBus delivers published events to a single subscriber channel
type MockEventBus struct {
	mu      sync.Mutex
	ch      chan *entities.CatalogEvent
	subErr  error
	closed  bool
	channel string
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{ch: make(chan *entities.CatalogEvent, 10)}
}

func (b *MockEventBus) Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("bus closed")
	}
	b.ch <- event
	return nil
}

func (b *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subErr != nil {
		return nil, b.subErr
	}
	b.channel = channel
	return b.ch, nil
}

func (b *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return nil
}

func (b *MockEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}

// MockSearchAnalyticsRepository records logged events
type MockSearchAnalyticsRepository struct {
	mu        sync.Mutex
	events    []*entities.SearchEvent
	logged    chan struct{}
	lastLimit int
}

func NewMockSearchAnalyticsRepository() *MockSearchAnalyticsRepository {
	return &MockSearchAnalyticsRepository{logged: make(chan struct{}, 10)}
}

func (r *MockSearchAnalyticsRepository) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.logged <- struct{}{}
	return nil
}

func (r *MockSearchAnalyticsRepository) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	var out []*entities.SearchEvent
	for _, e := range r.events {
		if e.ResultCount == 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MockSearchAnalyticsRepository) Events() []*entities.SearchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entities.SearchEvent(nil), r.events...)
}

// MockSearchTracker captures tracked analytics
type MockSearchTracker struct {
	mu       sync.Mutex
	tracked  []*entities.SearchAnalytics
	sessions []string
}

func (m *MockSearchTracker) TrackSearch(ctx context.Context, analytics *entities.SearchAnalytics, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = append(m.tracked, analytics)
	m.sessions = append(m.sessions, sessionID)
}

// stubEngine returns a canned response and can block until released
type stubEngine struct {
	mu      sync.Mutex
	resp    *entities.SearchResponse
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (e *stubEngine) Search(ctx context.Context, query, userID string, filters *entities.ProductFilters) (*entities.SearchResponse, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.started != nil {
		e.started <- struct{}{}
	}
	if e.release != nil {
		<-e.release
	}
	if e.err != nil {
		return nil, e.err
	}
	resp := *e.resp
	resp.Analytics = &entities.SearchAnalytics{Query: query, ResultCount: len(resp.Results), UserID: userID}
	return &resp, nil
}

func (e *stubEngine) TrendingSearches() []string {
	return []string{"jollof rice"}
}

func (e *stubEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
