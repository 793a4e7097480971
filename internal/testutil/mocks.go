package testutil

import (
	"context"
	"sync"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockBilibili implements clients.BilibiliAPI from canned data.
type MockBilibili struct {
	Profiles  map[string]*models.BilibiliProfile
	Videos    map[string][]models.VideoItem
	Vtuber    []models.Candidate
	Popular   []models.Candidate
	Rising    []models.Candidate
	Err       error
	VideosErr error
}

func (m *MockBilibili) Profile(_ context.Context, uid string) (*models.BilibiliProfile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Profiles[uid]; ok {
		return p, nil
	}
	return &models.BilibiliProfile{UID: uid}, nil
}

func (m *MockBilibili) RecentVideos(_ context.Context, uid string, limit int) ([]models.VideoItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.VideosErr != nil {
		return nil, m.VideosErr
	}
	videos := m.Videos[uid]
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

func (m *MockBilibili) VtuberRank(_ context.Context, _ int) ([]models.Candidate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vtuber, nil
}

func (m *MockBilibili) PopularRank(_ context.Context, _ int) ([]models.Candidate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Popular, nil
}

func (m *MockBilibili) RisingRank(_ context.Context, _ int) ([]models.Candidate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rising, nil
}

// MockYoutube implements clients.YoutubeAPI from canned data.
type MockYoutube struct {
	Channels     map[string]*models.YoutubeChannel
	Videos       map[string][]models.VideoItem
	SearchResult string
	Err          error
}

func (m *MockYoutube) Channel(_ context.Context, id string) (*models.YoutubeChannel, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if c, ok := m.Channels[id]; ok {
		return c, nil
	}
	return &models.YoutubeChannel{ID: id}, nil
}

func (m *MockYoutube) RecentVideos(_ context.Context, id string, limit int) ([]models.VideoItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	videos := m.Videos[id]
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

func (m *MockYoutube) SearchChannel(_ context.Context, _ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.SearchResult, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// observations.
type MockMetrics struct {
	mu            sync.Mutex
	Verifications map[int]int
	Confidences   []float64
	Scanned       int
	StoreWrites   map[string]int
	StoreReads    map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObserveSweepDuration(_ time.Duration)             {}

func (m *MockMetrics) IncStoreWrites(store string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreWrites == nil {
		m.StoreWrites = make(map[string]int)
	}
	m.StoreWrites[store]++
}

func (m *MockMetrics) IncStoreReads(store string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreReads == nil {
		m.StoreReads = make(map[string]int)
	}
	m.StoreReads[store]++
}

func (m *MockMetrics) IncVerifications(level int, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Verifications == nil {
		m.Verifications = make(map[int]int)
	}
	m.Verifications[level]++
}

func (m *MockMetrics) ObserveConfidence(confidence float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Confidences = append(m.Confidences, confidence)
}

func (m *MockMetrics) IncScannedCandidates(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scanned += count
}

// MockCache implements providers.CacheProviderInterface over a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = make(map[string][]byte)
	}
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}
