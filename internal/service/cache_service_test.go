package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type mockCacheRepo struct {
	entries map[string][]byte

	getErr    error
	setErr    error
	deleteErr error

	lastSetKey  string
	lastSetTTL  time.Duration
	lastPattern string
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{entries: make(map[string][]byte)}
}

func (m *mockCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepo) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.lastSetKey = key
	m.lastSetTTL = ttl
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.lastPattern = pattern
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for key := range m.entries {
		delete(m.entries, key)
	}
	return nil
}

func TestCacheServiceDisabledPaths(t *testing.T) {
	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())

	assert.False(t, NewCacheService(nil, nil, 0, nil, true).Enabled())
	assert.False(t, NewCacheService(newMockCacheRepo(), nil, 0, nil, false).Enabled())
	assert.True(t, NewCacheService(newMockCacheRepo(), nil, 0, nil, true).Enabled())
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMockCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	svc.Set(context.Background(), "courses:2025-1", []string{"CS101", "CS102"}, 0)
	assert.Equal(t, time.Minute, repo.lastSetTTL)

	var out []string
	require.True(t, svc.Get(context.Background(), "courses:2025-1", &out))
	assert.Equal(t, []string{"CS101", "CS102"}, out)
}

func TestCacheServiceMissReturnsFalse(t *testing.T) {
	svc := NewCacheService(newMockCacheRepo(), nil, 0, nil, true)

	var out []string
	assert.False(t, svc.Get(context.Background(), "missing", &out))
}

func TestCacheServiceTreatsBackendErrorAsMiss(t *testing.T) {
	repo := newMockCacheRepo()
	repo.getErr = errors.New("connection refused")
	svc := NewCacheService(repo, nil, 0, nil, true)

	var out []string
	assert.False(t, svc.Get(context.Background(), "courses:2025-1", &out))
}

func TestCacheServiceSetHonoursExplicitTTL(t *testing.T) {
	repo := newMockCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	svc.Set(context.Background(), "books:q=go", "payload", 30*time.Second)
	assert.Equal(t, 30*time.Second, repo.lastSetTTL)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := newMockCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, true)

	svc.Set(context.Background(), "resp:/api/courses", "payload", 0)
	svc.Invalidate(context.Background(), "resp:*")

	assert.Equal(t, "resp:*", repo.lastPattern)
	assert.Empty(t, repo.entries)
}

func TestCacheServiceRecordsHitRatio(t *testing.T) {
	repo := newMockCacheRepo()
	metrics := NewMetricsService("file")
	svc := NewCacheService(repo, metrics, 0, nil, true)

	svc.Set(context.Background(), "key", "value", 0)
	var out string
	require.True(t, svc.Get(context.Background(), "key", &out))
	assert.False(t, svc.Get(context.Background(), "other", &out))
	assert.False(t, svc.Get(context.Background(), "another", &out))

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(2), snap.CacheMisses)
	assert.InDelta(t, 1.0/3.0, snap.CacheHitRatio, 0.0001)
}
