package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCache struct{ memoryCache }

func (f *failingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func TestReportKeyIsStablePerFormat(t *testing.T) {
	payload := []byte(`{"period":{}}`)

	assert.Equal(t, ReportKey("pdf", payload), ReportKey("pdf", payload))
	assert.NotEqual(t, ReportKey("pdf", payload), ReportKey("csv", payload))
	assert.Regexp(t, `^report:csv:[0-9a-f]{64}$`, ReportKey("csv", payload))
}

func TestCacheServiceRoundTripAndInvalidate(t *testing.T) {
	repo := &memoryCache{entries: map[string][]byte{}}
	svc := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "report:csv:1", map[string]int{"grades": 2}, 0))

	var got map[string]int
	hit, err := svc.Get(ctx, "report:csv:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, got["grades"])

	require.NoError(t, svc.InvalidateReports(ctx))
	hit, err = svc.Get(ctx, "report:csv:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabledOrNil(t *testing.T) {
	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())

	disabled := NewCacheService(&memoryCache{entries: map[string][]byte{}}, nil, 0, nil, false)
	hit, err := disabled.Get(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(&failingCache{memoryCache{entries: map[string][]byte{}}}, nil, 0, nil, true)

	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.Error(t, err)
	assert.False(t, hit)
}
