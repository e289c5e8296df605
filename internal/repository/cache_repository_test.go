package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-compliance-report/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "report:csv:abc", &dest), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Set(ctx, "report:csv:abc", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "report:*"))
	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Close())
}
