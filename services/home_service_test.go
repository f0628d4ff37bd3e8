package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/lib/pq"
	"github.com/sahilchouksey/edupool/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// closedDB returns a GORM handle whose every query fails
func closedDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, err := sql.Open("postgres", "host=127.0.0.1 sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func newStatsCache(t *testing.T) (*miniredis.Miniredis, *cache.RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { redisCache.Close() })
	return mr, redisCache
}

func TestStats_FailedCountsAreNotCached(t *testing.T) {
	mr, redisCache := newStatsCache(t)
	svc := NewHomeService(closedDB(t), redisCache)

	stats := svc.Stats(context.Background())

	assert.Equal(t, CatalogStats{}, stats)
	assert.False(t, mr.Exists(statsCacheKey))
}

func TestStats_ServedFromCache(t *testing.T) {
	mr, redisCache := newStatsCache(t)
	require.NoError(t, mr.Set(statsCacheKey, `{"universities":3,"colleges":6,"courses":4}`))
	svc := NewHomeService(closedDB(t), redisCache)

	assert.Equal(t, CatalogStats{Universities: 3, Colleges: 6, Courses: 4}, svc.Stats(context.Background()))

	svc.Invalidate(context.Background())
	assert.False(t, mr.Exists(statsCacheKey))
}

func TestHome_DegradesToEmpty(t *testing.T) {
	svc := NewHomeService(closedDB(t), nil)

	home := svc.Home(context.Background())

	assert.Empty(t, home.Universities)
	assert.Empty(t, home.Colleges)
	assert.Empty(t, home.Courses)
	assert.Equal(t, CatalogStats{}, home.Stats)
}
