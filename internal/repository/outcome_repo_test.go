package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/bernardocerejo/sentinel-criptobot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.OutcomeCounter{}, &model.SignalRecord{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM outcome_counters")
		db.Exec("DELETE FROM signal_records")
	})
	return db
}

func TestOutcomeRepositoryFirstLoadInitializesZero(t *testing.T) {
	repo := NewOutcomeRepository(newTestDB(t))
	ctx := context.Background()

	counters, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counters.Green)
	assert.Equal(t, int64(0), counters.Red)

	// The zero record is persisted, not just returned.
	counters, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counters.Green)
	assert.Equal(t, int64(0), counters.Red)
}

func TestOutcomeRepositoryRoundTrip(t *testing.T) {
	repo := NewOutcomeRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Reset(ctx))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Increment(ctx, model.OutcomeGreen))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Increment(ctx, model.OutcomeRed))
	}

	counters, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counters.Green)
	assert.Equal(t, int64(2), counters.Red)

	require.NoError(t, repo.Reset(ctx))
	counters, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counters.Green)
	assert.Equal(t, int64(0), counters.Red)
}

func TestOutcomeRepositoryConcurrentIncrements(t *testing.T) {
	repo := NewOutcomeRepository(newTestDB(t))
	ctx := context.Background()

	before, err := repo.Load(ctx)
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Increment(ctx, model.OutcomeGreen))
		}()
	}
	wg.Wait()

	after, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Green+n, after.Green)
}

func TestOutcomeRepositoryRejectsUnknownKind(t *testing.T) {
	repo := NewOutcomeRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.Increment(ctx, model.OutcomeKind("blue"))
	require.Error(t, err)

	counters, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counters.Green)
	assert.Equal(t, int64(0), counters.Red)
}
