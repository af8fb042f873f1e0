package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	// forecastWindowDays bounds the history snapshot fed to the engine.
	forecastWindowDays = 365
	summaryWindowDays  = 30

	readTimeout = 5 * time.Second
)

type cachedForecast struct {
	today  core.Date
	result core.ForecastResult
}

type cachedSummary struct {
	today  core.Date
	result core.Summary
}

// ForecastService owns the read boundary for /predict and /summary: fetch a
// windowed snapshot, run the pure engine, memoize per user.
type ForecastService struct {
	store         store.TransactionStore
	forecastCache *cache.LRUCache[cachedForecast]
	summaryCache  *cache.LRUCache[cachedSummary]
}

var _ CacheInvalidator = (*ForecastService)(nil)

func NewForecastService(txStore store.TransactionStore, cacheSize int, cacheTTL time.Duration) *ForecastService {
	return &ForecastService{
		store:         txStore,
		forecastCache: cache.NewLRUCache[cachedForecast](cacheSize, cacheTTL),
		summaryCache:  cache.NewLRUCache[cachedSummary](cacheSize, cacheTTL),
	}
}

// Predict returns the 30-day recurrence forecast for a user as of today.
func (s *ForecastService) Predict(ctx context.Context, userID int64, today core.Date) (core.ForecastResult, error) {
	key := cacheKey(userID)
	if hit, ok := s.forecastCache.Get(key); ok && hit.today.Equal(today.Time) {
		return hit.result, nil
	}

	txs, err := s.snapshot(ctx, userID, today, forecastWindowDays)
	if err != nil {
		return core.ForecastResult{}, err
	}

	result := core.Forecast(txs, today)
	s.forecastCache.Set(key, cachedForecast{today: today, result: result})
	return result, nil
}

// Summarize returns the trailing 30-day income/spending rollup for a user.
func (s *ForecastService) Summarize(ctx context.Context, userID int64, today core.Date) (core.Summary, error) {
	key := cacheKey(userID)
	if hit, ok := s.summaryCache.Get(key); ok && hit.today.Equal(today.Time) {
		return hit.result, nil
	}

	txs, err := s.snapshot(ctx, userID, today, summaryWindowDays)
	if err != nil {
		return core.Summary{}, err
	}

	result := core.Summarize(txs)
	s.summaryCache.Set(key, cachedSummary{today: today, result: result})
	return result, nil
}

// Invalidate implements CacheInvalidator.
func (s *ForecastService) Invalidate(userID int64) {
	key := cacheKey(userID)
	s.forecastCache.Delete(key)
	s.summaryCache.Delete(key)
}

// Caches registers both caches with a cleanup manager.
func (s *ForecastService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.forecastCache, s.summaryCache}
}

func (s *ForecastService) snapshot(ctx context.Context, userID int64, today core.Date, windowDays int) ([]core.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	from := today.AddDays(-windowDays)
	txs, err := s.store.ListByUserBetween(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("load transaction window: %w", err)
	}
	return txs, nil
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
