package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/internal/engine"
	"github.com/segyhp/rent-billing/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const rateScheduleCacheKey = "penalty:schedule"

type cachedRates struct {
	History []domain.PenaltyInterestHistory `json:"history"`
	Master  *domain.PenaltyInterestMaster   `json:"master"`
}

// RateStore loads the penalty rate schedule, caching the raw rows in Redis.
// A nil redis client disables caching.
type RateStore struct {
	repo   repository.PenaltyRateRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRateStore(repo repository.PenaltyRateRepository, redis *redis.Client, ttl time.Duration, logger *zap.Logger) *RateStore {
	return &RateStore{repo: repo, redis: redis, ttl: ttl, logger: logger}
}

// Schedule returns the merged rate schedule.
func (s *RateStore) Schedule(ctx context.Context) (engine.RateSchedule, error) {
	rates, err := s.load(ctx)
	if err != nil {
		return engine.RateSchedule{}, err
	}
	schedule, err := engine.NewRateSchedule(rates.History, rates.Master)
	if err != nil {
		s.logger.Error("penalty rate history is inconsistent",
			zap.String("op", "service.RateStore.Schedule"), zap.Error(err))
		return engine.RateSchedule{}, err
	}
	return schedule, nil
}

// Master returns the stored master row, nil when no rate was ever set.
func (s *RateStore) Master(ctx context.Context) (*domain.PenaltyInterestMaster, error) {
	rates, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return rates.Master, nil
}

func (s *RateStore) History(ctx context.Context) ([]domain.PenaltyInterestHistory, error) {
	rates, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return rates.History, nil
}

// Commit records a rate change and drops the cached schedule.
func (s *RateStore) Commit(ctx context.Context, rate decimal.Decimal, effectiveFrom time.Time) (*domain.PenaltyInterestHistory, error) {
	entry, err := s.repo.CommitRateChange(ctx, rate, effectiveFrom)
	if err != nil {
		return nil, err
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, rateScheduleCacheKey).Err(); err != nil {
			s.logger.Warn("dropping cached rate schedule",
				zap.String("op", "service.RateStore.Commit"), zap.Error(err))
		}
	}
	return entry, nil
}

func (s *RateStore) load(ctx context.Context) (*cachedRates, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	master, err := s.repo.GetCurrentRate(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.GetHistory(ctx)
	if err != nil {
		return nil, err
	}
	rates := &cachedRates{History: history, Master: master}

	s.toCache(ctx, rates)
	return rates, nil
}

func (s *RateStore) fromCache(ctx context.Context) *cachedRates {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, rateScheduleCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("reading cached rate schedule",
				zap.String("op", "service.RateStore.load"), zap.Error(err))
		}
		return nil
	}
	var rates cachedRates
	if err := json.Unmarshal(raw, &rates); err != nil {
		s.logger.Warn("decoding cached rate schedule",
			zap.String("op", "service.RateStore.load"), zap.Error(err))
		return nil
	}
	return &rates
}

func (s *RateStore) toCache(ctx context.Context, rates *cachedRates) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, rateScheduleCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("caching rate schedule",
			zap.String("op", "service.RateStore.load"), zap.Error(err))
	}
}
