package service

import (
	"context"

	"visaforge-be/internal/pkg/logger"
	"visaforge-be/pkg/webref"
)

// GroundingCounterKey prefixes the per-UTC-day fetch counter.
const GroundingCounterKey = "grounding:calls"

// ReferenceCache holds successful fetches for a short time.
type ReferenceCache interface {
	Get(url string) (webref.Reference, bool)
	Set(url string, ref webref.Reference)
}

// DailyCounter counts calls per UTC day; counts reset at UTC midnight.
type DailyCounter interface {
	Increment(ctx context.Context, key string) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
}

type ReferenceFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*webref.Reference, error)
}

type GroundingResult struct {
	References []webref.Reference
	// Capped is set when the daily fetch budget ran out before every source was read.
	Capped bool
}

type IGroundingService interface {
	// Ground fetches official pages relevant to question. It never fails; an
	// empty result means the answer is produced without grounding.
	Ground(ctx context.Context, question string) *GroundingResult
}

type groundingService struct {
	fetcher  ReferenceFetcher
	cache    ReferenceCache
	counter  DailyCounter
	dailyCap int64
	logger   logger.ILogger
}

func NewGroundingService(fetcher ReferenceFetcher, cache ReferenceCache, counter DailyCounter, dailyCap int, log logger.ILogger) IGroundingService {
	return &groundingService{
		fetcher:  fetcher,
		cache:    cache,
		counter:  counter,
		dailyCap: int64(dailyCap),
		logger:   log,
	}
}

func (s *groundingService) Ground(ctx context.Context, question string) *GroundingResult {
	res := &GroundingResult{}
	for _, src := range webref.SourcesFor(question) {
		if ref, ok := s.cache.Get(src.URL); ok {
			res.References = append(res.References, ref)
			continue
		}
		if res.Capped {
			continue
		}

		n, err := s.counter.Increment(ctx, GroundingCounterKey)
		if err != nil {
			s.logger.Warn(moduleGrounding, "Daily counter unavailable, fetching anyway", map[string]interface{}{
				"error": err.Error(),
			})
		} else if n > s.dailyCap {
			res.Capped = true
			s.logger.Info(moduleGrounding, "Daily fetch cap reached", map[string]interface{}{
				"cap": s.dailyCap,
			})
			continue
		}

		ref, err := s.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			s.logger.Warn(moduleGrounding, "Reference fetch failed", map[string]interface{}{
				"url":   src.URL,
				"topic": src.Topic,
				"error": err.Error(),
			})
			continue
		}
		s.cache.Set(src.URL, *ref)
		res.References = append(res.References, *ref)
	}
	return res
}
