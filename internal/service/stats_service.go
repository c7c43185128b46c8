package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hostel-complaint-service/internal/config"
	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

const statsCacheKey = "complaint_stats_overview"

// StatsOverview aggregates complaint totals for the admin dashboard.
type StatsOverview struct {
	Total      int                            `json:"total"`
	ByStatus   map[domain.ComplaintStatus]int `json:"by_status"`
	ByFacility map[domain.FacilityType]int    `json:"by_facility"`
}

// StatsService serves dashboard aggregates, cached in Redis to keep the
// admin view cheap on refresh. Cache failures degrade to direct reads.
type StatsService struct {
	complaints repository.ComplaintRepository
	cache      *redis.Client
	logger     *zap.Logger
}

// NewStatsService constructs the service. The cache client may be nil.
func NewStatsService(complaints repository.ComplaintRepository, cache *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{complaints: complaints, cache: cache, logger: logger}
}

// Overview returns complaint counts by status and facility.
func (s *StatsService) Overview(ctx context.Context) (*StatsOverview, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	counts, err := s.complaints.CountByStatusAndFacility(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	overview := &StatsOverview{
		ByStatus:   counts.ByStatus,
		ByFacility: counts.ByFacility,
	}
	for _, count := range counts.ByStatus {
		overview.Total += count
	}

	s.toCache(ctx, overview)
	return overview, nil
}

func (s *StatsService) fromCache(ctx context.Context) *StatsOverview {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var overview StatsOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *StatsService) toCache(ctx context.Context, overview *StatsOverview) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, config.StatsCacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
