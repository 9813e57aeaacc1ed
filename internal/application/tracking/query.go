package tracking

import (
	"context"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/domain"
)

const (
	SortCreatedAtDesc = "createdAt_desc"
	SortCreatedAtAsc  = "createdAt_asc"

	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Query carries the raw read-path parameters. UserID nil means no filter;
// a non-nil blank value is rejected.
type Query struct {
	UserID   *string
	Type     *domain.EventType
	From     *time.Time
	To       *time.Time
	Sort     string
	Page     int
	PageSize int
}

type QueryResult struct {
	Items      []*domain.Event
	TotalCount int
	Page       int
	PageSize   int
}

func (q Query) validate() error {
	if q.Page < 1 {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"page": "must be >= 1",
		})
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"pageSize": "must be between 1 and 200",
		})
	}
	if !strings.EqualFold(q.Sort, SortCreatedAtDesc) && !strings.EqualFold(q.Sort, SortCreatedAtAsc) {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"sort": "must be createdAt_desc or createdAt_asc",
		})
	}
	if q.UserID != nil && strings.TrimSpace(*q.UserID) == "" {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"userId": "cannot be blank when provided",
		})
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"from": "must be <= to",
		})
	}
	return nil
}

// Get validates the query and delegates to the repository. Items preserve
// repository order; TotalCount reflects the filter set before pagination.
func (s *Service) Get(ctx context.Context, q Query) (QueryResult, error) {
	if err := q.validate(); err != nil {
		return QueryResult{}, err
	}

	f := Filter{
		Type:       q.Type,
		From:       q.From,
		To:         q.To,
		Descending: !strings.EqualFold(q.Sort, SortCreatedAtAsc),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	if q.UserID != nil {
		f.UserID = strings.TrimSpace(*q.UserID)
	}

	cacheKey := ""
	if f.Page == 1 && s.cache != nil {
		cacheKey = cacheKeyList(f)
		var cached QueryResult
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", cacheKey).Msg("cache get failed")
		} else if found {
			zlog.Debug().Str("key", cacheKey).Msg("cache hit")
			return cached, nil
		}
	}

	items, total, err := s.reader.Query(ctx, f)
	if err != nil {
		return QueryResult{}, err
	}

	res := QueryResult{
		Items:      items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}

	if cacheKey != "" && len(res.Items) > 0 {
		if err := s.cache.Set(ctx, cacheKey, res, cacheTTL); err != nil {
			zlog.Warn().Err(err).Str("key", cacheKey).Msg("cache set failed")
		}
	}

	return res, nil
}
