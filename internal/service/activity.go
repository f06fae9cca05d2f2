package service

import (
	"context"

	"signapi/internal/model"
	"signapi/internal/repository"
)

// ActivityListResult is the service-level DTO for paginated activity records.
type ActivityListResult struct {
	Items []model.ActivityRecord `json:"data"`
	Total int                    `json:"total"`
}

// ActivityService reads the append-only activity trail. Writes happen as a
// side effect of placement submission, never through this service.
type ActivityService interface {
	// List returns recent activity records, newest first.
	List(ctx context.Context, limit, offset int) (*ActivityListResult, error)
}

type activityService struct {
	repo repository.ActivityRepository
}

// NewActivityService constructs a new ActivityService.
func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) List(ctx context.Context, limit, offset int) (*ActivityListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ActivityListResult{Items: res.Items, Total: res.Total}, nil
}
