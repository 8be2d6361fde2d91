package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type weekRepository interface {
	FindOrCreate(ctx context.Context, week *models.Week) (*models.Week, error)
	FindByID(ctx context.Context, id string) (*models.Week, error)
	Current(ctx context.Context, at time.Time) (*models.Week, error)
	List(ctx context.Context, page, size int) ([]models.Week, int, error)
}

// WeekService reads the week catalogue. Weeks are created lazily by the
// allocator; this service only surfaces them.
type WeekService struct {
	repo   weekRepository
	logger *zap.Logger
}

// NewWeekService instantiates WeekService.
func NewWeekService(repo weekRepository, logger *zap.Logger) *WeekService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeekService{repo: repo, logger: logger}
}

// List returns weeks newest first.
func (s *WeekService) List(ctx context.Context, page, size int) ([]models.Week, *models.Pagination, error) {
	weeks, total, err := s.repo.List(ctx, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list weeks")
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return weeks, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one week.
func (s *WeekService) Get(ctx context.Context, id string) (*models.Week, error) {
	week, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week")
	}
	return week, nil
}

// Current returns the week containing now, creating it when absent.
func (s *WeekService) Current(ctx context.Context) (*models.Week, error) {
	week, err := s.repo.Current(ctx, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current week")
	}
	if week == nil {
		week, err = s.repo.FindOrCreate(ctx, models.NewWeek(time.Now().UTC()))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create current week")
		}
	}
	return week, nil
}
