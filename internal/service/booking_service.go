package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type bookingRepository interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
}

// BookingService reads and cancels existing bookings. Creation goes
// through the allocator only.
type BookingService struct {
	repo   bookingRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewBookingService instantiates BookingService.
func NewBookingService(repo bookingRepository, cache *CacheService, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, cache: cache, logger: logger}
}

// List returns bookings matching the filter with pagination metadata.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, *models.Pagination, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return bookings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one booking.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

// Cancel removes a booking, freeing the company slot capacity.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete booking")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("calendar:%s:*", booking.WeekID)); err != nil {
			s.logger.Warn("calendar cache invalidation failed", zap.String("week_id", booking.WeekID), zap.Error(err))
		}
	}
	s.logger.Info("booking cancelled",
		zap.String("booking_id", id),
		zap.String("talent_id", booking.TalentID),
		zap.String("company_id", booking.CompanyID))
	return nil
}
