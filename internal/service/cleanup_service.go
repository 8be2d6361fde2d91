package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/config"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/jobs"
)

type resetRepo interface {
	LastRun(ctx context.Context) (*models.AvailabilityReset, error)
	HasRunForWeek(ctx context.Context, weekStart time.Time) (bool, error)
	RecordRun(ctx context.Context, weekStart time.Time, archive func(ctx context.Context, tx *sqlx.Tx, weekStart time.Time) (int, error)) (*models.AvailabilityReset, error)
	History(ctx context.Context, limit int) ([]models.AvailabilityReset, error)
}

type availabilityArchiver interface {
	ArchiveAllTalentSlots(ctx context.Context, tx *sqlx.Tx, weekStart time.Time) (int, error)
}

type resetLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// CleanupService runs the weekly availability reset: once the
// configured moment of the week passes, every talent availability row
// is archived and removed so the next week starts from a clean slate.
// The run is gated by a persisted record per week, with a short Redis
// lock to keep concurrent instances from racing each other to it.
type CleanupService struct {
	resets  resetRepo
	archive availabilityArchiver
	locker  resetLocker
	metrics *MetricsService
	cfg     config.CleanupConfig
	queue   *jobs.Queue
	logger  *zap.Logger
	now     func() time.Time
}

// NewCleanupService instantiates CleanupService.
func NewCleanupService(resets resetRepo, archive availabilityArchiver, locker resetLocker, metrics *MetricsService, cfg config.CleanupConfig, logger *zap.Logger) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CleanupService{
		resets:  resets,
		archive: archive,
		locker:  locker,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
	s.queue = jobs.NewQueue("availability-reset", s.handleJob, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: 30 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the scheduler loop. It returns immediately; the loop
// exits when ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("availability reset disabled")
		return
	}
	s.queue.Start(ctx)
	go s.loop(ctx)
	s.logger.Info("availability reset scheduler started",
		zap.String("weekday", s.cfg.Weekday.String()),
		zap.Int("hour", s.cfg.Hour),
		zap.Int("minute", s.cfg.Minute))
}

// Stop drains the worker queue.
func (s *CleanupService) Stop() {
	s.queue.Stop()
}

func (s *CleanupService) loop(ctx context.Context) {
	interval := s.cfg.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				s.logger.Warn("availability reset check failed", zap.Error(err))
			}
		}
	}
}

// tick enqueues a sweep when the scheduled moment for the current week
// has passed and no run is recorded for it yet.
func (s *CleanupService) tick(ctx context.Context) error {
	now := s.now()
	weekStart := models.WeekStartFor(now)
	if now.Before(s.scheduledAt(weekStart)) {
		return nil
	}

	done, err := s.resets.HasRunForWeek(ctx, weekStart)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	if s.locker != nil {
		acquired, err := s.locker.AcquireLock(ctx, fmt.Sprintf("availability-reset:%s", weekStart.Format("2006-01-02")), 10*time.Minute)
		if err != nil {
			return err
		}
		if !acquired {
			return nil
		}
	}

	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "availability-reset",
		Payload: weekStart,
	})
}

func (s *CleanupService) handleJob(ctx context.Context, job jobs.Job) error {
	weekStart, ok := job.Payload.(time.Time)
	if !ok {
		return fmt.Errorf("availability reset job %s: unexpected payload %T", job.ID, job.Payload)
	}
	_, err := s.RunNow(ctx, weekStart)
	return err
}

// RunNow performs the sweep for the week containing weekStart,
// regardless of schedule. A second call for the same week is a no-op
// returning the recorded run. Used by the worker and the admin trigger.
func (s *CleanupService) RunNow(ctx context.Context, weekStart time.Time) (*models.AvailabilityReset, error) {
	if weekStart.IsZero() {
		weekStart = s.now()
	}
	weekStart = models.WeekStartFor(weekStart)

	done, err := s.resets.HasRunForWeek(ctx, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check reset state")
	}
	if done {
		last, err := s.resets.LastRun(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reset record")
		}
		return last, nil
	}

	reset, err := s.resets.RecordRun(ctx, weekStart, s.archive.ArchiveAllTalentSlots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "availability reset failed")
	}

	if s.metrics != nil {
		s.metrics.RecordAvailabilityArchived(reset.ArchivedCount)
	}
	s.logger.Info("availability reset completed",
		zap.Time("week_start", reset.WeekStart),
		zap.Int("archived", reset.ArchivedCount))
	return reset, nil
}

// LastRun returns the most recent sweep record, nil when none exists.
func (s *CleanupService) LastRun(ctx context.Context) (*models.AvailabilityReset, error) {
	last, err := s.resets.LastRun(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reset record")
	}
	return last, nil
}

// History lists past sweep runs, newest first.
func (s *CleanupService) History(ctx context.Context, limit int) ([]models.AvailabilityReset, error) {
	history, err := s.resets.History(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reset history")
	}
	return history, nil
}

// scheduledAt is the reset moment within the week starting at weekStart.
func (s *CleanupService) scheduledAt(weekStart time.Time) time.Time {
	dayOffset := (int(s.cfg.Weekday) - int(time.Monday) + 7) % 7
	day := weekStart.AddDate(0, 0, dayOffset)
	return time.Date(day.Year(), day.Month(), day.Day(), s.cfg.Hour, s.cfg.Minute, 0, 0, day.Location())
}
