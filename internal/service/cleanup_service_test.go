package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/config"
)

type resetRepoStub struct {
	runs []models.AvailabilityReset
}

func (r *resetRepoStub) LastRun(ctx context.Context) (*models.AvailabilityReset, error) {
	if len(r.runs) == 0 {
		return nil, nil
	}
	last := r.runs[len(r.runs)-1]
	return &last, nil
}

func (r *resetRepoStub) HasRunForWeek(ctx context.Context, weekStart time.Time) (bool, error) {
	for _, run := range r.runs {
		if run.WeekStart.Equal(weekStart) {
			return true, nil
		}
	}
	return false, nil
}

func (r *resetRepoStub) RecordRun(ctx context.Context, weekStart time.Time, archive func(ctx context.Context, tx *sqlx.Tx, weekStart time.Time) (int, error)) (*models.AvailabilityReset, error) {
	archived, err := archive(ctx, nil, weekStart)
	if err != nil {
		return nil, err
	}
	reset := models.AvailabilityReset{
		ID:            "reset-1",
		WeekStart:     weekStart,
		ArchivedCount: archived,
		RanAt:         time.Now().UTC(),
	}
	r.runs = append(r.runs, reset)
	return &reset, nil
}

func (r *resetRepoStub) History(ctx context.Context, limit int) ([]models.AvailabilityReset, error) {
	if limit > len(r.runs) {
		limit = len(r.runs)
	}
	history := make([]models.AvailabilityReset, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(history) < limit; i-- {
		history = append(history, r.runs[i])
	}
	return history, nil
}

type archiverStub struct {
	archived int
	calls    int
}

func (a *archiverStub) ArchiveAllTalentSlots(ctx context.Context, tx *sqlx.Tx, weekStart time.Time) (int, error) {
	a.calls++
	return a.archived, nil
}

type lockerStub struct {
	granted bool
	calls   int
}

func (l *lockerStub) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.calls++
	return l.granted, nil
}

func newCleanupFixture(resets *resetRepoStub, archiver *archiverStub, locker *lockerStub, cfg config.CleanupConfig) *CleanupService {
	return NewCleanupService(resets, archiver, locker, nil, cfg, nil)
}

func TestRunNowArchivesAndRecords(t *testing.T) {
	resets := &resetRepoStub{}
	archiver := &archiverStub{archived: 5}
	svc := newCleanupFixture(resets, archiver, &lockerStub{granted: true}, config.CleanupConfig{})

	reset, err := svc.RunNow(context.Background(), time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 5, reset.ArchivedCount)
	assert.Equal(t, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC), reset.WeekStart)
	assert.Equal(t, 1, archiver.calls)
}

func TestRunNowIsIdempotentPerWeek(t *testing.T) {
	resets := &resetRepoStub{}
	archiver := &archiverStub{archived: 3}
	svc := newCleanupFixture(resets, archiver, &lockerStub{granted: true}, config.CleanupConfig{})

	midWeek := time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC)
	first, err := svc.RunNow(context.Background(), midWeek)
	require.NoError(t, err)

	second, err := svc.RunNow(context.Background(), midWeek.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, archiver.calls)
	assert.Equal(t, first.WeekStart, second.WeekStart)
}

func TestTickSkipsBeforeScheduledMoment(t *testing.T) {
	resets := &resetRepoStub{}
	archiver := &archiverStub{}
	locker := &lockerStub{granted: true}
	svc := newCleanupFixture(resets, archiver, locker, config.CleanupConfig{
		Enabled: true,
		Weekday: time.Friday,
		Hour:    23,
		Minute:  59,
	})
	// Wednesday, well before Friday 23:59.
	svc.now = func() time.Time { return time.Date(2026, time.August, 26, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.tick(context.Background()))
	assert.Equal(t, 0, locker.calls)
	assert.Empty(t, resets.runs)
}

func TestTickSkipsWhenLockHeldElsewhere(t *testing.T) {
	resets := &resetRepoStub{}
	locker := &lockerStub{granted: false}
	svc := newCleanupFixture(resets, &archiverStub{}, locker, config.CleanupConfig{
		Enabled: true,
		Weekday: time.Friday,
		Hour:    12,
	})
	// Saturday, past the scheduled moment.
	svc.now = func() time.Time { return time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.tick(context.Background()))
	assert.Equal(t, 1, locker.calls)
	assert.Empty(t, resets.runs)
}

func TestTickSkipsWhenAlreadyRecorded(t *testing.T) {
	weekStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	resets := &resetRepoStub{runs: []models.AvailabilityReset{{ID: "reset-0", WeekStart: weekStart}}}
	locker := &lockerStub{granted: true}
	svc := newCleanupFixture(resets, &archiverStub{}, locker, config.CleanupConfig{
		Enabled: true,
		Weekday: time.Friday,
		Hour:    12,
	})
	svc.now = func() time.Time { return time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.tick(context.Background()))
	assert.Equal(t, 0, locker.calls)
}

func TestScheduledAt(t *testing.T) {
	svc := newCleanupFixture(&resetRepoStub{}, &archiverStub{}, &lockerStub{}, config.CleanupConfig{
		Weekday: time.Friday,
		Hour:    23,
		Minute:  59,
	})

	weekStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 28, 23, 59, 0, 0, time.UTC), svc.scheduledAt(weekStart))
}

func TestHistoryNewestFirst(t *testing.T) {
	resets := &resetRepoStub{}
	svc := newCleanupFixture(resets, &archiverStub{archived: 1}, &lockerStub{granted: true}, config.CleanupConfig{})

	_, err := svc.RunNow(context.Background(), time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = svc.RunNow(context.Background(), time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].WeekStart.After(history[1].WeekStart))
}
