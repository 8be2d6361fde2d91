package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/dto"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/export"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/storage"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type calendarProjector interface {
	WeekCalendar(ctx context.Context, weekStart time.Time) (*dto.WeekCalendar, error)
	WeekCalendarByID(ctx context.Context, weekID string) (*dto.WeekCalendar, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders the weekly schedule grid into downloadable
// files: one row per booked slot, grouped by company.
type ExportService struct {
	calendar calendarProjector
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(calendar calendarProjector, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		calendar: calendar,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// GenerateWeekSchedule renders the schedule of one week and stores the
// file, returning a signed download URL.
func (s *ExportService) GenerateWeekSchedule(ctx context.Context, weekID string, format ExportFormat) (*ExportResult, error) {
	calendar, err := s.calendar.WeekCalendarByID(ctx, weekID)
	if err != nil {
		return nil, err
	}

	dataset := buildScheduleDataset(calendar)
	title := fmt.Sprintf("Weekly Schedule %s", calendar.Week.StartDate.Format("2006-01-02"))

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("schedule_%s_%s.%s",
		calendar.Week.StartDate.Format("20060102"),
		time.Now().UTC().Format("150405"),
		format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(calendar.Week.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	result := &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}
	s.logger.Info("week schedule exported",
		zap.String("week_id", calendar.Week.ID),
		zap.String("format", string(format)),
		zap.String("path", relPath))
	return result, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (weekID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func buildScheduleDataset(calendar *dto.WeekCalendar) export.Dataset {
	headers := []string{"Company", "Day", "Shift", "Start", "End", "Talent", "Status"}
	rows := make([]map[string]string, 0)
	for _, company := range calendar.Companies {
		for _, slot := range company.Slots {
			if len(slot.Booked) == 0 {
				rows = append(rows, map[string]string{
					"Company": company.CompanyName,
					"Day":     string(slot.DayOfWeek),
					"Shift":   string(slot.Shift),
					"Start":   slot.StartTime,
					"End":     slot.EndTime,
					"Talent":  "",
					"Status":  "OPEN",
				})
				continue
			}
			for _, booked := range slot.Booked {
				rows = append(rows, map[string]string{
					"Company": company.CompanyName,
					"Day":     string(slot.DayOfWeek),
					"Shift":   string(slot.Shift),
					"Start":   booked.StartTime,
					"End":     booked.EndTime,
					"Talent":  booked.FullName,
					"Status":  string(booked.Status),
				})
			}
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
