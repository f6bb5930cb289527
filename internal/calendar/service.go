package calendar

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// Repository is the read side of the dim_date table.
type Repository interface {
	GetByDate(date time.Time) (*CalendarDay, error)
	BulkInsert(days []*CalendarDay) error
	Count() (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Resolve maps a date to its ISO week bounds. Identical dates always yield
// identical bounds; dates outside the seeded horizon fail with not-found.
// A storage failure is not an out-of-range date and surfaces as internal.
func (s *Service) Resolve(date time.Time) (WeekBounds, error) {
	day, err := s.repo.GetByDate(Midnight(date))
	if err != nil {
		s.logger.Error("calendar lookup failed", "date", date.Format("2006-01-02"), "error", err)
		return WeekBounds{}, internal.NewInternalError("could not resolve the calendar week", err)
	}
	if day == nil {
		return WeekBounds{}, ErrDateOutOfRange
	}

	return WeekBounds{
		ISOWeek:   day.ISOWeek,
		ISOYear:   day.ISOYear,
		WeekStart: day.WeekStart,
		WeekEnd:   day.WeekEnd,
	}, nil
}

// SeedHorizon populates dim_date for [start, end] if the table is empty.
// Re-seeding an already populated table is a no-op.
func (s *Service) SeedHorizon(start, end time.Time) (int, error) {
	existing, err := s.repo.Count()
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger.Info("calendar already seeded", "rows", existing)
		return 0, nil
	}

	days := BuildHorizon(start, end)
	if err := s.repo.BulkInsert(days); err != nil {
		return 0, err
	}

	s.logger.Info("calendar horizon seeded",
		"from", start.Format("2006-01-02"),
		"to", end.Format("2006-01-02"),
		"rows", len(days))
	return len(days), nil
}
