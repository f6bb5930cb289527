package calendar_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/calendar"
)

func TestCalendar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Calendar Suite")
}

// Mock repository for testing
type mockCalendarRepository struct {
	days        map[string]*calendar.CalendarDay
	count       int64
	insertError error
	lookupError error
}

func newMockCalendarRepository() *mockCalendarRepository {
	return &mockCalendarRepository{days: make(map[string]*calendar.CalendarDay)}
}

func (m *mockCalendarRepository) GetByDate(date time.Time) (*calendar.CalendarDay, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	day, exists := m.days[date.Format("2006-01-02")]
	if !exists {
		return nil, nil
	}
	return day, nil
}

func (m *mockCalendarRepository) BulkInsert(days []*calendar.CalendarDay) error {
	if m.insertError != nil {
		return m.insertError
	}
	for _, d := range days {
		m.days[d.DateActual.Format("2006-01-02")] = d
	}
	m.count += int64(len(days))
	return nil
}

func (m *mockCalendarRepository) Count() (int64, error) {
	return m.count, nil
}

var _ = Describe("BuildHorizon", func() {
	It("should compute ISO week bounds for a midweek date", func() {
		days := calendar.BuildHorizon(
			time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		)

		Expect(days).To(HaveLen(1))
		day := days[0]
		Expect(day.ISOWeek).To(Equal(11))
		Expect(day.ISOYear).To(Equal(2024))
		Expect(day.DayOfWeek).To(Equal(4)) // Thursday
		Expect(day.WeekStart).To(Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
		Expect(day.WeekEnd).To(Equal(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)))
	})

	It("should keep a Monday as its own week start", func() {
		days := calendar.BuildHorizon(
			time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		)

		Expect(days[0].DayOfWeek).To(Equal(1))
		Expect(days[0].WeekStart).To(Equal(days[0].DateActual))
	})

	It("should map a Sunday to the Monday six days earlier", func() {
		days := calendar.BuildHorizon(
			time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		)

		Expect(days[0].DayOfWeek).To(Equal(7))
		Expect(days[0].WeekStart).To(Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
		Expect(days[0].WeekEnd).To(Equal(days[0].DateActual))
	})

	It("should assign early January days to week 1 of the ISO year holding the first Thursday", func() {
		// 2021-01-01 is a Friday and belongs to ISO week 53 of 2020.
		days := calendar.BuildHorizon(
			time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		)

		Expect(days[0].ISOWeek).To(Equal(53))
		Expect(days[0].ISOYear).To(Equal(2020))
	})

	It("should produce one row per day across the range", func() {
		days := calendar.BuildHorizon(
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		Expect(days).To(HaveLen(366)) // 2024 is a leap year
	})
})

var _ = Describe("WeekBounds", func() {
	It("should derive the canonical timesheet name", func() {
		bounds := calendar.WeekBounds{ISOWeek: 11, ISOYear: 2024}
		Expect(bounds.TimesheetName()).To(Equal("Week 11, 2024 Timesheet"))
	})
})

var _ = Describe("CalendarService", func() {
	var (
		service  *calendar.Service
		mockRepo *mockCalendarRepository
	)

	BeforeEach(func() {
		mockRepo = newMockCalendarRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = calendar.NewService(mockRepo, logger)
	})

	Describe("Resolve", func() {
		BeforeEach(func() {
			_, err := service.SeedHorizon(
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should resolve any timestamp inside a seeded day", func() {
			bounds, err := service.Resolve(time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC))

			Expect(err).ToNot(HaveOccurred())
			Expect(bounds.ISOWeek).To(Equal(11))
			Expect(bounds.ISOYear).To(Equal(2024))
			Expect(bounds.WeekStart).To(Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
		})

		It("should resolve every date of a week to identical bounds", func() {
			first, err := service.Resolve(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
			Expect(err).ToNot(HaveOccurred())

			last, err := service.Resolve(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC))
			Expect(err).ToNot(HaveOccurred())

			Expect(first).To(Equal(last))
		})

		It("should fail for dates outside the seeded horizon", func() {
			_, err := service.Resolve(time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(err).To(Equal(calendar.ErrDateOutOfRange))
		})

		It("should not mistake a storage failure for an out-of-range date", func() {
			mockRepo.lookupError = errors.New("connection reset")

			_, err := service.Resolve(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))

			Expect(err).ToNot(Equal(calendar.ErrDateOutOfRange))
			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("SeedHorizon", func() {
		It("should report the number of inserted days", func() {
			inserted, err := service.SeedHorizon(
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			)

			Expect(err).ToNot(HaveOccurred())
			Expect(inserted).To(Equal(31))
		})

		It("should be a no-op when the table already holds rows", func() {
			_, err := service.SeedHorizon(
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			)
			Expect(err).ToNot(HaveOccurred())

			inserted, err := service.SeedHorizon(
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			Expect(err).ToNot(HaveOccurred())
			Expect(inserted).To(Equal(0))
		})
	})
})
