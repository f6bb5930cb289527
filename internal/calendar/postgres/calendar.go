package postgres

import (
	"time"

	"github.com/frahmantamala/timechronos/internal/calendar"
	"gorm.io/gorm"
)

type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) calendar.Repository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) GetByDate(date time.Time) (*calendar.CalendarDay, error) {
	var day calendar.CalendarDay
	err := r.db.Where("date_actual = ?", date).First(&day).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

func (r *CalendarRepository) BulkInsert(days []*calendar.CalendarDay) error {
	// batched so a decade-long horizon does not build one giant statement
	return r.db.CreateInBatches(days, 500).Error
}

func (r *CalendarRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&calendar.CalendarDay{}).Count(&count).Error
	return count, err
}
