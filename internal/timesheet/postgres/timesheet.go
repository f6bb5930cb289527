package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal/timesheet"
)

type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) timesheet.Repository {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) GetByID(id int64) (*timesheet.Timesheet, error) {
	var ts timesheet.Timesheet
	err := r.db.Where("id = ?", id).First(&ts).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

func (r *TimesheetRepository) GetActiveByWeek(userID int64, weekStart time.Time) (*timesheet.Timesheet, error) {
	var ts timesheet.Timesheet
	err := r.db.Where("start_date = ? AND user_id = ? AND is_archived = ?", weekStart, userID, false).First(&ts).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

// Create relies on the partial unique index over (user_id, start_date) to
// close the race two concurrent creates for the same week would open.
func (r *TimesheetRepository) Create(ts *timesheet.Timesheet) error {
	now := time.Now()
	ts.CreatedAt = now
	ts.UpdatedAt = now
	if err := r.db.Create(ts).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return timesheet.ErrDuplicateTimesheet
		}
		return err
	}
	return nil
}

func (r *TimesheetRepository) Update(ts *timesheet.Timesheet) error {
	ts.UpdatedAt = time.Now()
	return r.db.Save(ts).Error
}

func (r *TimesheetRepository) ListForOwner(userID int64) ([]timesheet.Timesheet, error) {
	var sheets []timesheet.Timesheet
	err := r.db.Where("user_id = ? AND is_archived = ?", userID, false).Order("start_date DESC").Find(&sheets).Error
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *TimesheetRepository) ListForApprover(approverID int64, status string) ([]timesheet.ListEntry, error) {
	q := r.db.
		Table("timesheets").
		Select(`timesheets.id, timesheets.name, timesheets.approval,
			timesheets.start_date, timesheets.end_date,
			users.id AS employee_id,
			TRIM(users.first_name || ' ' || users.last_name) AS employee_name`).
		Joins("JOIN users ON users.id = timesheets.user_id").
		Where("users.approver_id = ? AND timesheets.is_archived = ?", approverID, false)
	if status != "" {
		q = q.Where("timesheets.approval = ?", status)
	}

	var entries []timesheet.ListEntry
	if err := q.Order("timesheets.start_date DESC").Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// TransitionState is a single conditional update: the row must still be in
// one of the expected states for any rows to be affected, so concurrent
// transitions cannot both win.
func (r *TimesheetRepository) TransitionState(id int64, from []string, to string, feedback *string) (bool, error) {
	updates := map[string]interface{}{
		"approval":   to,
		"updated_at": time.Now(),
	}
	if feedback != nil {
		updates["feedback"] = *feedback
	}

	res := r.db.Model(&timesheet.Timesheet{}).
		Where("id = ? AND approval IN ? AND is_archived = ?", id, from, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TimesheetRepository) TaskInCompany(companyID, taskID int64) (bool, error) {
	var count int64
	err := r.db.Table("tasks").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("tasks.id = ? AND clients.company_id = ? AND tasks.is_archived = ?", taskID, companyID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertHours writes the batch atomically: one row per (task, timesheet),
// updated in place when it already exists.
func (r *TimesheetRepository) UpsertHours(timesheetID int64, entries []timesheet.TaskHours) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for i := range entries {
			entry := &entries[i]

			var existing timesheet.TaskHours
			err := tx.Where("task_id = ? AND timesheet_id = ?", entry.TaskID, timesheetID).First(&existing).Error
			switch {
			case err == gorm.ErrRecordNotFound:
				entry.TimesheetID = timesheetID
				entry.CreatedAt = now
				entry.UpdatedAt = now
				if cerr := tx.Create(entry).Error; cerr != nil {
					return cerr
				}
			case err != nil:
				return err
			default:
				existing.SetValues(entry.Values())
				existing.IsActive = true
				existing.UpdatedAt = now
				if uerr := tx.Save(&existing).Error; uerr != nil {
					return uerr
				}
				entry.ID = existing.ID
			}
		}
		return nil
	})
}

func (r *TimesheetRepository) GetHoursByID(id int64) (*timesheet.TaskHours, error) {
	var th timesheet.TaskHours
	err := r.db.Where("id = ?", id).First(&th).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &th, nil
}

// DeleteHours deactivates the row rather than removing it; a later upsert
// for the same (task, timesheet) pair revives it.
func (r *TimesheetRepository) DeleteHours(id int64) error {
	return r.db.Model(&timesheet.TaskHours{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}

func (r *TimesheetRepository) ListHours(timesheetID int64) ([]timesheet.HoursEntry, error) {
	var entries []timesheet.HoursEntry
	err := r.db.
		Table("task_hours").
		Select(`task_hours.id, task_hours.mon, task_hours.tue, task_hours.wed,
			task_hours.thu, task_hours.fri, task_hours.sat, task_hours.sun,
			task_hours.is_active,
			tasks.id AS task_id, tasks.name AS task_name,
			projects.id AS project_id, projects.name AS project_name,
			clients.id AS client_id,
			TRIM(clients.first_name || ' ' || clients.last_name) AS client_name,
			timesheets.id AS timesheet_id, timesheets.name AS timesheet_name`).
		Joins("JOIN tasks ON tasks.id = task_hours.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Joins("JOIN timesheets ON timesheets.id = task_hours.timesheet_id").
		Where("task_hours.timesheet_id = ? AND task_hours.is_active = ?", timesheetID, true).
		Order("task_hours.id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
