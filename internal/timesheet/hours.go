package timesheet

import (
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// TaskHours stores one week of hours for one task on one timesheet, one
// column per day so sqlite and postgres share the same shape.
type TaskHours struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	TimesheetID int64     `json:"timesheet_id" gorm:"column:timesheet_id;not null;index"`
	TaskID      int64     `json:"task_id" gorm:"column:task_id;not null;index"`
	Mon         int       `json:"mon" gorm:"column:mon;default:0"`
	Tue         int       `json:"tue" gorm:"column:tue;default:0"`
	Wed         int       `json:"wed" gorm:"column:wed;default:0"`
	Thu         int       `json:"thu" gorm:"column:thu;default:0"`
	Fri         int       `json:"fri" gorm:"column:fri;default:0"`
	Sat         int       `json:"sat" gorm:"column:sat;default:0"`
	Sun         int       `json:"sun" gorm:"column:sun;default:0"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (TaskHours) TableName() string {
	return "task_hours"
}

func (th *TaskHours) Values() []int {
	return []int{th.Mon, th.Tue, th.Wed, th.Thu, th.Fri, th.Sat, th.Sun}
}

func (th *TaskHours) SetValues(values []int) {
	th.Mon, th.Tue, th.Wed = values[0], values[1], values[2]
	th.Thu, th.Fri, th.Sat = values[3], values[4], values[5]
	th.Sun = values[6]
}

// HoursEntry is a task-hours row joined up the ownership chain for display.
type HoursEntry struct {
	ID            int64  `json:"id"`
	Mon           int    `json:"mon"`
	Tue           int    `json:"tue"`
	Wed           int    `json:"wed"`
	Thu           int    `json:"thu"`
	Fri           int    `json:"fri"`
	Sat           int    `json:"sat"`
	Sun           int    `json:"sun"`
	TaskID        int64  `json:"task_id"`
	TaskName      string `json:"task_name"`
	ProjectID     int64  `json:"project_id"`
	ProjectName   string `json:"project_name"`
	ClientID      int64  `json:"client_id"`
	ClientName    string `json:"client_name"`
	TimesheetID   int64  `json:"timesheet_id"`
	TimesheetName string `json:"timesheet_name"`
	IsActive      bool   `json:"is_active"`
}

var (
	ErrTaskHoursNotFound = internal.NewNotFoundError("task hours not found", internal.ErrCodeTaskHoursNotFound)
	ErrTaskNotFound      = internal.NewNotFoundError("task not found", internal.ErrCodeTaskNotFound)
)
