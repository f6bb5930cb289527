package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal/task"
)

type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns the concrete type: it satisfies both
// task.Repository and task.ProjectChecker.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(companyID, id int64) (*task.Task, error) {
	var t task.Task
	err := r.db.
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("tasks.id = ? AND clients.company_id = ? AND tasks.is_archived = ?", id, companyID, false).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) GetActiveByName(projectID int64, name string) (*task.Task, error) {
	var t task.Task
	err := r.db.Where("name = ? AND project_id = ? AND is_archived = ?", name, projectID, false).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(t *task.Task) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return r.db.Create(t).Error
}

func (r *TaskRepository) Update(t *task.Task) error {
	t.UpdatedAt = time.Now()
	return r.db.Save(t).Error
}

func (r *TaskRepository) ListWithProjects(companyID int64) ([]task.ListEntry, error) {
	var entries []task.ListEntry
	err := r.db.
		Table("tasks").
		Select(`tasks.id, tasks.name, tasks.start_date, tasks.end_date, tasks.is_active,
			projects.id AS project_id, projects.name AS project_name,
			clients.id AS client_id,
			TRIM(clients.first_name || ' ' || clients.last_name) AS client_name`).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("clients.company_id = ? AND tasks.is_archived = ?", companyID, false).
		Order("tasks.id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *TaskRepository) ProjectExists(companyID, projectID int64) (bool, error) {
	var count int64
	err := r.db.Table("projects").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("projects.id = ? AND clients.company_id = ? AND projects.is_archived = ?", projectID, companyID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
