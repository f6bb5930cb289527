package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal/project"
)

type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository returns the concrete type: it satisfies both
// project.Repository and project.ClientChecker.
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) ClientExists(companyID, clientID int64) (bool, error) {
	var count int64
	err := r.db.Table("clients").
		Where("id = ? AND company_id = ? AND is_archived = ?", clientID, companyID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProjectRepository) GetByID(companyID, id int64) (*project.Project, error) {
	var p project.Project
	err := r.db.
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("projects.id = ? AND clients.company_id = ? AND projects.is_archived = ?", id, companyID, false).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetActiveByName(clientID int64, name string) (*project.Project, error) {
	var p project.Project
	err := r.db.Where("name = ? AND client_id = ? AND is_archived = ?", name, clientID, false).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(p *project.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return r.db.Create(p).Error
}

func (r *ProjectRepository) Update(p *project.Project) error {
	p.UpdatedAt = time.Now()
	return r.db.Save(p).Error
}

func (r *ProjectRepository) ListWithClients(companyID int64) ([]project.ListEntry, error) {
	var entries []project.ListEntry
	err := r.db.
		Table("projects").
		Select(`projects.id, projects.name, projects.start_date, projects.end_date,
			projects.is_active, clients.id AS client_id,
			TRIM(clients.first_name || ' ' || clients.last_name) AS client_name`).
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("clients.company_id = ? AND projects.is_archived = ?", companyID, false).
		Order("projects.id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
