package postgres

import (
	"time"

	"github.com/frahmantamala/timechronos/internal/company"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByID(id int64) (*company.Company, error) {
	var comp company.Company
	err := r.db.Where("id = ? AND is_archived = ?", id, false).First(&comp).Error
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

func (r *CompanyRepository) GetActiveByName(name string) (*company.Company, error) {
	var comp company.Company
	err := r.db.Where("name = ? AND is_archived = ?", name, false).First(&comp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &comp, nil
}

func (r *CompanyRepository) Update(comp *company.Company) error {
	comp.UpdatedAt = time.Now()
	return r.db.Save(comp).Error
}
