package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal/client"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) client.Repository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByID(companyID, id int64) (*client.Client, error) {
	var c client.Client
	err := r.db.Where("id = ? AND company_id = ? AND is_archived = ?", id, companyID, false).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetActiveByEmail(companyID int64, email string) (*client.Client, error) {
	var c client.Client
	err := r.db.Where("email = ? AND company_id = ? AND is_archived = ?", email, companyID, false).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(c *client.Client) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return r.db.Create(c).Error
}

func (r *ClientRepository) Update(c *client.Client) error {
	c.UpdatedAt = time.Now()
	return r.db.Save(c).Error
}

func (r *ClientRepository) List(companyID int64) ([]client.Client, error) {
	var clients []client.Client
	err := r.db.Where("company_id = ? AND is_archived = ?", companyID, false).Order("id").Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
