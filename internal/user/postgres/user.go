package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(companyID, id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ? AND company_id = ? AND is_archived = ?", id, companyID, false).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(companyID int64, email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ? AND company_id = ? AND is_archived = ?", email, companyID, false).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *user.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

// ListWithNames joins the users table against itself twice to attach the
// supervisor and approver display names.
func (r *UserRepository) ListWithNames(companyID int64) ([]user.ListEntry, error) {
	var entries []user.ListEntry
	err := r.db.
		Table("users AS u").
		Select(`u.id, u.first_name, u.last_name, u.email, u.phone, u.gender, u.role,
			u.supervisor_id, u.approver_id, u.is_active,
			COALESCE(s.first_name || ' ' || s.last_name, '') AS supervisor_name,
			COALESCE(a.first_name || ' ' || a.last_name, '') AS approver_name`).
		Joins("LEFT JOIN users AS s ON s.id = u.supervisor_id").
		Joins("LEFT JOIN users AS a ON a.id = u.approver_id").
		Where("u.company_id = ? AND u.is_archived = ?", companyID, false).
		Order("u.id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
