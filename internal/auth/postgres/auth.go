package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal/auth"
	"github.com/frahmantamala/timechronos/internal/company"
	"github.com/frahmantamala/timechronos/internal/user"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.Repository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetUserByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ? AND is_archived = ?", email, false).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) GetUserByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ? AND is_archived = ?", id, false).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) GetCompanyByName(name string) (*company.Company, error) {
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

func (r *AuthRepository) GetUserByEmailInCompany(companyID int64, email string) (*user.User, error) {
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

// CreateTenant writes the company (when new) and the user atomically. Admins
// get supervisor and approver pointed back at their own fresh id.
func (r *AuthRepository) CreateTenant(comp *company.Company, u *user.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if comp.ID == 0 {
			comp.CreatedAt = now
			comp.UpdatedAt = now
			if err := tx.Create(comp).Error; err != nil {
				return err
			}
		}

		u.CompanyID = comp.ID
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := tx.Create(u).Error; err != nil {
			return err
		}

		if u.IsAdmin() {
			u.SupervisorID = &u.ID
			u.ApproverID = &u.ID
			if err := tx.Model(&user.User{}).Where("id = ?", u.ID).
				Updates(map[string]interface{}{
					"supervisor_id": u.ID,
					"approver_id":   u.ID,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AuthRepository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Model(&user.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}
