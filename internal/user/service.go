package user

import (
	"log/slog"

	"github.com/frahmantamala/timechronos/internal"
)

type Repository interface {
	GetByID(companyID, id int64) (*User, error)
	GetByEmail(companyID int64, email string) (*User, error)
	Create(user *User) error
	Update(user *User) error
	ListWithNames(companyID int64) ([]ListEntry, error)
}

// PasswordHasher is satisfied by the auth package's bcrypt hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// Create adds a user to the actor's company. Non-admin users must name a
// supervisor and an approver, both inside the same company.
func (s *Service) Create(actor internal.Actor, dto CreateUserDTO) (*User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(actor.CompanyID, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("could not create user", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	if err := s.checkReferences(actor.CompanyID, dto.SupervisorID, dto.ApproverID); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("could not create user", err)
	}

	u := &User{
		CompanyID:    actor.CompanyID,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: hash,
		Phone:        dto.Phone,
		Gender:       dto.Gender,
		Role:         dto.Role,
		SupervisorID: dto.SupervisorID,
		ApproverID:   dto.ApproverID,
		IsActive:     true,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("could not create user", err)
	}

	// An admin with no explicit chain becomes its own supervisor and
	// approver, same as the tenant's first user at registration.
	if u.IsAdmin() && u.SupervisorID == nil && u.ApproverID == nil {
		u.SupervisorID = &u.ID
		u.ApproverID = &u.ID
		if err := s.repo.Update(u); err != nil {
			s.logger.Error("failed to self-assign approver", "error", err, "user_id", u.ID)
			return nil, internal.NewInternalError("could not create user", err)
		}
	}

	s.logger.Info("user created", "user_id", u.ID, "company_id", u.CompanyID, "actor_id", actor.UserID)
	return u, nil
}

func (s *Service) Get(actor internal.Actor, id int64) (*User, error) {
	u, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrUserNotFound.WithCause(err)
	}
	return u, nil
}

func (s *Service) Update(actor internal.Actor, id int64, dto UpdateUserDTO) (*User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return nil, ErrUserNotFound.WithCause(err)
	}

	if dto.Email != nil && *dto.Email != u.Email {
		return nil, ErrEmailImmutable
	}

	if err := s.checkReferences(actor.CompanyID, dto.SupervisorID, dto.ApproverID); err != nil {
		return nil, err
	}

	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.Gender != nil {
		u.Gender = *dto.Gender
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.SupervisorID != nil {
		u.SupervisorID = dto.SupervisorID
	}
	if dto.ApproverID != nil {
		u.ApproverID = dto.ApproverID
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("could not update user", err)
	}

	s.logger.Info("user updated", "user_id", u.ID, "actor_id", actor.UserID)
	return u, nil
}

func (s *Service) Delete(actor internal.Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	u, err := s.repo.GetByID(actor.CompanyID, id)
	if err != nil {
		return ErrUserNotFound.WithCause(err)
	}

	u.Archive()
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to archive user", "error", err, "user_id", u.ID)
		return internal.NewInternalError("could not delete user", err)
	}

	s.logger.Info("user archived", "user_id", u.ID, "actor_id", actor.UserID)
	return nil
}

func (s *Service) List(actor internal.Actor) ([]ListEntry, error) {
	entries, err := s.repo.ListWithNames(actor.CompanyID)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "company_id", actor.CompanyID)
		return nil, internal.NewInternalError("could not list users", err)
	}
	return entries, nil
}

// checkReferences verifies that any supplied supervisor/approver ids resolve
// to users of the given company.
func (s *Service) checkReferences(companyID int64, supervisorID, approverID *int64) error {
	for _, ref := range []*int64{supervisorID, approverID} {
		if ref == nil {
			continue
		}
		if _, err := s.repo.GetByID(companyID, *ref); err != nil {
			return ErrSupervisorInvalid.WithCause(err)
		}
	}
	return nil
}
